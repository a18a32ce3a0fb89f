package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS packages (
    name                 TEXT PRIMARY KEY,
    added_at             TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS package_stats (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    package_name         TEXT NOT NULL REFERENCES packages(name) ON DELETE CASCADE,
    fetch_date           TEXT NOT NULL,
    last_day             INTEGER NOT NULL DEFAULT 0,
    last_week            INTEGER NOT NULL DEFAULT 0,
    last_month           INTEGER NOT NULL DEFAULT 0,
    total_downloads      INTEGER NOT NULL DEFAULT 0,
    UNIQUE (package_name, fetch_date)
);

CREATE INDEX IF NOT EXISTS idx_stats_package ON package_stats(package_name);
CREATE INDEX IF NOT EXISTS idx_stats_date ON package_stats(fetch_date);
`

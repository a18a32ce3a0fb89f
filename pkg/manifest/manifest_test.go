package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/shakfu/pkgdb/pkg/errors"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "requests", false},
		{"with hyphen", "scikit-learn", false},
		{"with underscore", "typing_extensions", false},
		{"with dots", "zope.interface", false},
		{"single char", "a", false},
		{"digits", "2to3", false},
		{"empty", "", true},
		{"leading hyphen", "-requests", true},
		{"trailing dot", "requests.", true},
		{"spaces", "my package", true},
		{"unicode", "päckage", true},
		{"too long", string(make([]byte, 101)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Requests", "requests"},
		{"typing_extensions", "typing-extensions"},
		{"zope.interface", "zope-interface"},
		{"Foo--Bar__baz", "foo-bar-baz"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	t.Run("published key", func(t *testing.T) {
		path := writeTemp(t, "pkgs.yml", "published:\n  - requests\n  - flask\n")
		names, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !reflect.DeepEqual(names, []string{"requests", "flask"}) {
			t.Errorf("Load() = %v", names)
		}
	})

	t.Run("packages key", func(t *testing.T) {
		path := writeTemp(t, "pkgs.yaml", "packages: [numpy, pandas]\n")
		names, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !reflect.DeepEqual(names, []string{"numpy", "pandas"}) {
			t.Errorf("Load() = %v", names)
		}
	})

	t.Run("bare list", func(t *testing.T) {
		path := writeTemp(t, "pkgs.yml", "- requests\n- flask\n")
		names, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(names) != 2 {
			t.Errorf("Load() = %v", names)
		}
	})
}

func TestLoadJSON(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		path := writeTemp(t, "pkgs.json", `["requests", "flask"]`)
		names, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !reflect.DeepEqual(names, []string{"requests", "flask"}) {
			t.Errorf("Load() = %v", names)
		}
	})

	t.Run("object keys", func(t *testing.T) {
		path := writeTemp(t, "pkgs.json", `{"requests": {"version": "2.0"}, "flask": null}`)
		names, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		sort.Strings(names)
		if !reflect.DeepEqual(names, []string{"flask", "requests"}) {
			t.Errorf("Load() = %v", names)
		}
	})
}

func TestLoadText(t *testing.T) {
	path := writeTemp(t, "pkgs.txt", "# my packages\nrequests\n\nflask\n  numpy  \n")
	names, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(names, []string{"requests", "flask", "numpy"}) {
		t.Errorf("Load() = %v", names)
	}
}

func TestLoadDeduplicates(t *testing.T) {
	path := writeTemp(t, "pkgs.txt", "requests\nflask\nrequests\n")
	names, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(names, []string{"requests", "flask"}) {
		t.Errorf("Load() = %v", names)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	if errors.GetCode(err) != errors.ErrCodeFileNotFound {
		t.Errorf("Load() error code = %q, want %q", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}

func TestLoadInvalidName(t *testing.T) {
	path := writeTemp(t, "pkgs.txt", "requests\n-bad-name\n")
	_, err := Load(path)
	if errors.GetCode(err) != errors.ErrCodeInvalidPackage {
		t.Errorf("Load() error code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidPackage)
	}
}

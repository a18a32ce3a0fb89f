package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/shakfu/pkgdb/pkg/badge"
	"github.com/shakfu/pkgdb/pkg/config"
	"github.com/shakfu/pkgdb/pkg/errors"
	"github.com/shakfu/pkgdb/pkg/report"
	"github.com/shakfu/pkgdb/pkg/stats"
	"github.com/shakfu/pkgdb/pkg/store"
)

// serveCommand creates the "serve" command: a local HTTP server that
// renders reports and badges from the database on demand.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reports and badges over HTTP",
		Long: `Start a local HTTP server rendering from the database on every request:

  GET /                          aggregate HTML report
  GET /packages/{name}           single-package HTML report
  GET /badge/{name}.svg          download badge (query: period, color)
  GET /api/packages              latest snapshots as JSON
  GET /api/packages/{name}       snapshot history as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := c.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			srv := &http.Server{
				Addr:              addr,
				Handler:           c.newRouter(s, cfg),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()
			c.Logger.Info("serving", "addr", addr)

			select {
			case err := <-errc:
				return err
			case <-cmd.Context().Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
				return cmd.Context().Err()
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	return cmd
}

// newRouter builds the HTTP routes.
func (c *CLI) newRouter(s *store.Store, cfg config.Config) http.Handler {
	opts := report.Options{
		ThemeColor:  cfg.Report.ThemeColor,
		PieMaxItems: cfg.Report.PieMaxItems,
		MaxSeries:   cfg.Report.MaxSeries,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		rows, err := s.LatestWithGrowth()
		if err != nil {
			httpError(w, err)
			return
		}
		history, err := s.AllHistory()
		if err != nil {
			httpError(w, err)
			return
		}
		writeHTML(w, report.Aggregate(rows, history, nil, opts))
	})

	r.Get("/packages/{name}", func(w http.ResponseWriter, req *http.Request) {
		latest, history, err := packageData(s, chi.URLParam(req, "name"))
		if err != nil {
			httpError(w, err)
			return
		}
		writeHTML(w, report.Package(latest, history, nil, opts))
	})

	r.Get("/badge/{name}", func(w http.ResponseWriter, req *http.Request) {
		name := strings.TrimSuffix(chi.URLParam(req, "name"), ".svg")
		snap, err := s.LatestFor(name)
		if err != nil {
			httpError(w, err)
			return
		}

		period := badge.Period(req.URL.Query().Get("period"))
		if period == "" {
			period = badge.PeriodTotal
		}
		count, ok := badgeCount(snap, period)
		if !ok {
			http.Error(w, "unknown period", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "max-age=3600")
		fmt.Fprint(w, badge.ForCount(count, period, req.URL.Query().Get("color")))
	})

	r.Get("/api/packages", func(w http.ResponseWriter, req *http.Request) {
		rows, err := s.LatestWithGrowth()
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSONResponse(w, rows)
	})

	r.Get("/api/packages/{name}", func(w http.ResponseWriter, req *http.Request) {
		history, err := s.History(chi.URLParam(req, "name"), 0)
		if err != nil {
			httpError(w, err)
			return
		}
		if len(history) == 0 {
			http.NotFound(w, req)
			return
		}
		writeJSONResponse(w, history)
	})

	return r
}

func packageData(s *store.Store, name string) (stats.WithGrowth, []stats.Snapshot, error) {
	rows, err := s.LatestWithGrowth()
	if err != nil {
		return stats.WithGrowth{}, nil, err
	}
	for _, row := range rows {
		if row.Package == name {
			history, err := s.History(name, 0)
			return row, history, err
		}
	}
	return stats.WithGrowth{}, nil, errors.New(errors.ErrCodeNoData, "no statistics recorded for %q", name)
}

func writeHTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, body)
}

func writeJSONResponse(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, err error) {
	switch errors.GetCode(err) {
	case errors.ErrCodeNoData, errors.ErrCodePackageNotFound:
		http.Error(w, errors.UserMessage(err), http.StatusNotFound)
	default:
		http.Error(w, errors.UserMessage(err), http.StatusInternalServerError)
	}
}

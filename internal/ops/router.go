// Package ops serves the process's operational endpoints: health, metrics
// and a small authenticated admin surface for refresh, backup, restore and
// export.
package ops

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mmynk/gymdesk/internal/auth"
	"github.com/mmynk/gymdesk/internal/metrics"
	"github.com/mmynk/gymdesk/internal/middleware"
	"github.com/mmynk/gymdesk/internal/reconcile"
	"github.com/mmynk/gymdesk/internal/store"
)

// Refresher triggers an on-demand reconciliation.
type Refresher interface {
	Refresh(ctx context.Context) reconcile.Report
}

// Deps are the collaborators the router serves. Refresher, Backup, Restore
// and JWT are optional; without JWT the admin routes are not mounted.
type Deps struct {
	Store     *store.Store
	Refresher Refresher
	Backup    func(ctx context.Context) error
	Restore   func(ctx context.Context) error
	Metrics   *metrics.Collector
	JWT       *auth.JWTManager
	Logger    *slog.Logger
}

// NewRouter builds the ops handler.
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging(d.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "version": d.Store.Version()})
	})
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	if d.JWT != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth(d.JWT))
			r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusOK, d.Store.Stats())
			})
			r.Get("/export", func(w http.ResponseWriter, req *http.Request) {
				data, err := d.Store.ExportData()
				if err != nil {
					d.Logger.Error("Failed to export data", "error", err)
					http.Error(w, "export failed", http.StatusInternalServerError)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Content-Disposition", `attachment; filename="gymdesk-export.json"`)
				_, _ = w.Write(data)
			})
			r.Post("/refresh", func(w http.ResponseWriter, req *http.Request) {
				if d.Refresher == nil {
					http.Error(w, "sync not configured", http.StatusNotFound)
					return
				}
				writeJSON(w, http.StatusOK, summarize(d.Refresher.Refresh(req.Context())))
			})
			r.Post("/backup", func(w http.ResponseWriter, req *http.Request) {
				if d.Backup == nil {
					http.Error(w, "backup not configured", http.StatusNotFound)
					return
				}
				ctx := req.Context()
				if err := d.Backup(ctx); err != nil {
					d.Logger.Error("Backup failed", "user_id", middleware.GetUserID(ctx), "email", middleware.GetEmail(ctx), "error", err)
					http.Error(w, "backup failed", http.StatusBadGateway)
					return
				}
				d.Logger.Info("Backup written", "user_id", middleware.GetUserID(ctx), "email", middleware.GetEmail(ctx))
				w.WriteHeader(http.StatusNoContent)
			})
			r.Post("/restore", func(w http.ResponseWriter, req *http.Request) {
				if d.Restore == nil {
					http.Error(w, "backup not configured", http.StatusNotFound)
					return
				}
				ctx := req.Context()
				if err := d.Restore(ctx); err != nil {
					d.Logger.Error("Restore failed", "user_id", middleware.GetUserID(ctx), "error", err)
					http.Error(w, "restore failed", restoreStatus(err))
					return
				}
				d.Logger.Info("Backup restored", "user_id", middleware.GetUserID(ctx), "email", middleware.GetEmail(ctx))
				w.WriteHeader(http.StatusNoContent)
			})
		})
	}
	return r
}

type refreshSummary struct {
	Skipped    bool              `json:"skipped"`
	Outcomes   map[string]string `json:"outcomes,omitempty"`
	DurationMS int64             `json:"durationMs"`
}

func summarize(rep reconcile.Report) refreshSummary {
	s := refreshSummary{Skipped: rep.Skipped, DurationMS: rep.Duration.Milliseconds()}
	if len(rep.Types) > 0 {
		s.Outcomes = make(map[string]string, len(rep.Types))
		for _, t := range rep.Types {
			s.Outcomes[string(t.Entity)] = t.Outcome
		}
	}
	return s
}

func restoreStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrMalformedImport):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

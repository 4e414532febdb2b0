package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Route("/api/v1", func(r chi.Router) {
		// Version
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"version":"0.1.0"}`))
		})

		// Tasks
		r.Post("/tasks/start", h.StartTask)
		r.Put("/tasks/{id}/stop", h.StopTask)
		r.Post("/tasks/manual", h.CreateManualTask)
		r.Get("/tasks", h.ListTasks)
		r.Get("/tasks/current", h.CurrentTask)

		// Statistics
		r.Get("/stats/daily", h.DailyStats)
		r.Get("/stats/weekly", h.WeeklyStats)
		r.Get("/stats/top-tasks", h.TopTasks)
	})
}

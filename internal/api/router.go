package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/habits/internal/schedule"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced; every request
// acts on behalf of userID.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *schedule.Service, authEnabled bool, token, userID string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token, userID))

	r.Get("/days", h.GetRange)
	r.Get("/days/{date}", h.GetDay)
	r.Get("/days/{date}/calendar.ics", h.ExportDay)
	r.Get("/slots", h.Slots)
	r.Get("/stats", h.Stats)

	r.Get("/settings/display", h.GetDisplay)
	r.Put("/settings/display", h.PutDisplay)

	r.Route("/activity-types", func(r chi.Router) {
		r.Get("/", h.ListActivityTypes)
		r.Post("/", h.CreateActivityType)
		r.Put("/{id}", h.UpdateActivityType)
		r.Delete("/{id}", h.DeleteActivityType)
	})

	r.Route("/activities", func(r chi.Router) {
		r.Get("/", h.ListActivities)
		r.Post("/", h.CreateActivity)
		r.Get("/{id}", h.GetActivity)
		r.Put("/{id}", h.UpdateActivity)
		r.Delete("/{id}", h.DeleteActivity)
	})

	r.Route("/plans", func(r chi.Router) {
		r.Get("/", h.ListPlans)
		r.Post("/", h.CreatePlan)
		r.Put("/{id}", h.UpdatePlan)
		r.Delete("/{id}", h.DeletePlan)
		r.Post("/{id}/toggle", h.TogglePlan)
	})

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}

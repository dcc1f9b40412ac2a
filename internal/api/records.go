package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/habits/internal/models"
	"github.com/starford/habits/internal/schedule"
)

// ListActivityTypes handles GET /api/activity-types.
//
//	@Summary		List activity types
//	@Tags			activity-types
//	@Produce		json
//	@Success		200	{object}	ActivityTypeListResponse
//	@Security		BearerAuth
//	@Router			/activity-types [get]
func (h *Handler) ListActivityTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.svc.ListActivityTypes(r.Context(), userFrom(r.Context()))
	if err != nil {
		writeError(w, "list activity types", err)
		return
	}
	if types == nil {
		types = []models.ActivityType{}
	}
	writeJSON(w, http.StatusOK, ActivityTypeListResponse{ActivityTypes: types})
}

// CreateActivityType handles POST /api/activity-types.
//
//	@Summary		Create an activity type
//	@Tags			activity-types
//	@Accept			json
//	@Produce		json
//	@Param			body	body		schedule.ActivityTypeInput	true	"Type to create"
//	@Success		201		{object}	models.ActivityType
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/activity-types [post]
func (h *Handler) CreateActivityType(w http.ResponseWriter, r *http.Request) {
	var req schedule.ActivityTypeInput
	if !decodeJSON(w, r, &req) {
		return
	}
	at, err := h.svc.CreateActivityType(r.Context(), userFrom(r.Context()), req)
	if err != nil {
		writeError(w, "create activity type", err)
		return
	}
	writeJSON(w, http.StatusCreated, at)
}

// UpdateActivityType handles PUT /api/activity-types/{id}.
func (h *Handler) UpdateActivityType(w http.ResponseWriter, r *http.Request) {
	var req schedule.ActivityTypeInput
	if !decodeJSON(w, r, &req) {
		return
	}
	at, err := h.svc.UpdateActivityType(r.Context(), userFrom(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, "update activity type", err)
		return
	}
	writeJSON(w, http.StatusOK, at)
}

// DeleteActivityType handles DELETE /api/activity-types/{id}.
//
//	@Summary		Delete an unused activity type
//	@Tags			activity-types
//	@Param			id	path	string	true	"Type ID"
//	@Success		204	"Type deleted"
//	@Failure		404	{object}	errResponse
//	@Failure		409	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/activity-types/{id} [delete]
func (h *Handler) DeleteActivityType(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteActivityType(r.Context(), userFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete activity type", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListActivities handles GET /api/activities.
//
//	@Summary		List activities in a date range
//	@Tags			activities
//	@Produce		json
//	@Param			from	query		string	false	"First day, defaults to 30 days ago"
//	@Param			to		query		string	false	"Last day, defaults to today"
//	@Success		200		{object}	ActivityListResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/activities [get]
func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	from, to := dateRange(r, h.svc.Location())
	activities, err := h.svc.ListActivities(r.Context(), userFrom(r.Context()), from, to)
	if err != nil {
		writeError(w, "list activities", err)
		return
	}
	if activities == nil {
		activities = []models.Activity{}
	}
	writeJSON(w, http.StatusOK, ActivityListResponse{Activities: activities})
}

// GetActivity handles GET /api/activities/{id}.
func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.GetActivity(r.Context(), userFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "get activity", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// CreateActivity handles POST /api/activities.
//
//	@Summary		Record an activity
//	@Tags			activities
//	@Accept			json
//	@Produce		json
//	@Param			body	body		schedule.ActivityInput	true	"Activity to record"
//	@Success		201		{object}	models.Activity
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/activities [post]
func (h *Handler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req schedule.ActivityInput
	if !decodeJSON(w, r, &req) {
		return
	}
	a, err := h.svc.CreateActivity(r.Context(), userFrom(r.Context()), req)
	if err != nil {
		writeError(w, "create activity", err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// UpdateActivity handles PUT /api/activities/{id}.
func (h *Handler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	var req schedule.ActivityInput
	if !decodeJSON(w, r, &req) {
		return
	}
	a, err := h.svc.UpdateActivity(r.Context(), userFrom(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, "update activity", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// DeleteActivity handles DELETE /api/activities/{id}.
func (h *Handler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteActivity(r.Context(), userFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete activity", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPlans handles GET /api/plans.
//
//	@Summary		List the plans falling on a day
//	@Tags			plans
//	@Produce		json
//	@Param			date	query		string	false	"Day, defaults to today"
//	@Success		200		{object}	PlanListResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/plans [get]
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().In(h.svc.Location()).Format(models.DateLayout)
	}
	plans, err := h.svc.ListPlans(r.Context(), userFrom(r.Context()), date)
	if err != nil {
		writeError(w, "list plans", err)
		return
	}
	writeJSON(w, http.StatusOK, PlanListResponse{Plans: plans})
}

// CreatePlan handles POST /api/plans.
//
//	@Summary		Create a plan
//	@Tags			plans
//	@Accept			json
//	@Produce		json
//	@Param			body	body		schedule.PlanInput	true	"Plan to create"
//	@Success		201		{object}	models.Plan
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/plans [post]
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req schedule.PlanInput
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.svc.CreatePlan(r.Context(), userFrom(r.Context()), req)
	if err != nil {
		writeError(w, "create plan", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// UpdatePlan handles PUT /api/plans/{id}.
func (h *Handler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	var req schedule.PlanInput
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.svc.UpdatePlan(r.Context(), userFrom(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, "update plan", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// TogglePlan handles POST /api/plans/{id}/toggle.
//
//	@Summary		Flip a plan's finished flag
//	@Tags			plans
//	@Produce		json
//	@Param			id	path		string	true	"Plan ID"
//	@Success		200	{object}	models.Plan
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/plans/{id}/toggle [post]
func (h *Handler) TogglePlan(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.TogglePlan(r.Context(), userFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "toggle plan", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeletePlan handles DELETE /api/plans/{id}.
func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePlan(r.Context(), userFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete plan", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/habits/internal/layout"
	"github.com/starford/habits/internal/models"
	"github.com/starford/habits/internal/schedule"
)

// Handler holds API route handlers.
type Handler struct {
	svc *schedule.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *schedule.Service) *Handler {
	return &Handler{svc: svc}
}

// GetDay handles GET /api/days/{date}.
//
//	@Summary		Lay out one day's activities and plans
//	@Tags			days
//	@Produce		json
//	@Param			date	path		string	true	"Day (YYYY-MM-DD)"
//	@Param			start	query		string	false	"Window start override"
//	@Param			end		query		string	false	"Window end override"
//	@Success		200		{object}	DayView
//	@Success		304		"Unchanged since If-None-Match"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/days/{date} [get]
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := userFrom(ctx)
	q := r.URL.Query()

	var override *layout.Window
	if start, end := q.Get("start"), q.Get("end"); start != "" || end != "" {
		saved := h.svc.Window(ctx, user)
		if start == "" {
			start = saved.StartLabel()
		}
		if end == "" {
			end = saved.EndLabel()
		}
		win, err := layout.ParseWindow(start, end)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		override = &win
	}

	view, err := h.svc.DayView(ctx, user, chi.URLParam(r, "date"), override)
	if err != nil {
		writeError(w, "day view", err)
		return
	}
	body, err := json.Marshal(view)
	if err != nil {
		writeError(w, "encode day view", err)
		return
	}
	writeCached(w, r, "application/json; charset=utf-8", body)
}

// GetRange handles GET /api/days.
//
//	@Summary		Lay out consecutive days side by side
//	@Tags			days
//	@Produce		json
//	@Param			from	query		string	false	"First day (YYYY-MM-DD), defaults to this week's Sunday"
//	@Param			to		query		string	false	"Last day (YYYY-MM-DD), defaults to two weeks from from"
//	@Param			start	query		string	false	"Window start, defaults to 12:00 AM"
//	@Param			end		query		string	false	"Window end, defaults to 11:59 PM"
//	@Success		200		{object}	RangeView
//	@Success		304		"Unchanged since If-None-Match"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/days [get]
func (h *Handler) GetRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var override *layout.Window
	if start, end := q.Get("start"), q.Get("end"); start != "" || end != "" {
		if start == "" {
			start = layout.FormatClock(0)
		}
		if end == "" {
			end = layout.EndOfDayLabel
		}
		win, err := layout.ParseWindow(start, end)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		override = &win
	}

	view, err := h.svc.RangeView(r.Context(), userFrom(r.Context()), q.Get("from"), q.Get("to"), override)
	if err != nil {
		writeError(w, "range view", err)
		return
	}
	body, err := json.Marshal(view)
	if err != nil {
		writeError(w, "encode range view", err)
		return
	}
	writeCached(w, r, "application/json; charset=utf-8", body)
}

// ExportDay handles GET /api/days/{date}/calendar.ics.
//
//	@Summary		Export one day as iCalendar
//	@Tags			days
//	@Produce		text/calendar
//	@Param			date	path	string	true	"Day (YYYY-MM-DD)"
//	@Success		200
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/days/{date}/calendar.ics [get]
func (h *Handler) ExportDay(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	data, err := h.svc.ExportICS(r.Context(), userFrom(r.Context()), date)
	if err != nil {
		writeError(w, "export calendar", err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="habits-`+date+`.ics"`)
	writeCached(w, r, "text/calendar; charset=utf-8", data)
}

// Slots handles GET /api/slots.
//
//	@Summary		List every slot label of the day grid
//	@Tags			days
//	@Produce		json
//	@Success		200	{object}	SlotsResponse
//	@Router			/slots [get]
func (h *Handler) Slots(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, SlotsResponse{Slots: layout.SlotLabels(layout.Slots())})
}

// Stats handles GET /api/stats.
//
//	@Summary		Hours per activity type over a date range
//	@Tags			stats
//	@Produce		json
//	@Param			from	query		string	false	"First day, defaults to 30 days ago"
//	@Param			to		query		string	false	"Last day, defaults to today"
//	@Success		200		{object}	StatsResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	from, to := dateRange(r, h.svc.Location())
	stats, err := h.svc.Stats(r.Context(), userFrom(r.Context()), from, to)
	if err != nil {
		writeError(w, "stats", err)
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{From: from, To: to, Stats: stats})
}

// GetDisplay handles GET /api/settings/display.
//
//	@Summary		Get the display window
//	@Tags			settings
//	@Produce		json
//	@Success		200	{object}	DisplaySettings
//	@Security		BearerAuth
//	@Router			/settings/display [get]
func (h *Handler) GetDisplay(w http.ResponseWriter, r *http.Request) {
	win := h.svc.Window(r.Context(), userFrom(r.Context()))
	writeJSON(w, http.StatusOK, DisplaySettings{StartTime: win.StartLabel(), EndTime: win.EndLabel()})
}

// PutDisplay handles PUT /api/settings/display.
//
//	@Summary		Save the display window
//	@Tags			settings
//	@Accept			json
//	@Produce		json
//	@Param			body	body		DisplaySettings	true	"Window bounds on the slot grid"
//	@Success		200		{object}	DisplaySettings
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/settings/display [put]
func (h *Handler) PutDisplay(w http.ResponseWriter, r *http.Request) {
	var req DisplaySettings
	if !decodeJSON(w, r, &req) {
		return
	}
	win, err := layout.ParseWindow(req.StartTime, req.EndTime)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if err := h.svc.SetWindow(r.Context(), userFrom(r.Context()), win); err != nil {
		writeError(w, "save display window", err)
		return
	}
	writeJSON(w, http.StatusOK, DisplaySettings{StartTime: win.StartLabel(), EndTime: win.EndLabel()})
}

// dateRange reads from/to query parameters, defaulting to the last 30 days
// in loc.
func dateRange(r *http.Request, loc *time.Location) (string, string) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	today := time.Now().In(loc)
	if to == "" {
		to = today.Format(models.DateLayout)
	}
	if from == "" {
		from = today.AddDate(0, 0, -30).Format(models.DateLayout)
	}
	return from, to
}

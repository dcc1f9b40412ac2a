package schedule

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/starford/habits/internal/models"
)

// ListPlans returns the plans falling on date, recurring ones included,
// ordered by start time.
func (s *Service) ListPlans(ctx context.Context, userID, date string) ([]models.Plan, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	candidates, err := s.store.ListPlans(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	out := make([]models.Plan, 0, len(candidates))
	for _, p := range candidates {
		if occursOn(p, day) {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Plan) int {
		return cmp.Compare(s.minutes(a.StartTime), s.minutes(b.StartTime))
	})
	return out, nil
}

// CreatePlan validates and stores a new plan. Plan times are kept as clock
// strings.
func (s *Service) CreatePlan(ctx context.Context, userID string, in PlanInput) (*models.Plan, error) {
	p, err := planFromInput(userID, in)
	if err != nil {
		return nil, err
	}
	p.IsFinished = false
	if err := s.store.InsertPlan(ctx, p); err != nil {
		return nil, err
	}
	s.notify(ChangeCreated, EntityPlan, p.ID)
	return p, nil
}

// UpdatePlan replaces a plan's fields.
func (s *Service) UpdatePlan(ctx context.Context, userID, id string, in PlanInput) (*models.Plan, error) {
	p, err := planFromInput(userID, in)
	if err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.store.UpdatePlan(ctx, p); err != nil {
		return nil, err
	}
	s.notify(ChangeUpdated, EntityPlan, id)
	return s.store.GetPlan(ctx, userID, id)
}

// TogglePlan flips a plan's finished flag and returns the updated plan.
func (s *Service) TogglePlan(ctx context.Context, userID, id string) (*models.Plan, error) {
	p, err := s.store.GetPlan(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetPlanFinished(ctx, userID, id, !p.IsFinished); err != nil {
		return nil, err
	}
	p.IsFinished = !p.IsFinished
	s.notify(ChangeUpdated, EntityPlan, id)
	return p, nil
}

// DeletePlan removes a plan.
func (s *Service) DeletePlan(ctx context.Context, userID, id string) error {
	if err := s.store.DeletePlan(ctx, userID, id); err != nil {
		return err
	}
	s.notify(ChangeDeleted, EntityPlan, id)
	return nil
}

func planFromInput(userID string, in PlanInput) (*models.Plan, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Recurrence = strings.TrimSpace(in.Recurrence)
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}
	return &models.Plan{
		UserID:     userID,
		Name:       in.Name,
		Date:       in.Date,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
		Notes:      in.Notes,
		IsFinished: in.IsFinished,
		Recurrence: in.Recurrence,
	}, nil
}

// occursOn reports whether p falls on day. Recurring plans are expanded
// from their anchor date at midnight UTC.
func occursOn(p models.Plan, day time.Time) bool {
	if !p.Recurring() {
		return p.Date == day.Format(models.DateLayout)
	}
	anchor, err := time.Parse(models.DateLayout, p.Date)
	if err != nil {
		return false
	}
	r, err := rrule.StrToRRule(p.Recurrence)
	if err != nil {
		slog.Warn("plan recurrence unreadable", slog.String("plan", p.ID), slog.String("error", err.Error()))
		return false
	}
	r.DTStart(anchor)
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return len(r.Between(dayStart, dayStart.Add(24*time.Hour-time.Second), true)) > 0
}

package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/starford/habits/internal/apperr"
	"github.com/starford/habits/internal/models"
)

// ListActivities returns activities dated within [from, to].
func (s *Service) ListActivities(ctx context.Context, userID, from, to string) ([]models.Activity, error) {
	if _, err := parseDate(from); err != nil {
		return nil, err
	}
	if _, err := parseDate(to); err != nil {
		return nil, err
	}
	return s.store.ListActivities(ctx, userID, from, to)
}

// GetActivity returns a single activity.
func (s *Service) GetActivity(ctx context.Context, userID, id string) (*models.Activity, error) {
	return s.store.GetActivity(ctx, userID, id)
}

// CreateActivity validates in, resolves clock times to instants on the
// activity's date and stores it.
func (s *Service) CreateActivity(ctx context.Context, userID string, in ActivityInput) (*models.Activity, error) {
	a, err := s.activityFromInput(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	if err := s.store.InsertActivity(ctx, a); err != nil {
		return nil, err
	}
	s.notify(ChangeCreated, EntityActivity, a.ID)
	return s.store.GetActivity(ctx, userID, a.ID)
}

// UpdateActivity replaces an activity's fields.
func (s *Service) UpdateActivity(ctx context.Context, userID, id string, in ActivityInput) (*models.Activity, error) {
	a, err := s.activityFromInput(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	a.ID = id
	if err := s.store.UpdateActivity(ctx, a); err != nil {
		return nil, err
	}
	s.notify(ChangeUpdated, EntityActivity, id)
	return s.store.GetActivity(ctx, userID, id)
}

// DeleteActivity removes an activity.
func (s *Service) DeleteActivity(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteActivity(ctx, userID, id); err != nil {
		return err
	}
	s.notify(ChangeDeleted, EntityActivity, id)
	return nil
}

func (s *Service) activityFromInput(ctx context.Context, userID string, in ActivityInput) (*models.Activity, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}
	if _, err := s.store.GetActivityType(ctx, userID, in.ActivityTypeID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown activity type %s", apperr.ErrInvalid, in.ActivityTypeID)
		}
		return nil, err
	}
	start, end, err := s.anchorTimes(in.Date, in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}
	return &models.Activity{
		UserID:         userID,
		ActivityTypeID: in.ActivityTypeID,
		Name:           in.Name,
		Date:           in.Date,
		StartTime:      start,
		EndTime:        end,
		Notes:          in.Notes,
	}, nil
}

// anchorTimes turns clock readings into UTC instants on date in the service
// zone. Instants pass through unchanged.
func (s *Service) anchorTimes(date, rawStart, rawEnd string) (string, string, error) {
	day, err := parseDate(date)
	if err != nil {
		return "", "", err
	}
	start, end, ok := s.span(day, rawStart, rawEnd)
	if !ok {
		return "", "", fmt.Errorf("%w: unreadable start or end time", apperr.ErrInvalid)
	}
	return start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339), nil
}

package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/starford/habits/internal/apperr"
	"github.com/starford/habits/internal/models"
)

// ListActivityTypes returns the user's activity types ordered by name.
func (s *Service) ListActivityTypes(ctx context.Context, userID string) ([]models.ActivityType, error) {
	return s.store.ListActivityTypes(ctx, userID)
}

// CreateActivityType validates and stores a new type. An empty color
// defaults to black.
func (s *Service) CreateActivityType(ctx context.Context, userID string, in ActivityTypeInput) (*models.ActivityType, error) {
	in = normalizeType(in)
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}
	t := &models.ActivityType{UserID: userID, Name: in.Name, Color: in.Color}
	if err := s.store.InsertActivityType(ctx, t); err != nil {
		return nil, err
	}
	s.notify(ChangeCreated, EntityActivityType, t.ID)
	return t, nil
}

// UpdateActivityType renames or recolors an existing type.
func (s *Service) UpdateActivityType(ctx context.Context, userID, id string, in ActivityTypeInput) (*models.ActivityType, error) {
	in = normalizeType(in)
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}
	t := &models.ActivityType{ID: id, UserID: userID, Name: in.Name, Color: in.Color}
	if err := s.store.UpdateActivityType(ctx, t); err != nil {
		return nil, err
	}
	s.notify(ChangeUpdated, EntityActivityType, id)
	return t, nil
}

// DeleteActivityType removes a type that no activity references.
func (s *Service) DeleteActivityType(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteActivityType(ctx, userID, id); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return fmt.Errorf("activity type %s is still in use: %w", id, apperr.ErrConflict)
		}
		return err
	}
	s.notify(ChangeDeleted, EntityActivityType, id)
	return nil
}

func normalizeType(in ActivityTypeInput) ActivityTypeInput {
	in.Name = strings.TrimSpace(in.Name)
	if in.Color == "" {
		in.Color = defaultTypeColor
	}
	return in
}

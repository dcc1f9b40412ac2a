package schedule

import (
	"context"

	"github.com/starford/habits/internal/layout"
)

// Window returns the user's display window.
func (s *Service) Window(_ context.Context, userID string) layout.Window {
	return s.prefs.Get(userID)
}

// SetWindow saves the user's display window.
func (s *Service) SetWindow(_ context.Context, userID string, w layout.Window) error {
	if err := w.Validate(); err != nil {
		return invalid(err)
	}
	return s.prefs.Set(userID, w)
}

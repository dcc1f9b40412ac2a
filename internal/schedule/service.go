// Package schedule coordinates the store, display preferences and the
// layout engine behind every transport.
package schedule

import (
	"fmt"
	"time"

	"github.com/starford/habits/internal/apperr"
	"github.com/starford/habits/internal/layout"
	"github.com/starford/habits/internal/models"
	"github.com/starford/habits/internal/prefs"
	"github.com/starford/habits/internal/store"
)

// Change kinds passed to a ChangeFunc.
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// Entities passed to a ChangeFunc.
const (
	EntityActivity     = "activity"
	EntityPlan         = "plan"
	EntityActivityType = "type"
)

// ChangeFunc is called after every successful mutation.
type ChangeFunc func(kind, entity, id string)

// Option configures a Service.
type Option func(*Service)

// WithLocation sets the zone used to read stored instants. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithChangeHook registers fn to be told about mutations.
func WithChangeHook(fn ChangeFunc) Option {
	return func(s *Service) {
		s.onChange = fn
	}
}

// Service implements the schedule use cases.
type Service struct {
	store    store.Store
	prefs    *prefs.Store
	loc      *time.Location
	onChange ChangeFunc
	now      func() time.Time
}

// NewService creates a new schedule service.
func NewService(st store.Store, p *prefs.Store, opts ...Option) *Service {
	s := &Service{store: st, prefs: p, loc: time.UTC, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the zone used to resolve instants.
func (s *Service) Location() *time.Location { return s.loc }

func (s *Service) notify(kind, entity, id string) {
	if s.onChange != nil {
		s.onChange(kind, entity, id)
	}
}

// minutes resolves a stored time string in the service zone.
func (s *Service) minutes(raw string) layout.Minutes {
	return layout.ToMinutes(raw, s.loc)
}

func parseDate(date string) (time.Time, error) {
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", apperr.ErrInvalid, date)
	}
	return d, nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %s", apperr.ErrInvalid, err.Error())
}

package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/starford/habits/internal/apperr"
	"github.com/starford/habits/internal/layout"
	"github.com/starford/habits/internal/models"
)

// Timeline bounds, in days.
const (
	TimelineDays    = 14
	MaxTimelineDays = 62
)

// TimelineDay is one column of a RangeView.
type TimelineDay struct {
	Date       string  `json:"date"`
	Activities []Block `json:"activities"`
}

// RangeView lays out several consecutive days side by side on one grid.
type RangeView struct {
	From   string        `json:"from"`
	To     string        `json:"to"`
	Window WindowView    `json:"window"`
	Slots  []string      `json:"slots"`
	Height int           `json:"height"`
	Days   []TimelineDay `json:"days"`
}

// WeekStart returns the Sunday on or before day.
func WeekStart(day time.Time) time.Time {
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// RangeView positions the user's activities for every date in [from, to].
// An empty from means the start of the current week in the service zone and
// an empty to spans TimelineDays from there. A nil window means the full
// day. Dates without activities still get an empty column.
func (s *Service) RangeView(ctx context.Context, userID, from, to string, window *layout.Window) (*RangeView, error) {
	first, last, err := s.timelineRange(from, to)
	if err != nil {
		return nil, err
	}
	w := layout.Window{Start: 0, End: layout.EndOfDay}
	if window != nil {
		if err := window.Validate(); err != nil {
			return nil, invalid(err)
		}
		w = *window
	}

	from, to = first.Format(models.DateLayout), last.Format(models.DateLayout)
	activities, err := s.store.ListActivities(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string][]models.Activity)
	for _, a := range activities {
		byDate[a.Date] = append(byDate[a.Date], a)
	}

	view := &RangeView{
		From:   from,
		To:     to,
		Window: WindowView{StartTime: w.StartLabel(), EndTime: w.EndLabel()},
		Slots:  layout.SlotLabels(w.Slots()),
		Height: w.Height(),
	}
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		date := d.Format(models.DateLayout)
		view.Days = append(view.Days, TimelineDay{
			Date:       date,
			Activities: s.activityBlocks(byDate[date], w),
		})
	}
	return view, nil
}

func (s *Service) timelineRange(from, to string) (time.Time, time.Time, error) {
	var first time.Time
	if from == "" {
		now := s.now().In(s.loc)
		first = WeekStart(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC))
	} else {
		d, err := parseDate(from)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		first = d
	}

	last := first.AddDate(0, 0, TimelineDays-1)
	if to != "" {
		d, err := parseDate(to)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		last = d
	}

	if last.Before(first) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to must not be before from", apperr.ErrInvalid)
	}
	if days := int(last.Sub(first).Hours()/24) + 1; days > MaxTimelineDays {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: range of %d days exceeds %d", apperr.ErrInvalid, days, MaxTimelineDays)
	}
	return first, last, nil
}

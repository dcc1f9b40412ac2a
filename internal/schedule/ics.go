package schedule

import (
	"context"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/starford/habits/internal/layout"
)

const productID = "-//habits//day export//EN"

// ExportICS renders the user's activities and plans for date as an
// iCalendar document. Recurring plans are exported as the single occurrence
// on date. DTSTAMP is the record's creation time, so unchanged days
// serialize identically.
func (s *Service) ExportICS(ctx context.Context, userID, date string) ([]byte, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	activities, err := s.store.ListActivities(ctx, userID, date, date)
	if err != nil {
		return nil, err
	}
	plans, err := s.ListPlans(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	for _, a := range activities {
		start, end, ok := s.span(day, a.StartTime, a.EndTime)
		if !ok {
			continue
		}
		ev := cal.AddEvent(a.ID + "@habits")
		ev.SetDtStampTime(s.stamp(a.CreatedAt))
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(a.Name)
		if a.Notes != "" {
			ev.SetDescription(a.Notes)
		}
		if a.Type != nil {
			ev.SetProperty(ics.ComponentPropertyCategories, a.Type.Name)
		}
	}

	for _, p := range plans {
		start, end, ok := s.span(day, p.StartTime, p.EndTime)
		if !ok {
			continue
		}
		ev := cal.AddEvent(p.ID + "-" + date + "@habits")
		ev.SetDtStampTime(s.stamp(p.CreatedAt))
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(p.Name)
		if p.Notes != "" {
			ev.SetDescription(p.Notes)
		}
		ev.SetProperty(ics.ComponentPropertyCategories, "Plan")
		if p.IsFinished {
			ev.SetProperty(ics.ComponentPropertyStatus, string(ics.ObjectStatusConfirmed))
		} else {
			ev.SetProperty(ics.ComponentPropertyStatus, string(ics.ObjectStatusTentative))
		}
	}

	return []byte(cal.Serialize()), nil
}

// span resolves a stored start/end pair into instants on day. A clock end
// before its start rolls to the next day.
func (s *Service) span(day time.Time, rawStart, rawEnd string) (time.Time, time.Time, bool) {
	start, err := layout.ParseTime(rawStart)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := layout.ParseTime(rawEnd)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	endDay := day
	if end.Kind() == layout.KindClock && end.Minutes(s.loc) < start.Minutes(s.loc) {
		endDay = day.AddDate(0, 0, 1)
	}
	return start.On(day, s.loc), end.On(endDay, s.loc), true
}

func (s *Service) stamp(created time.Time) time.Time {
	if created.IsZero() {
		return s.now().UTC()
	}
	return created.UTC()
}

package schedule

import (
	"cmp"
	"context"
	"math"
	"slices"

	"github.com/starford/habits/internal/layout"
)

// TypeStat is the time spent on one activity type over a date range.
type TypeStat struct {
	TypeID string  `json:"activity_type_id"`
	Type   string  `json:"activity_type"`
	Color  string  `json:"color"`
	Hours  float64 `json:"hours"`
	Count  int     `json:"count"`
}

// Stats totals the user's activities in [from, to] per type. Activities
// without a type are ignored, as are types totalling zero minutes. Hours
// are rounded to the nearest half hour.
func (s *Service) Stats(ctx context.Context, userID, from, to string) ([]TypeStat, error) {
	activities, err := s.ListActivities(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	totals := map[string]*TypeStat{}
	minutes := map[string]layout.Minutes{}
	var order []string
	for _, a := range activities {
		if a.Type == nil {
			continue
		}
		st, ok := totals[a.Type.ID]
		if !ok {
			st = &TypeStat{TypeID: a.Type.ID, Type: a.Type.Name, Color: a.Type.Color}
			totals[a.Type.ID] = st
			order = append(order, a.Type.ID)
		}
		st.Count++
		minutes[a.Type.ID] += layout.Duration(s.minutes(a.StartTime), s.minutes(a.EndTime))
	}

	out := make([]TypeStat, 0, len(order))
	for _, id := range order {
		m := minutes[id]
		if m <= 0 {
			continue
		}
		st := *totals[id]
		st.Hours = math.Round(float64(m)/30) / 2
		out = append(out, st)
	}
	slices.SortStableFunc(out, func(a, b TypeStat) int {
		if c := cmp.Compare(b.Hours, a.Hours); c != 0 {
			return c
		}
		return cmp.Compare(a.Type, b.Type)
	})
	return out, nil
}

package schedule

import (
	"context"

	"github.com/starford/habits/internal/layout"
	"github.com/starford/habits/internal/models"
)

// Block kinds.
const (
	BlockActivity = "activity"
	BlockPlan     = "plan"
)

// Block is a positioned activity or plan ready to render.
type Block struct {
	layout.Positioned
	Kind       string `json:"kind"`
	TypeID     string `json:"activity_type_id,omitempty"`
	TypeName   string `json:"activity_type,omitempty"`
	Finished   bool   `json:"is_finished,omitempty"`
	Recurring  bool   `json:"recurring,omitempty"`
	StartLabel string `json:"start_label"`
	EndLabel   string `json:"end_label"`
}

// WindowView is the display window as labels.
type WindowView struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// DayView is everything needed to draw one day.
type DayView struct {
	Date       string     `json:"date"`
	Window     WindowView `json:"window"`
	Slots      []string   `json:"slots"`
	Height     int        `json:"height"`
	Activities []Block    `json:"activities"`
	Plans      []Block    `json:"plans"`
}

// DayView lays out the user's activities and plans for date. A nil window
// means the user's saved display window.
func (s *Service) DayView(ctx context.Context, userID, date string, window *layout.Window) (*DayView, error) {
	if _, err := parseDate(date); err != nil {
		return nil, err
	}
	w := s.prefs.Get(userID)
	if window != nil {
		if err := window.Validate(); err != nil {
			return nil, invalid(err)
		}
		w = *window
	}

	activities, err := s.store.ListActivities(ctx, userID, date, date)
	if err != nil {
		return nil, err
	}
	plans, err := s.ListPlans(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	return &DayView{
		Date:       date,
		Window:     WindowView{StartTime: w.StartLabel(), EndTime: w.EndLabel()},
		Slots:      layout.SlotLabels(w.Slots()),
		Height:     w.Height(),
		Activities: s.activityBlocks(activities, w),
		Plans:      s.planBlocks(plans, w),
	}, nil
}

func (s *Service) activityBlocks(activities []models.Activity, w layout.Window) []Block {
	byID := make(map[string]models.Activity, len(activities))
	items := make([]layout.Item, 0, len(activities))
	for _, a := range activities {
		byID[a.ID] = a
		it := layout.Item{
			ID:    a.ID,
			Label: a.Name,
			Notes: a.Notes,
			Start: s.minutes(a.StartTime),
			End:   s.minutes(a.EndTime),
		}
		if a.Type != nil {
			it.Color = a.Type.Color
		}
		items = append(items, it)
	}

	out := make([]Block, 0, len(items))
	for _, p := range layout.Layout(items, w) {
		a := byID[p.ID]
		b := newBlock(BlockActivity, p)
		b.TypeID = a.ActivityTypeID
		if a.Type != nil {
			b.TypeName = a.Type.Name
		}
		out = append(out, b)
	}
	return out
}

func (s *Service) planBlocks(plans []models.Plan, w layout.Window) []Block {
	byID := make(map[string]models.Plan, len(plans))
	items := make([]layout.Item, 0, len(plans))
	for _, p := range plans {
		byID[p.ID] = p
		items = append(items, layout.Item{
			ID:    p.ID,
			Label: p.Name,
			Notes: p.Notes,
			Start: s.minutes(p.StartTime),
			End:   s.minutes(p.EndTime),
		})
	}

	out := make([]Block, 0, len(items))
	for _, pos := range layout.Layout(items, w) {
		p := byID[pos.ID]
		b := newBlock(BlockPlan, pos)
		b.Finished = p.IsFinished
		b.Recurring = p.Recurring()
		out = append(out, b)
	}
	return out
}

func newBlock(kind string, p layout.Positioned) Block {
	return Block{
		Positioned: p,
		Kind:       kind,
		StartLabel: layout.FormatClock(p.Start),
		EndLabel:   layout.FormatClock(p.End),
	}
}

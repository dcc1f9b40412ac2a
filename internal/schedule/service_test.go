package schedule

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/habits/internal/apperr"
	"github.com/starford/habits/internal/layout"
	"github.com/starford/habits/internal/testutil"
)

const user = "u1"

type changeLog struct {
	mu      sync.Mutex
	entries []string
}

func (c *changeLog) record(kind, entity, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entity+"."+kind)
}

func newTestService(t *testing.T, opts ...Option) (*Service, *changeLog) {
	t.Helper()
	log := &changeLog{}
	opts = append(opts, WithChangeHook(log.record))
	return NewService(testutil.TestDB(t), testutil.TestPrefs(t), opts...), log
}

func mustType(t *testing.T, svc *Service, name, color string) string {
	t.Helper()
	at, err := svc.CreateActivityType(context.Background(), user, ActivityTypeInput{Name: name, Color: color})
	if err != nil {
		t.Fatalf("CreateActivityType: %v", err)
	}
	return at.ID
}

func mustActivity(t *testing.T, svc *Service, typeID, name, date, start, end string) string {
	t.Helper()
	a, err := svc.CreateActivity(context.Background(), user, ActivityInput{
		Name: name, ActivityTypeID: typeID, Date: date, StartTime: start, EndTime: end,
	})
	if err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	return a.ID
}

func TestCreateActivityType_DefaultsColor(t *testing.T) {
	svc, log := newTestService(t)
	at, err := svc.CreateActivityType(context.Background(), user, ActivityTypeInput{Name: "  Sleep "})
	if err != nil {
		t.Fatalf("CreateActivityType: %v", err)
	}
	if at.Name != "Sleep" || at.Color != defaultTypeColor {
		t.Errorf("type = %+v", at)
	}
	if diff := cmp.Diff([]string{"type.created"}, log.entries); diff != "" {
		t.Errorf("changes (-want +got):\n%s", diff)
	}
}

func TestCreateActivityType_Invalid(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	tests := []ActivityTypeInput{
		{Name: ""},
		{Name: strings.Repeat("x", 51)},
		{Name: "Work", Color: "blue"},
	}
	for _, in := range tests {
		if _, err := svc.CreateActivityType(ctx, user, in); !errors.Is(err, apperr.ErrInvalid) {
			t.Errorf("%+v: err = %v, want ErrInvalid", in, err)
		}
	}
}

func TestDeleteActivityType_InUse(t *testing.T) {
	svc, _ := newTestService(t)
	typeID := mustType(t, svc, "Work", "#112233")
	mustActivity(t, svc, typeID, "Deep work", "2024-03-04", "9:00 AM", "11:00 AM")

	err := svc.DeleteActivityType(context.Background(), user, typeID)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
}

func TestCreateActivity_UnknownType(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreateActivity(context.Background(), user, ActivityInput{
		Name: "Run", ActivityTypeID: "missing", Date: "2024-03-04", StartTime: "7:00 AM", EndTime: "8:00 AM",
	})
	if !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestCreateActivity_AnchorsClockTimes(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	svc, _ := newTestService(t, WithLocation(paris))
	typeID := mustType(t, svc, "Sleep", "#000080")
	id := mustActivity(t, svc, typeID, "Night", "2024-01-15", "11:00 PM", "7:00 AM")

	a, err := svc.GetActivity(context.Background(), user, id)
	if err != nil {
		t.Fatal(err)
	}
	if a.StartTime != "2024-01-15T22:00:00Z" {
		t.Errorf("start = %q", a.StartTime)
	}
	if a.EndTime != "2024-01-16T06:00:00Z" {
		t.Errorf("end = %q", a.EndTime)
	}
	if a.Type == nil || a.Type.Name != "Sleep" {
		t.Errorf("type not joined: %+v", a.Type)
	}
}

func TestDayView_Scenario(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	typeID := mustType(t, svc, "Work", "#112233")
	mustActivity(t, svc, typeID, "first", "2024-03-04", "9:00 AM", "10:00 AM")
	mustActivity(t, svc, typeID, "second", "2024-03-04", "9:30 AM", "10:30 AM")
	mustActivity(t, svc, typeID, "third", "2024-03-04", "11:00 AM", "12:00 PM")
	mustActivity(t, svc, typeID, "early", "2024-03-04", "5:00 AM", "6:00 AM")
	mustActivity(t, svc, typeID, "other day", "2024-03-05", "9:00 AM", "10:00 AM")

	view, err := svc.DayView(ctx, user, "2024-03-04", nil)
	if err != nil {
		t.Fatalf("DayView: %v", err)
	}
	if view.Window.StartTime != layout.DefaultStartLabel || view.Window.EndTime != layout.DefaultEndLabel {
		t.Errorf("window = %+v", view.Window)
	}
	if len(view.Slots) != 31 || view.Height != 31*layout.SlotHeight {
		t.Errorf("slots = %d, height = %d", len(view.Slots), view.Height)
	}

	type got struct {
		Label  string
		Column int
		Top    int
		Color  string
	}
	var blocks []got
	for _, b := range view.Activities {
		blocks = append(blocks, got{b.Label, b.Column, b.Top, b.Color})
	}
	want := []got{
		{"first", 0, 4 * layout.SlotHeight, "#112233"},
		{"second", 1, 5 * layout.SlotHeight, "#112233"},
		{"third", 0, 8 * layout.SlotHeight, "#112233"},
	}
	if diff := cmp.Diff(want, blocks); diff != "" {
		t.Errorf("blocks (-want +got):\n%s", diff)
	}
	if view.Activities[1].Left != layout.ColumnWidth {
		t.Errorf("second left = %d", view.Activities[1].Left)
	}
}

func TestDayView_WindowOverrideAndPrefs(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	typeID := mustType(t, svc, "Sleep", "#000080")
	mustActivity(t, svc, typeID, "night", "2024-03-04", "11:00 PM", "1:00 AM")
	mustActivity(t, svc, typeID, "nap", "2024-03-04", "9:00 PM", "10:00 PM")

	w, _ := layout.ParseWindow("7:00 AM", layout.EndOfDayLabel)
	if err := svc.SetWindow(ctx, user, w); err != nil {
		t.Fatalf("SetWindow: %v", err)
	}
	view, err := svc.DayView(ctx, user, "2024-03-04", nil)
	if err != nil {
		t.Fatal(err)
	}
	if view.Window.EndTime != layout.EndOfDayLabel {
		t.Errorf("window = %+v, want saved window", view.Window)
	}
	// The overnight item ends at 1:00 AM, before the window opens, so the
	// visibility check drops it.
	if len(view.Activities) != 1 || view.Activities[0].Label != "nap" {
		t.Fatalf("activities = %+v, want only nap", view.Activities)
	}
	if b := view.Activities[0]; b.Top != 28*layout.SlotHeight || b.Height != 2*layout.SlotHeight {
		t.Errorf("nap geometry = %+v", b.Geometry)
	}

	// A window opening at midnight keeps the overnight item.
	all := layout.Window{Start: 0, End: layout.EndOfDay}
	view, err = svc.DayView(ctx, user, "2024-03-04", &all)
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Activities) != 2 {
		t.Errorf("activities = %d, want 2 in full-day window", len(view.Activities))
	}

	bad := layout.Window{Start: 7*60 + 15, End: 22 * 60}
	if _, err := svc.DayView(ctx, user, "2024-03-04", &bad); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
	if _, err := svc.DayView(ctx, user, "03/04/2024", nil); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestListPlans_OrderedByClockTime(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	for _, start := range []string{"10:00 AM", "1:00 PM", "9:00 AM"} {
		if _, err := svc.CreatePlan(ctx, user, PlanInput{
			Name: start, Date: "2024-03-04", StartTime: start, EndTime: "11:59 PM",
		}); err != nil {
			t.Fatalf("CreatePlan: %v", err)
		}
	}
	plans, err := svc.ListPlans(ctx, user, "2024-03-04")
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, p := range plans {
		names = append(names, p.Name)
	}
	if diff := cmp.Diff([]string{"9:00 AM", "10:00 AM", "1:00 PM"}, names); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
}

func TestPlans_RecurringAndToggle(t *testing.T) {
	svc, log := newTestService(t)
	ctx := context.Background()

	weekly, err := svc.CreatePlan(ctx, user, PlanInput{
		Name: "Gym", Date: "2024-03-04", StartTime: "6:00 PM", EndTime: "7:00 PM",
		Recurrence: "FREQ=WEEKLY;BYDAY=MO",
	})
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	if _, err := svc.CreatePlan(ctx, user, PlanInput{
		Name: "Dentist", Date: "2024-03-11", StartTime: "9:00 AM", EndTime: "9:30 AM",
	}); err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}

	names := func(date string) []string {
		plans, err := svc.ListPlans(ctx, user, date)
		if err != nil {
			t.Fatalf("ListPlans(%s): %v", date, err)
		}
		var out []string
		for _, p := range plans {
			out = append(out, p.Name)
		}
		return out
	}
	if got := names("2024-03-11"); len(got) != 2 {
		t.Errorf("2024-03-11 plans = %v, want Gym and Dentist", got)
	}
	if got := names("2024-03-12"); len(got) != 0 {
		t.Errorf("tuesday plans = %v, want none", got)
	}
	if got := names("2024-02-26"); len(got) != 0 {
		t.Errorf("plans before anchor = %v, want none", got)
	}

	toggled, err := svc.TogglePlan(ctx, user, weekly.ID)
	if err != nil {
		t.Fatalf("TogglePlan: %v", err)
	}
	if !toggled.IsFinished {
		t.Error("plan not finished after toggle")
	}
	view, err := svc.DayView(ctx, user, "2024-03-18", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Plans) != 1 || !view.Plans[0].Finished || !view.Plans[0].Recurring {
		t.Errorf("plans = %+v", view.Plans)
	}
	if log.entries[len(log.entries)-1] != "plan.updated" {
		t.Errorf("last change = %q", log.entries[len(log.entries)-1])
	}
}

func TestCreatePlan_InvalidRecurrence(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreatePlan(context.Background(), user, PlanInput{
		Name: "Gym", Date: "2024-03-04", StartTime: "6:00 PM", EndTime: "7:00 PM", Recurrence: "FREQ=SOMETIMES",
	})
	if !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestStats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	work := mustType(t, svc, "Work", "#112233")
	sleep := mustType(t, svc, "Sleep", "#000080")
	mustType(t, svc, "Unused", "#ffffff")

	mustActivity(t, svc, work, "a", "2024-03-04", "9:00 AM", "11:10 AM")
	mustActivity(t, svc, work, "b", "2024-03-05", "1:00 PM", "2:00 PM")
	mustActivity(t, svc, sleep, "night", "2024-03-04", "11:00 PM", "7:00 AM")
	mustActivity(t, svc, sleep, "outside", "2024-04-01", "11:00 PM", "7:00 AM")

	got, err := svc.Stats(ctx, user, "2024-03-01", "2024-03-31")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := []TypeStat{
		{TypeID: sleep, Type: "Sleep", Color: "#000080", Hours: 8, Count: 1},
		{TypeID: work, Type: "Work", Color: "#112233", Hours: 3, Count: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stats (-want +got):\n%s", diff)
	}
}

func TestExportICS(t *testing.T) {
	svc, _ := newTestService(t)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()
	work := mustType(t, svc, "Work", "#112233")
	mustActivity(t, svc, work, "Deep work", "2024-03-04", "9:00 AM", "11:00 AM")
	if _, err := svc.CreatePlan(ctx, user, PlanInput{
		Name: "Late call", Date: "2024-03-04", StartTime: "11:00 PM", EndTime: "12:30 AM",
	}); err != nil {
		t.Fatal(err)
	}

	data, err := svc.ExportICS(ctx, user, "2024-03-04")
	if err != nil {
		t.Fatalf("ExportICS: %v", err)
	}
	body := string(data)
	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"METHOD:PUBLISH",
		"SUMMARY:Deep work",
		"CATEGORIES:Work",
		"DTSTART:20240304T090000Z",
		"SUMMARY:Late call",
		"DTEND:20240305T003000Z",
		"STATUS:TENTATIVE",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("calendar missing %q:\n%s", want, body)
		}
	}
}

package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/habits/internal/models"
	"github.com/starford/habits/internal/schedule"
	"github.com/starford/habits/internal/testutil"
)

const testUser = "local"

func testServer(t *testing.T) (*Server, *schedule.Service) {
	t.Helper()
	svc := schedule.NewService(testutil.TestDB(t), testutil.TestPrefs(t))
	return New(svc, testUser), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no in-process call helper, so dispatch to the handlers.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "get_day_view":
		result, err = srv.getDayView(ctx, req)
	case "get_timeline":
		result, err = srv.getTimeline(ctx, req)
	case "list_activity_types":
		result, err = srv.listActivityTypes(ctx, req)
	case "list_activities":
		result, err = srv.listActivities(ctx, req)
	case "create_activity":
		result, err = srv.createActivity(ctx, req)
	case "create_plan":
		result, err = srv.createPlan(ctx, req)
	case "toggle_plan":
		result, err = srv.togglePlan(ctx, req)
	case "get_stats":
		result, err = srv.getStats(ctx, req)
	case "get_time_format":
		result, err = srv.getTimeFormat(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func seedType(t *testing.T, svc *schedule.Service) string {
	t.Helper()
	at, err := svc.CreateActivityType(context.Background(), testUser, schedule.ActivityTypeInput{Name: "Work", Color: "#112233"})
	if err != nil {
		t.Fatal(err)
	}
	return at.ID
}

func TestCreateActivityAndDayView(t *testing.T) {
	srv, svc := testServer(t)
	typeID := seedType(t, svc)

	for _, a := range []struct{ name, start, end string }{
		{"first", "9:00 AM", "10:00 AM"},
		{"second", "9:30 AM", "10:30 AM"},
	} {
		r := callTool(t, srv, "create_activity", map[string]any{
			"activity_name":    a.name,
			"activity_type_id": typeID,
			"date":             "2024-03-04",
			"start_time":       a.start,
			"end_time":         a.end,
		})
		if r.IsError {
			t.Fatalf("create_activity: %s", resultText(r))
		}
	}

	r := callTool(t, srv, "get_day_view", map[string]any{"date": "2024-03-04"})
	if r.IsError {
		t.Fatalf("get_day_view: %s", resultText(r))
	}
	var view schedule.DayView
	if err := json.Unmarshal([]byte(resultText(r)), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(view.Activities) != 2 || view.Activities[1].Column != 1 {
		t.Errorf("activities = %+v", view.Activities)
	}
}

func TestGetDayView_WindowOverride(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "get_day_view", map[string]any{"date": "2024-03-04", "end": "11:59 PM"})
	var view schedule.DayView
	if err := json.Unmarshal([]byte(resultText(r)), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Window.EndTime != "11:59 PM" {
		t.Errorf("window = %+v", view.Window)
	}

	r = callTool(t, srv, "get_day_view", map[string]any{"date": "2024-03-04", "start": "7:20 AM"})
	if !r.IsError {
		t.Error("expected error for off-grid start")
	}
}

func TestCreateActivity_Invalid(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "create_activity", map[string]any{
		"activity_name":    "x",
		"activity_type_id": "missing",
		"date":             "2024-03-04",
		"start_time":       "9:00 AM",
		"end_time":         "10:00 AM",
	})
	if !r.IsError {
		t.Error("expected error for unknown type")
	}
}

func TestCreateAndTogglePlan(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "create_plan", map[string]any{
		"plan_name":  "Gym",
		"date":       "2024-03-04",
		"start_time": "6:00 PM",
		"end_time":   "7:00 PM",
		"recurrence": "FREQ=WEEKLY;BYDAY=MO",
	})
	if r.IsError {
		t.Fatalf("create_plan: %s", resultText(r))
	}
	var p models.Plan
	if err := json.Unmarshal([]byte(resultText(r)), &p); err != nil {
		t.Fatal(err)
	}

	r = callTool(t, srv, "toggle_plan", map[string]any{"id": p.ID})
	if text := resultText(r); text != "Gym is now finished" {
		t.Errorf("toggle result = %q", text)
	}

	r = callTool(t, srv, "toggle_plan", map[string]any{"id": "nope"})
	if !r.IsError {
		t.Error("expected error for missing plan")
	}
}

func TestListActivitiesAndStats(t *testing.T) {
	srv, svc := testServer(t)
	typeID := seedType(t, svc)
	if _, err := svc.CreateActivity(context.Background(), testUser, schedule.ActivityInput{
		Name: "Deep work", ActivityTypeID: typeID, Date: "2024-03-04", StartTime: "9:00 AM", EndTime: "11:00 AM",
	}); err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "list_activities", map[string]any{"from": "2024-03-04"})
	if !strings.Contains(resultText(r), "Deep work") {
		t.Errorf("list = %q", resultText(r))
	}

	r = callTool(t, srv, "get_stats", map[string]any{"from": "2024-03-01", "to": "2024-03-31"})
	var stats []schedule.TypeStat
	if err := json.Unmarshal([]byte(resultText(r)), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(stats) != 1 || stats[0].Hours != 2 {
		t.Errorf("stats = %+v", stats)
	}

	r = callTool(t, srv, "get_stats", map[string]any{"from": "2025-01-01", "to": "2025-01-31"})
	if !strings.HasPrefix(resultText(r), "no typed activities") {
		t.Errorf("empty stats = %q", resultText(r))
	}
}

func TestGetTimeFormat(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_time_format", nil)
	if resultText(r) != TimeFormatContract {
		t.Error("contract mismatch")
	}

	contents, err := srv.readTimeFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil || len(contents) != 1 {
		t.Fatalf("resource = %v, %v", contents, err)
	}
}

func TestListActivityTypes_Empty(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "list_activity_types", map[string]any{})
	if resultText(r) != "no activity types defined" {
		t.Errorf("result = %q", resultText(r))
	}
}

func TestGetTimeline(t *testing.T) {
	srv, svc := testServer(t)
	typeID := seedType(t, svc)
	if _, err := svc.CreateActivity(context.Background(), testUser, schedule.ActivityInput{
		Name: "Deep work", ActivityTypeID: typeID, Date: "2024-03-05", StartTime: "9:00 AM", EndTime: "11:00 AM",
	}); err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "get_timeline", map[string]any{"from": "2024-03-04", "to": "2024-03-06"})
	if r.IsError {
		t.Fatalf("get_timeline: %s", resultText(r))
	}
	var view schedule.RangeView
	if err := json.Unmarshal([]byte(resultText(r)), &view); err != nil {
		t.Fatal(err)
	}
	if len(view.Days) != 3 || len(view.Days[1].Activities) != 1 {
		t.Fatalf("days = %+v", view.Days)
	}
	if got := view.Days[1].Activities[0]; got.Label != "Deep work" || got.Height != 4*40 {
		t.Errorf("block = %+v", got)
	}

	r = callTool(t, srv, "get_timeline", map[string]any{"from": "2024-03-06", "to": "2024-03-04"})
	if !r.IsError {
		t.Error("reversed range should be an error")
	}
}

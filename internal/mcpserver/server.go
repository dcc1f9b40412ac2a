// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes habits tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/habits/internal/layout"
	"github.com/starford/habits/internal/models"
	"github.com/starford/habits/internal/schedule"
)

const timeFormatURI = "habits://time-format"

// Server wraps the MCP server with habits tools.
type Server struct {
	mcp  *server.MCPServer
	svc  *schedule.Service
	user string
}

// New creates a new MCP server with all habits tools registered. Every
// call acts on behalf of userID.
func New(svc *schedule.Service, userID string) *Server {
	s := &Server{svc: svc, user: userID}

	s.mcp = server.NewMCPServer(
		"Habits",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_day_view",
		mcp.WithDescription("Lay out one day's activities and plans on the half-hour grid. "+
			"Returns each item's column, top and height in pixels."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Day as YYYY-MM-DD")),
		mcp.WithString("start", mcp.Description("Optional window start on a slot, e.g. 6:00 AM")),
		mcp.WithString("end", mcp.Description("Optional window end on a slot, e.g. 11:59 PM")),
	), s.getDayView)

	s.mcp.AddTool(mcp.NewTool("get_timeline",
		mcp.WithDescription("Lay out activities for consecutive days, one column per date, "+
			"on the full-day grid. Defaults to two weeks starting this Sunday."),
		mcp.WithString("from", mcp.Description("First day as YYYY-MM-DD")),
		mcp.WithString("to", mcp.Description("Last day as YYYY-MM-DD")),
	), s.getTimeline)

	s.mcp.AddTool(mcp.NewTool("list_activity_types",
		mcp.WithDescription("List activity types with their ids and colors."),
	), s.listActivityTypes)

	s.mcp.AddTool(mcp.NewTool("list_activities",
		mcp.WithDescription("List recorded activities between two days, inclusive."),
		mcp.WithString("from", mcp.Required(), mcp.Description("First day as YYYY-MM-DD")),
		mcp.WithString("to", mcp.Description("Last day as YYYY-MM-DD, defaults to from")),
	), s.listActivities)

	s.mcp.AddTool(mcp.NewTool("create_activity",
		mcp.WithDescription("Record an activity. Read the time format first via "+
			"get_time_format or the "+timeFormatURI+" resource."),
		mcp.WithString("activity_name", mcp.Required(), mcp.Description("What was done")),
		mcp.WithString("activity_type_id", mcp.Required(), mcp.Description("Id from list_activity_types")),
		mcp.WithString("date", mcp.Required(), mcp.Description("Day as YYYY-MM-DD")),
		mcp.WithString("start_time", mcp.Required(), mcp.Description("Start, e.g. 9:00 AM")),
		mcp.WithString("end_time", mcp.Required(), mcp.Description("End, e.g. 10:30 AM")),
		mcp.WithString("notes", mcp.Description("Optional notes")),
	), s.createActivity)

	s.mcp.AddTool(mcp.NewTool("create_plan",
		mcp.WithDescription("Plan something for a day, optionally repeating."),
		mcp.WithString("plan_name", mcp.Required(), mcp.Description("What is planned")),
		mcp.WithString("date", mcp.Required(), mcp.Description("Day (first occurrence) as YYYY-MM-DD")),
		mcp.WithString("start_time", mcp.Required(), mcp.Description("Start, e.g. 9:00 AM")),
		mcp.WithString("end_time", mcp.Required(), mcp.Description("End, e.g. 10:30 AM")),
		mcp.WithString("notes", mcp.Description("Optional notes")),
		mcp.WithString("recurrence", mcp.Description("Optional RRULE, e.g. FREQ=WEEKLY;BYDAY=MO")),
	), s.createPlan)

	s.mcp.AddTool(mcp.NewTool("toggle_plan",
		mcp.WithDescription("Flip a plan between finished and not finished."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Plan id")),
	), s.togglePlan)

	s.mcp.AddTool(mcp.NewTool("get_stats",
		mcp.WithDescription("Hours spent per activity type between two days, rounded to half hours."),
		mcp.WithString("from", mcp.Required(), mcp.Description("First day as YYYY-MM-DD")),
		mcp.WithString("to", mcp.Required(), mcp.Description("Last day as YYYY-MM-DD")),
	), s.getStats)

	s.mcp.AddTool(mcp.NewTool("get_time_format",
		mcp.WithDescription("Returns the accepted date and time formats. "+
			"Call this before creating activities or plans."),
	), s.getTimeFormat)

	s.mcp.AddResource(
		mcp.NewResource(timeFormatURI, "Time Format",
			mcp.WithResourceDescription("Accepted date and time strings and how the day grid reads them."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readTimeFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getDayView(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var override *layout.Window
	start, end := req.GetString("start", ""), req.GetString("end", "")
	if start != "" || end != "" {
		saved := s.svc.Window(ctx, s.user)
		if start == "" {
			start = saved.StartLabel()
		}
		if end == "" {
			end = saved.EndLabel()
		}
		w, err := layout.ParseWindow(start, end)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid window: %v", err)), nil
		}
		override = &w
	}

	view, err := s.svc.DayView(ctx, s.user, date, override)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(view)
}

func (s *Server) getTimeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	view, err := s.svc.RangeView(ctx, s.user, req.GetString("from", ""), req.GetString("to", ""), nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(view)
}

func (s *Server) listActivityTypes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	types, err := s.svc.ListActivityTypes(ctx, s.user)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(types) == 0 {
		return mcp.NewToolResultText("no activity types defined"), nil
	}
	return jsonResult(types)
}

func (s *Server) listActivities(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, err := req.RequireString("from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to := req.GetString("to", from)
	activities, err := s.svc.ListActivities(ctx, s.user, from, to)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if activities == nil {
		activities = []models.Activity{}
	}
	return jsonResult(activities)
}

func (s *Server) createActivity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := schedule.ActivityInput{
		Name:           req.GetString("activity_name", ""),
		ActivityTypeID: req.GetString("activity_type_id", ""),
		Date:           req.GetString("date", ""),
		StartTime:      req.GetString("start_time", ""),
		EndTime:        req.GetString("end_time", ""),
		Notes:          req.GetString("notes", ""),
	}
	a, err := s.svc.CreateActivity(ctx, s.user, in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(a)
}

func (s *Server) createPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := schedule.PlanInput{
		Name:       req.GetString("plan_name", ""),
		Date:       req.GetString("date", ""),
		StartTime:  req.GetString("start_time", ""),
		EndTime:    req.GetString("end_time", ""),
		Notes:      req.GetString("notes", ""),
		Recurrence: req.GetString("recurrence", ""),
	}
	p, err := s.svc.CreatePlan(ctx, s.user, in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(p)
}

func (s *Server) togglePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := s.svc.TogglePlan(ctx, s.user, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("toggle %s: %v", id, err)), nil
	}
	state := "not finished"
	if p.IsFinished {
		state = "finished"
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s is now %s", p.Name, state)), nil
}

func (s *Server) getStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, err := req.RequireString("from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := req.RequireString("to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	stats, err := s.svc.Stats(ctx, s.user, from, to)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(stats) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("no typed activities between %s and %s", from, to)), nil
	}
	return jsonResult(stats)
}

func (s *Server) getTimeFormat(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(TimeFormatContract), nil
}

func (s *Server) readTimeFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      timeFormatURI,
			MIMEType: "text/markdown",
			Text:     TimeFormatContract,
		},
	}, nil
}


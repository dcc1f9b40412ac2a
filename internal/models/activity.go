// Package models defines the domain types for habits.
package models

import "time"

// DateLayout is the calendar-day format used for storage and URLs.
const DateLayout = "2006-01-02"

// ActivityType is a user-defined, colored category of activity.
type ActivityType struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
}

// Activity is something the user did on a given day.
//
// StartTime and EndTime hold either a "h:mm AM" clock string or an RFC 3339
// instant, exactly as stored.
type Activity struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	ActivityTypeID string        `json:"activity_type_id"`
	Name           string        `json:"activity_name"`
	Date           string        `json:"date"`
	StartTime      string        `json:"start_time"`
	EndTime        string        `json:"end_time"`
	Notes          string        `json:"notes,omitempty"`
	Type           *ActivityType `json:"activity_type,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Plan is something the user intends to do on a given day.
//
// A non-empty Recurrence is an RRULE; the plan then repeats from Date on.
type Plan struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"plan_name"`
	Date       string    `json:"date"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	Notes      string    `json:"notes,omitempty"`
	IsFinished bool      `json:"is_finished"`
	Recurrence string    `json:"recurrence,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Recurring reports whether p repeats.
func (p Plan) Recurring() bool {
	return p.Recurrence != ""
}

package api

import (
	"github.com/starford/habits/internal/models"
	"github.com/starford/habits/internal/schedule"
)

// DayView is the positioned day grid (aliased from the domain layer).
type DayView = schedule.DayView

// RangeView is several positioned days side by side.
type RangeView = schedule.RangeView

// TypeStat is a per-type total (aliased from the domain layer).
type TypeStat = schedule.TypeStat

// DisplaySettings is the request and response body for the display window.
type DisplaySettings struct {
	StartTime string `json:"start_time" example:"7:00 AM" validate:"required"`
	EndTime   string `json:"end_time" example:"10:00 PM" validate:"required"`
}

// ActivityTypeListResponse wraps activity type listings.
type ActivityTypeListResponse struct {
	ActivityTypes []models.ActivityType `json:"activity_types" validate:"required"`
}

// ActivityListResponse wraps activity listings.
type ActivityListResponse struct {
	Activities []models.Activity `json:"activities" validate:"required"`
}

// PlanListResponse wraps plan listings.
type PlanListResponse struct {
	Plans []models.Plan `json:"plans" validate:"required"`
}

// StatsResponse wraps per-type totals.
type StatsResponse struct {
	From  string     `json:"from" example:"2024-03-01" validate:"required"`
	To    string     `json:"to" example:"2024-03-31" validate:"required"`
	Stats []TypeStat `json:"stats" validate:"required"`
}

// SlotsResponse lists every slot label of the day grid.
type SlotsResponse struct {
	Slots []string `json:"slots" validate:"required"`
}

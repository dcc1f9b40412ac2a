package schedule

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/teambition/rrule-go"

	"github.com/starford/habits/internal/layout"
	"github.com/starford/habits/internal/models"
)

const defaultTypeColor = "#000000"

var colorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

var timeRule = validation.By(func(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	_, err := layout.ParseTime(s)
	return err
})

var recurrenceRule = validation.By(func(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	_, err := rrule.StrToRRule(s)
	return err
})

// ActivityTypeInput is the payload for creating or updating an activity type.
type ActivityTypeInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Validate validates the input.
func (in ActivityTypeInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 50)),
		validation.Field(&in.Color, validation.Match(colorRe).Error("invalid color format")),
	)
}

// ActivityInput is the payload for creating or updating an activity.
type ActivityInput struct {
	Name           string `json:"activity_name"`
	ActivityTypeID string `json:"activity_type_id"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	Notes          string `json:"notes"`
}

// Validate validates the input.
func (in ActivityInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.ActivityTypeID, validation.Required),
		validation.Field(&in.Date, validation.Required, validation.Date(models.DateLayout)),
		validation.Field(&in.StartTime, validation.Required, timeRule),
		validation.Field(&in.EndTime, validation.Required, timeRule),
	)
}

// PlanInput is the payload for creating or updating a plan.
type PlanInput struct {
	Name       string `json:"plan_name"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Notes      string `json:"notes"`
	IsFinished bool   `json:"is_finished"`
	Recurrence string `json:"recurrence"`
}

// Validate validates the input.
func (in PlanInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.Date, validation.Required, validation.Date(models.DateLayout)),
		validation.Field(&in.StartTime, validation.Required, timeRule),
		validation.Field(&in.EndTime, validation.Required, timeRule),
		validation.Field(&in.Recurrence, recurrenceRule),
	)
}

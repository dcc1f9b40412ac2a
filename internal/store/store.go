package store

import (
	"context"

	"github.com/starford/habits/internal/models"
)

// Store defines the persistence operations used by the schedule service.
// Every query is scoped to a single owning user.
type Store interface {
	ListActivityTypes(ctx context.Context, userID string) ([]models.ActivityType, error)
	GetActivityType(ctx context.Context, userID, id string) (*models.ActivityType, error)
	InsertActivityType(ctx context.Context, t *models.ActivityType) error
	UpdateActivityType(ctx context.Context, t *models.ActivityType) error
	DeleteActivityType(ctx context.Context, userID, id string) error

	ListActivities(ctx context.Context, userID, from, to string) ([]models.Activity, error)
	GetActivity(ctx context.Context, userID, id string) (*models.Activity, error)
	InsertActivity(ctx context.Context, a *models.Activity) error
	UpdateActivity(ctx context.Context, a *models.Activity) error
	DeleteActivity(ctx context.Context, userID, id string) error

	ListPlans(ctx context.Context, userID, date string) ([]models.Plan, error)
	GetPlan(ctx context.Context, userID, id string) (*models.Plan, error)
	InsertPlan(ctx context.Context, p *models.Plan) error
	UpdatePlan(ctx context.Context, p *models.Plan) error
	SetPlanFinished(ctx context.Context, userID, id string, finished bool) error
	DeletePlan(ctx context.Context, userID, id string) error

	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)

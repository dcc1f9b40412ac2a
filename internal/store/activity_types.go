package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/starford/habits/internal/apperr"
	"github.com/starford/habits/internal/models"
)

// ListActivityTypes returns the user's activity types ordered by name.
func (db *DB) ListActivityTypes(ctx context.Context, userID string) ([]models.ActivityType, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, user_id, name, color
		FROM activity_types
		WHERE user_id = ?
		ORDER BY name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("store: list activity types: %w", err)
	}
	defer rows.Close()

	out := []models.ActivityType{}
	for rows.Next() {
		var t models.ActivityType
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Color); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetActivityType returns a single activity type.
func (db *DB) GetActivityType(ctx context.Context, userID, id string) (*models.ActivityType, error) {
	var t models.ActivityType
	err := db.conn.QueryRowContext(ctx, `
		SELECT id, user_id, name, color FROM activity_types WHERE user_id = ? AND id = ?
	`, userID, id).Scan(&t.ID, &t.UserID, &t.Name, &t.Color)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get activity type: %w", err)
	}
	return &t, nil
}

// InsertActivityType stores t, assigning an ID when it has none.
func (db *DB) InsertActivityType(ctx context.Context, t *models.ActivityType) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO activity_types (id, user_id, name, color) VALUES (?, ?, ?, ?)
	`, t.ID, t.UserID, t.Name, t.Color)
	if err != nil {
		return fmt.Errorf("store: insert activity type: %w", translate(err))
	}
	return nil
}

// UpdateActivityType renames or recolors an existing type.
func (db *DB) UpdateActivityType(ctx context.Context, t *models.ActivityType) error {
	res, err := db.conn.ExecContext(ctx, `
		UPDATE activity_types SET name = ?, color = ? WHERE user_id = ? AND id = ?
	`, t.Name, t.Color, t.UserID, t.ID)
	if err != nil {
		return fmt.Errorf("store: update activity type: %w", translate(err))
	}
	return affected(res)
}

// DeleteActivityType removes a type. It fails with apperr.ErrConflict while
// activities still reference it.
func (db *DB) DeleteActivityType(ctx context.Context, userID, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM activity_types WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("store: delete activity type: %w", translate(err))
	}
	return affected(res)
}

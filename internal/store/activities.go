package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/starford/habits/internal/apperr"
	"github.com/starford/habits/internal/models"
)

const activityColumns = `
	a.id, a.user_id, a.activity_type_id, a.name, a.date, a.start_time, a.end_time, a.notes, a.created_at,
	t.id, t.name, t.color
	FROM activities a
	LEFT JOIN activity_types t ON t.id = a.activity_type_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(r rowScanner) (models.Activity, error) {
	var (
		a                   models.Activity
		typeID, name, color sql.NullString
	)
	if err := r.Scan(&a.ID, &a.UserID, &a.ActivityTypeID, &a.Name, &a.Date, &a.StartTime, &a.EndTime, &a.Notes, &a.CreatedAt,
		&typeID, &name, &color); err != nil {
		return a, err
	}
	if typeID.Valid {
		a.Type = &models.ActivityType{ID: typeID.String, UserID: a.UserID, Name: name.String, Color: color.String}
	}
	return a, nil
}

// ListActivities returns the user's activities with dates in [from, to],
// joined with their type and ordered by date then start time.
func (db *DB) ListActivities(ctx context.Context, userID, from, to string) ([]models.Activity, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT `+activityColumns+`
		WHERE a.user_id = ? AND a.date >= ? AND a.date <= ?
		ORDER BY a.date, a.start_time
	`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("store: list activities: %w", err)
	}
	defer rows.Close()

	out := []models.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetActivity returns a single activity with its type.
func (db *DB) GetActivity(ctx context.Context, userID, id string) (*models.Activity, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+activityColumns+`
		WHERE a.user_id = ? AND a.id = ?
	`, userID, id)
	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get activity: %w", err)
	}
	return &a, nil
}

// InsertActivity stores a, assigning an ID and creation time when unset.
func (db *DB) InsertActivity(ctx context.Context, a *models.Activity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO activities (id, user_id, activity_type_id, name, date, start_time, end_time, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.UserID, a.ActivityTypeID, a.Name, a.Date, a.StartTime, a.EndTime, a.Notes, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: insert activity: %w", translate(err))
	}
	return nil
}

// UpdateActivity replaces the mutable fields of an existing activity.
func (db *DB) UpdateActivity(ctx context.Context, a *models.Activity) error {
	res, err := db.conn.ExecContext(ctx, `
		UPDATE activities
		SET activity_type_id = ?, name = ?, date = ?, start_time = ?, end_time = ?, notes = ?
		WHERE user_id = ? AND id = ?
	`, a.ActivityTypeID, a.Name, a.Date, a.StartTime, a.EndTime, a.Notes, a.UserID, a.ID)
	if err != nil {
		return fmt.Errorf("store: update activity: %w", translate(err))
	}
	return affected(res)
}

// DeleteActivity removes an activity.
func (db *DB) DeleteActivity(ctx context.Context, userID, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM activities WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("store: delete activity: %w", err)
	}
	return affected(res)
}

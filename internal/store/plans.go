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

const planColumns = `id, user_id, name, date, start_time, end_time, notes, is_finished, recurrence, created_at`

func scanPlan(r rowScanner) (models.Plan, error) {
	var p models.Plan
	err := r.Scan(&p.ID, &p.UserID, &p.Name, &p.Date, &p.StartTime, &p.EndTime, &p.Notes, &p.IsFinished, &p.Recurrence, &p.CreatedAt)
	return p, err
}

// ListPlans returns the user's one-off plans for date together with every
// recurring plan anchored on or before it, in insertion order. Recurrence
// rules are not evaluated here, and clock strings are left for the caller
// to order.
func (db *DB) ListPlans(ctx context.Context, userID, date string) ([]models.Plan, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+planColumns+`
		FROM plans
		WHERE user_id = ? AND (date = ? OR (recurrence != '' AND date <= ?))
		ORDER BY created_at, rowid
	`, userID, date, date)
	if err != nil {
		return nil, fmt.Errorf("store: list plans: %w", err)
	}
	defer rows.Close()

	out := []models.Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPlan returns a single plan.
func (db *DB) GetPlan(ctx context.Context, userID, id string) (*models.Plan, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+planColumns+` FROM plans WHERE user_id = ? AND id = ?`, userID, id)
	p, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get plan: %w", err)
	}
	return &p, nil
}

// InsertPlan stores p, assigning an ID and creation time when unset.
func (db *DB) InsertPlan(ctx context.Context, p *models.Plan) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO plans (`+planColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.UserID, p.Name, p.Date, p.StartTime, p.EndTime, p.Notes, p.IsFinished, p.Recurrence, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: insert plan: %w", translate(err))
	}
	return nil
}

// UpdatePlan replaces the mutable fields of an existing plan.
func (db *DB) UpdatePlan(ctx context.Context, p *models.Plan) error {
	res, err := db.conn.ExecContext(ctx, `
		UPDATE plans
		SET name = ?, date = ?, start_time = ?, end_time = ?, notes = ?, is_finished = ?, recurrence = ?
		WHERE user_id = ? AND id = ?
	`, p.Name, p.Date, p.StartTime, p.EndTime, p.Notes, p.IsFinished, p.Recurrence, p.UserID, p.ID)
	if err != nil {
		return fmt.Errorf("store: update plan: %w", err)
	}
	return affected(res)
}

// SetPlanFinished flips the completion flag of a plan.
func (db *DB) SetPlanFinished(ctx context.Context, userID, id string, finished bool) error {
	res, err := db.conn.ExecContext(ctx, `UPDATE plans SET is_finished = ? WHERE user_id = ? AND id = ?`, finished, userID, id)
	if err != nil {
		return fmt.Errorf("store: set plan finished: %w", err)
	}
	return affected(res)
}

// DeletePlan removes a plan.
func (db *DB) DeletePlan(ctx context.Context, userID, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM plans WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("store: delete plan: %w", err)
	}
	return affected(res)
}

package database

import (
	"context"
	"fmt"
	"time"

	"slotbook/internal/models"
)

// GetWeeklyRules returns every weekly rule of the professional ordered by id,
// so the "last rule wins" interval override is deterministic.
func (db *DB) GetWeeklyRules(ctx context.Context, professionalID int64) ([]models.AvailabilityRule, error) {
	query := `SELECT id, professional_id, weekday, start_time, end_time, slot_interval_minutes, created_at
              FROM availability_rules WHERE professional_id = ? ORDER BY id`
	rows, err := db.QueryContext(ctx, query, professionalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get weekly rules: %w", err)
	}
	defer rows.Close()

	var rules []models.AvailabilityRule
	for rows.Next() {
		var r models.AvailabilityRule
		err := rows.Scan(&r.ID, &r.ProfessionalID, &r.Weekday, &r.StartTime, &r.EndTime, &r.SlotIntervalMinutes, &r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}
	return rules, nil
}

// ReplaceWeeklyRules saves a professional's new weekly schedule wholesale:
// delete-then-insert in one transaction, schedule save is not incremental.
func (db *DB) ReplaceWeeklyRules(ctx context.Context, professionalID int64, rules []models.AvailabilityRule) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM availability_rules WHERE professional_id = ?`, professionalID); err != nil {
		return fmt.Errorf("failed to clear weekly rules: %w", err)
	}

	query := `INSERT INTO availability_rules (professional_id, weekday, start_time, end_time, slot_interval_minutes, created_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	now := time.Now()
	for _, r := range rules {
		if r.Weekday < 1 || r.Weekday > 7 {
			return fmt.Errorf("weekday %d is out of range 1..7", r.Weekday)
		}
		if _, err := tx.ExecContext(ctx, query, professionalID, r.Weekday, r.StartTime, r.EndTime, r.SlotIntervalMinutes, now); err != nil {
			return fmt.Errorf("failed to insert weekly rule: %w", err)
		}
	}

	return tx.Commit()
}

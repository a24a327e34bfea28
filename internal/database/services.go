package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"slotbook/internal/models"
)

func (db *DB) CreateService(ctx context.Context, service *models.Service) error {
	query := `INSERT INTO services (professional_id, name, duration_minutes, price, is_active, sort_order, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		service.ProfessionalID,
		service.Name,
		service.DurationMinutes,
		service.Price,
		service.IsActive,
		service.SortOrder,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	service.ID = id
	service.CreatedAt = now
	service.UpdatedAt = now
	return nil
}

func (db *DB) GetService(ctx context.Context, id int64) (*models.Service, error) {
	query := `SELECT id, professional_id, name, duration_minutes, price, is_active, sort_order, created_at, updated_at
              FROM services WHERE id = ?`
	var s models.Service
	err := db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.ProfessionalID, &s.Name, &s.DurationMinutes, &s.Price, &s.IsActive, &s.SortOrder, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &s, nil
}

func (db *DB) GetActiveServices(ctx context.Context, professionalID int64) ([]*models.Service, error) {
	query := `SELECT id, professional_id, name, duration_minutes, price, is_active, sort_order, created_at, updated_at
              FROM services WHERE professional_id = ? AND is_active = 1 ORDER BY sort_order, id`
	rows, err := db.QueryContext(ctx, query, professionalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active services: %w", err)
	}
	defer rows.Close()

	var services []*models.Service
	for rows.Next() {
		var s models.Service
		err := rows.Scan(&s.ID, &s.ProfessionalID, &s.Name, &s.DurationMinutes, &s.Price, &s.IsActive, &s.SortOrder, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, &s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read services: %w", err)
	}
	return services, nil
}

// SyncServices upserts catalog entries from the seed file by id. Entries
// present in the store but absent from the seed are left untouched; the seed
// is additive, deactivation is an explicit operation.
func (db *DB) SyncServices(ctx context.Context, services []models.Service) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO services (id, professional_id, name, duration_minutes, price, is_active, sort_order, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
              ON CONFLICT(id) DO UPDATE SET
                  professional_id = excluded.professional_id,
                  name = excluded.name,
                  duration_minutes = excluded.duration_minutes,
                  price = excluded.price,
                  is_active = excluded.is_active,
                  sort_order = excluded.sort_order,
                  updated_at = excluded.updated_at`
	now := time.Now()
	for _, s := range services {
		if _, err := tx.ExecContext(ctx, query,
			s.ID, s.ProfessionalID, s.Name, s.DurationMinutes, s.Price, s.IsActive, s.SortOrder, now, now,
		); err != nil {
			return fmt.Errorf("failed to sync service %d: %w", s.ID, err)
		}
	}

	return tx.Commit()
}

func (db *DB) DeactivateService(ctx context.Context, id int64) error {
	query := `UPDATE services SET is_active = 0, updated_at = ? WHERE id = ?`
	_, err := db.ExecContext(ctx, query, time.Now(), id)
	return err
}

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"slotbook/internal/models"
)

const appointmentColumns = `id, public_id, professional_id, service_id, service_name,
                 client_name, client_email, client_phone, subject_ref,
                 start_at, end_at, status, price_at_booking, created_at, updated_at`

// CountOverlapping returns how many occupying appointments of the
// professional intersect [start, end). Cancelled appointments do not count.
func (db *DB) CountOverlapping(ctx context.Context, professionalID int64, start, end time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM appointments
              WHERE professional_id = ? AND status != ? AND start_at < ? AND end_at > ?`
	var count int
	err := db.QueryRowContext(ctx, query, professionalID, models.StatusCancelled, end, start).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count overlapping appointments: %w", err)
	}
	return count, nil
}

// CreateAppointmentWithLock re-checks the requested window and inserts the
// appointment in one exclusive transaction. The store serializes writers
// (single connection), so two bookers of the same window cannot both pass the
// re-check: the loser gets ErrSlotTaken and nothing is committed.
func (db *DB) CreateAppointmentWithLock(ctx context.Context, appointment *models.Appointment) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 1. Mandatory re-validation inside the transaction. The caller's slot
	// list is a hint, not a reservation.
	queryCount := `SELECT COUNT(*) FROM appointments
                   WHERE professional_id = ? AND status != ? AND start_at < ? AND end_at > ?`
	var overlapping int
	err = tx.QueryRowContext(ctx, queryCount,
		appointment.ProfessionalID, models.StatusCancelled, appointment.EndAt, appointment.StartAt).Scan(&overlapping)
	if err != nil {
		return fmt.Errorf("failed to check overlap in tx: %w", err)
	}
	if overlapping > 0 {
		return ErrSlotTaken
	}

	// 2. Insert the appointment.
	queryInsert := `INSERT INTO appointments (
                public_id, professional_id, service_id, service_name,
                client_name, client_email, client_phone, subject_ref,
                start_at, end_at, status, price_at_booking, created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := tx.ExecContext(ctx, queryInsert,
		appointment.PublicID,
		appointment.ProfessionalID,
		appointment.ServiceID,
		appointment.ServiceName,
		appointment.ClientName,
		appointment.ClientEmail,
		appointment.ClientPhone,
		appointment.SubjectRef,
		appointment.StartAt,
		appointment.EndAt,
		appointment.Status,
		appointment.PriceAtBooking,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert appointment in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}
	appointment.ID = id
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	return tx.Commit()
}

func (db *DB) GetAppointment(ctx context.Context, id int64) (*models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = ?`
	appointment, err := db.scanAppointment(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return appointment, nil
}

// UpdateAppointmentStatus sets the status of one appointment. It reports
// false without error when no row was affected.
func (db *DB) UpdateAppointmentStatus(ctx context.Context, id int64, status string) (bool, error) {
	if !models.IsKnownStatus(status) {
		return false, ErrUnknownStatus
	}

	query := `UPDATE appointments SET status = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return false, fmt.Errorf("failed to update appointment status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return rows > 0, nil
}

// GetAppointmentsForDate returns all appointments of the professional that
// start on the given calendar date, including cancelled ones; callers decide
// which of them still occupy time.
func (db *DB) GetAppointmentsForDate(ctx context.Context, professionalID int64, date time.Time) ([]*models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
              FROM appointments
              WHERE professional_id = ? AND date(start_at) = ?
              ORDER BY start_at`
	return db.queryAppointments(ctx, query, professionalID, date.Format(models.DateLayout))
}

// GetAppointmentsInRange returns the professional's appointments starting on
// any date in [start, end], ordered by start instant.
func (db *DB) GetAppointmentsInRange(ctx context.Context, professionalID int64, start, end time.Time) ([]*models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
              FROM appointments
              WHERE professional_id = ? AND date(start_at) BETWEEN ? AND ?
              ORDER BY start_at`
	return db.queryAppointments(ctx, query, professionalID,
		start.Format(models.DateLayout), end.Format(models.DateLayout))
}

func (db *DB) queryAppointments(ctx context.Context, query string, args ...any) ([]*models.Appointment, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer rows.Close()

	var appointments []*models.Appointment
	for rows.Next() {
		appointment, err := db.scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appointments = append(appointments, appointment)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read appointments: %w", err)
	}
	return appointments, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (db *DB) scanAppointment(row rowScanner) (*models.Appointment, error) {
	var a models.Appointment
	err := row.Scan(
		&a.ID, &a.PublicID, &a.ProfessionalID, &a.ServiceID, &a.ServiceName,
		&a.ClientName, &a.ClientEmail, &a.ClientPhone, &a.SubjectRef,
		&a.StartAt, &a.EndAt, &a.Status, &a.PriceAtBooking, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

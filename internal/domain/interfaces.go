package domain

import (
	"context"
	"time"

	"slotbook/internal/models"
)

// Repository is the persistence surface the engine consumes. The sqlite
// implementation lives in internal/database.
type Repository interface {
	GetWeeklyRules(ctx context.Context, professionalID int64) ([]models.AvailabilityRule, error)
	ReplaceWeeklyRules(ctx context.Context, professionalID int64, rules []models.AvailabilityRule) error
	GetAppointmentsForDate(ctx context.Context, professionalID int64, date time.Time) ([]*models.Appointment, error)
	GetAppointmentsInRange(ctx context.Context, professionalID int64, start, end time.Time) ([]*models.Appointment, error)
	CreateAppointmentWithLock(ctx context.Context, appointment *models.Appointment) error
	GetAppointment(ctx context.Context, id int64) (*models.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id int64, status string) (bool, error)
	GetService(ctx context.Context, id int64) (*models.Service, error)
	GetActiveServices(ctx context.Context, professionalID int64) ([]*models.Service, error)
	CreateService(ctx context.Context, service *models.Service) error
	SyncServices(ctx context.Context, services []models.Service) error
	DeactivateService(ctx context.Context, id int64) error
}

// CatalogCache fronts read-mostly service lookups. A nil, nil return means a
// cache miss.
type CatalogCache interface {
	GetService(ctx context.Context, id int64) (*models.Service, error)
	SetService(ctx context.Context, service *models.Service) error
	DeleteService(ctx context.Context, id int64) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// Mailer delivers a rendered notification. Content and templates live with
// the mailer implementation, not here.
type Mailer interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

type ScheduleService interface {
	GetSlotsForDate(ctx context.Context, professionalID int64, date time.Time, serviceDurationMinutes int) ([]string, error)
	GetSlotsForRange(ctx context.Context, professionalID int64, start, end time.Time, serviceDurationMinutes int) (map[string][]models.Slot, error)
	SaveWeeklySchedule(ctx context.Context, professionalID int64, rules []models.AvailabilityRule) error
}

type BookingService interface {
	Book(ctx context.Context, request models.BookingRequest) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, appointmentID int64, newStatus string) (bool, error)
	GetAppointment(ctx context.Context, id int64) (*models.Appointment, error)
}

type CatalogService interface {
	GetService(ctx context.Context, id int64) (*models.Service, error)
	GetActiveServices(ctx context.Context, professionalID int64) ([]*models.Service, error)
}

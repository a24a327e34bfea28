package service

import (
	"context"
	"errors"
	"time"

	"slotbook/internal/database"
	"slotbook/internal/domain"
	"slotbook/internal/events"
	"slotbook/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BookingService is the booking arbiter plus the status lifecycle. The
// transactional window re-check lives in the repository; this layer resolves
// the service, shapes the appointment and emits events.
type BookingService struct {
	repo     domain.Repository
	catalog  domain.CatalogService
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(repo domain.Repository, catalog domain.CatalogService, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		catalog:  catalog,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Book commits one specific window. Exactly one of any set of concurrent
// calls for overlapping windows of the same professional succeeds; the rest
// get database.ErrSlotTaken and no side effects.
func (s *BookingService) Book(ctx context.Context, request models.BookingRequest) (*models.Appointment, error) {
	service, err := s.catalog.GetService(ctx, request.ServiceID)
	if err != nil {
		return nil, err
	}
	if service.ProfessionalID != request.ProfessionalID {
		// A foreign service id is indistinguishable from an unknown one.
		return nil, database.ErrServiceNotFound
	}

	appointment := &models.Appointment{
		PublicID:       uuid.NewString(),
		ProfessionalID: request.ProfessionalID,
		ServiceID:      service.ID,
		ServiceName:    service.Name,
		ClientName:     request.ClientName,
		ClientEmail:    request.ClientEmail,
		ClientPhone:    request.ClientPhone,
		SubjectRef:     request.SubjectRef,
		StartAt:        request.StartAt,
		EndAt:          request.StartAt.Add(time.Duration(service.DurationMinutes) * time.Minute),
		Status:         models.StatusPending,
		PriceAtBooking: service.Price,
	}

	if err := s.repo.CreateAppointmentWithLock(ctx, appointment); err != nil {
		if errors.Is(err, database.ErrSlotTaken) {
			s.logger.Info().
				Int64("professional_id", request.ProfessionalID).
				Time("start_at", request.StartAt).
				Msg("booking lost the window race")
		}
		return nil, err
	}

	s.publishEvent(events.EventAppointmentCreated, appointment, "")

	s.logger.Info().
		Int64("appointment_id", appointment.ID).
		Int64("professional_id", appointment.ProfessionalID).
		Str("service", appointment.ServiceName).
		Time("start_at", appointment.StartAt).
		Msg("appointment created")

	return appointment, nil
}

// UpdateStatus applies a status transition. Any known status may move to any
// other known status; false means the appointment does not exist.
func (s *BookingService) UpdateStatus(ctx context.Context, appointmentID int64, newStatus string) (bool, error) {
	if !models.IsKnownStatus(newStatus) {
		return false, database.ErrUnknownStatus
	}

	current, err := s.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, database.ErrAppointmentNotFound) {
			return false, nil
		}
		return false, err
	}

	ok, err := s.repo.UpdateAppointmentStatus(ctx, appointmentID, newStatus)
	if err != nil || !ok {
		return ok, err
	}

	updated := *current
	updated.Status = newStatus
	s.publishEvent(events.EventAppointmentStatusChanged, &updated, current.Status)

	return true, nil
}

func (s *BookingService) GetAppointment(ctx context.Context, id int64) (*models.Appointment, error) {
	return s.repo.GetAppointment(ctx, id)
}

func (s *BookingService) publishEvent(eventType string, appointment *models.Appointment, oldStatus string) {
	if s.eventBus == nil {
		return
	}

	payload := events.AppointmentEventPayload{
		AppointmentID:  appointment.ID,
		PublicID:       appointment.PublicID,
		ProfessionalID: appointment.ProfessionalID,
		ServiceID:      appointment.ServiceID,
		ServiceName:    appointment.ServiceName,
		ClientName:     appointment.ClientName,
		ClientEmail:    appointment.ClientEmail,
		StartAt:        appointment.StartAt,
		EndAt:          appointment.EndAt,
		Status:         appointment.Status,
		OldStatus:      oldStatus,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("appointment_id", appointment.ID).Msg("publish event error")
	}
}

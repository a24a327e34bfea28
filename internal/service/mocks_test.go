package service

import (
	"context"
	"sync"
	"time"

	"slotbook/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetWeeklyRules(ctx context.Context, professionalID int64) ([]models.AvailabilityRule, error) {
	args := m.Called(ctx, professionalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AvailabilityRule), args.Error(1)
}
func (m *mockRepo) ReplaceWeeklyRules(ctx context.Context, professionalID int64, rules []models.AvailabilityRule) error {
	return m.Called(ctx, professionalID, rules).Error(0)
}
func (m *mockRepo) GetAppointmentsForDate(ctx context.Context, professionalID int64, date time.Time) ([]*models.Appointment, error) {
	args := m.Called(ctx, professionalID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Appointment), args.Error(1)
}
func (m *mockRepo) GetAppointmentsInRange(ctx context.Context, professionalID int64, start, end time.Time) ([]*models.Appointment, error) {
	args := m.Called(ctx, professionalID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Appointment), args.Error(1)
}
func (m *mockRepo) CreateAppointmentWithLock(ctx context.Context, appointment *models.Appointment) error {
	return m.Called(ctx, appointment).Error(0)
}
func (m *mockRepo) GetAppointment(ctx context.Context, id int64) (*models.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}
func (m *mockRepo) UpdateAppointmentStatus(ctx context.Context, id int64, status string) (bool, error) {
	args := m.Called(ctx, id, status)
	return args.Bool(0), args.Error(1)
}
func (m *mockRepo) GetService(ctx context.Context, id int64) (*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}
func (m *mockRepo) GetActiveServices(ctx context.Context, professionalID int64) ([]*models.Service, error) {
	args := m.Called(ctx, professionalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Service), args.Error(1)
}
func (m *mockRepo) CreateService(ctx context.Context, service *models.Service) error {
	return m.Called(ctx, service).Error(0)
}
func (m *mockRepo) SyncServices(ctx context.Context, services []models.Service) error {
	return m.Called(ctx, services).Error(0)
}
func (m *mockRepo) DeactivateService(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) GetService(ctx context.Context, id int64) (*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}
func (m *mockCatalog) GetActiveServices(ctx context.Context, professionalID int64) ([]*models.Service, error) {
	args := m.Called(ctx, professionalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Service), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetService(ctx context.Context, id int64) (*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}
func (m *mockCache) SetService(ctx context.Context, service *models.Service) error {
	return m.Called(ctx, service).Error(0)
}
func (m *mockCache) DeleteService(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// capturingBus records published events for assertions.
type capturingBus struct {
	mu     sync.Mutex
	events []capturedEvent
}

type capturedEvent struct {
	Type    string
	Payload interface{}
}

func (b *capturingBus) PublishJSON(eventType string, payload interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, capturedEvent{Type: eventType, Payload: payload})
	return nil
}

func (b *capturingBus) captured() []capturedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]capturedEvent(nil), b.events...)
}

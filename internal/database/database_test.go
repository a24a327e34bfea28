package database

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"slotbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	logger := zerolog.New(io.Discard)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDB_CreatesFile(t *testing.T) {
	logger := zerolog.New(io.Discard)
	path := filepath.Join(t.TempDir(), "data", "slotbook.db")

	db, err := NewDB(path, &logger)
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, path)
}

func TestServices_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	service := &models.Service{
		ProfessionalID:  7,
		Name:            "Grooming",
		DurationMinutes: 45,
		Price:           3500,
		IsActive:        true,
	}
	require.NoError(t, db.CreateService(ctx, service))
	assert.NotZero(t, service.ID)

	got, err := db.GetService(ctx, service.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grooming", got.Name)
	assert.Equal(t, 45, got.DurationMinutes)
	assert.Equal(t, int64(3500), got.Price)
}

func TestServices_GetMissing(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetService(context.Background(), 999)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestServices_SyncUpserts(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seed := []models.Service{
		{ID: 1, ProfessionalID: 7, Name: "Checkup", DurationMinutes: 30, Price: 2000, IsActive: true},
		{ID: 2, ProfessionalID: 7, Name: "Surgery", DurationMinutes: 120, Price: 15000, IsActive: true},
	}
	require.NoError(t, db.SyncServices(ctx, seed))

	seed[0].Price = 2500
	require.NoError(t, db.SyncServices(ctx, seed[:1]))

	got, err := db.GetService(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), got.Price)

	services, err := db.GetActiveServices(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, services, 2)
}

func TestServices_Deactivate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	service := &models.Service{ProfessionalID: 7, Name: "Checkup", DurationMinutes: 30, IsActive: true}
	require.NoError(t, db.CreateService(ctx, service))
	require.NoError(t, db.DeactivateService(ctx, service.ID))

	services, err := db.GetActiveServices(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, services)
}

func TestWeeklyRules_ReplaceWholesale(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := []models.AvailabilityRule{
		{Weekday: 1, StartTime: "09:00", EndTime: "13:00", SlotIntervalMinutes: 30},
		{Weekday: 3, StartTime: "09:00", EndTime: "12:00", SlotIntervalMinutes: 15},
	}
	require.NoError(t, db.ReplaceWeeklyRules(ctx, 7, first))

	second := []models.AvailabilityRule{
		{Weekday: 5, StartTime: "10:00", EndTime: "16:00"},
	}
	require.NoError(t, db.ReplaceWeeklyRules(ctx, 7, second))

	rules, err := db.GetWeeklyRules(ctx, 7)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, 5, rules[0].Weekday)
	assert.Equal(t, "10:00", rules[0].StartTime)
}

func TestWeeklyRules_OrderedByID(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	rules := []models.AvailabilityRule{
		{Weekday: 2, StartTime: "09:00", EndTime: "12:00", SlotIntervalMinutes: 15},
		{Weekday: 2, StartTime: "14:00", EndTime: "18:00", SlotIntervalMinutes: 30},
	}
	require.NoError(t, db.ReplaceWeeklyRules(ctx, 7, rules))

	got, err := db.GetWeeklyRules(ctx, 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Less(t, got[0].ID, got[1].ID)
	assert.Equal(t, 15, got[0].SlotIntervalMinutes)
	assert.Equal(t, 30, got[1].SlotIntervalMinutes)
}

func TestWeeklyRules_RejectsBadWeekday(t *testing.T) {
	db := setupTestDB(t)

	err := db.ReplaceWeeklyRules(context.Background(), 7, []models.AvailabilityRule{
		{Weekday: 0, StartTime: "09:00", EndTime: "12:00"},
	})
	assert.Error(t, err)

	rules, err := db.GetWeeklyRules(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestWeeklyRules_KeepsMalformedRows(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	// Malformed rows are stored as-is; the calculator is the layer that
	// skips them.
	rules := []models.AvailabilityRule{
		{Weekday: 2, StartTime: "", EndTime: "12:00"},
	}
	require.NoError(t, db.ReplaceWeeklyRules(ctx, 7, rules))

	got, err := db.GetWeeklyRules(ctx, 7)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Malformed())
}

package repository

import (
	"context"
	"testing"
	"time"

	"slotbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCatalogCache(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCatalogCache(time.Hour)

	t.Run("SetAndGetService", func(t *testing.T) {
		service := &models.Service{ID: 3, Name: "Grooming", DurationMinutes: 45}

		require.NoError(t, cache.SetService(ctx, service))

		got, err := cache.GetService(ctx, 3)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Grooming", got.Name)
	})

	t.Run("GetNonExistentService", func(t *testing.T) {
		got, err := cache.GetService(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("DeleteService", func(t *testing.T) {
		cache.SetService(ctx, &models.Service{ID: 5, Name: "Checkup"})

		require.NoError(t, cache.DeleteService(ctx, 5))

		got, _ := cache.GetService(ctx, 5)
		assert.Nil(t, got)
	})

	t.Run("ExpiredEntryIsAMiss", func(t *testing.T) {
		short := NewMemoryCatalogCache(time.Millisecond)
		require.NoError(t, short.SetService(ctx, &models.Service{ID: 8, Name: "Vaccination"}))

		time.Sleep(5 * time.Millisecond)

		got, err := short.GetService(ctx, 8)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

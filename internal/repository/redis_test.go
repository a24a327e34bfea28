package repository

import (
	"context"
	"testing"
	"time"

	"slotbook/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCatalogCache(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	cache := NewRedisCatalogCache(client, time.Hour)
	ctx := context.Background()

	t.Run("SetAndGetService", func(t *testing.T) {
		service := &models.Service{
			ID:              3,
			ProfessionalID:  7,
			Name:            "Grooming",
			DurationMinutes: 45,
			Price:           3500,
			IsActive:        true,
		}

		err := cache.SetService(ctx, service)
		require.NoError(t, err)

		got, err := cache.GetService(ctx, 3)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, service.ID, got.ID)
		assert.Equal(t, service.Name, got.Name)
		assert.Equal(t, service.Price, got.Price)
	})

	t.Run("GetNonExistentService", func(t *testing.T) {
		got, err := cache.GetService(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("DeleteService", func(t *testing.T) {
		service := &models.Service{ID: 5, Name: "Checkup"}
		cache.SetService(ctx, service)

		err := cache.DeleteService(ctx, 5)
		require.NoError(t, err)

		got, _ := cache.GetService(ctx, 5)
		assert.Nil(t, got)
	})

	t.Run("TTLExpiry", func(t *testing.T) {
		short := NewRedisCatalogCache(client, time.Second)
		require.NoError(t, short.SetService(ctx, &models.Service{ID: 8, Name: "Vaccination"}))

		s.FastForward(2 * time.Second)

		got, err := short.GetService(ctx, 8)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("NilClient", func(t *testing.T) {
		cache := NewRedisCatalogCache(nil, time.Hour)
		_, err := cache.GetService(ctx, 3)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "redis client is nil")
	})

	t.Run("Ping", func(t *testing.T) {
		err := Ping(ctx, client)
		assert.NoError(t, err)
	})

	t.Run("Close", func(t *testing.T) {
		err := Close(client)
		assert.NoError(t, err)
	})
}

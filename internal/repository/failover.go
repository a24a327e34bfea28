package repository

import (
	"context"
	"sync/atomic"
	"time"

	"slotbook/internal/domain"
	"slotbook/internal/models"

	"github.com/rs/zerolog"
)

type FailoverCatalogCache struct {
	primary   domain.CatalogCache
	fallback  domain.CatalogCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverCatalogCache(primary, fallback domain.CatalogCache, logger *zerolog.Logger) *FailoverCatalogCache {
	return &FailoverCatalogCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverCatalogCache) GetService(ctx context.Context, id int64) (*models.Service, error) {
	if !r.isDown.Load() {
		service, err := r.primary.GetService(ctx, id)
		if err == nil {
			return service, nil
		}
		r.logger.Error().Err(err).Msg("Primary catalog cache failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Since(r.lastCheck) > time.Minute {
		service, err := r.primary.GetService(ctx, id)
		if err == nil {
			r.isDown.Store(false)
			return service, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.GetService(ctx, id)
}

func (r *FailoverCatalogCache) SetService(ctx context.Context, service *models.Service) error {
	if !r.isDown.Load() {
		err := r.primary.SetService(ctx, service)
		if err == nil {
			return nil
		}
		r.logger.Error().Err(err).Msg("Primary catalog cache failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	return r.fallback.SetService(ctx, service)
}

func (r *FailoverCatalogCache) DeleteService(ctx context.Context, id int64) error {
	if !r.isDown.Load() {
		err := r.primary.DeleteService(ctx, id)
		if err == nil {
			return nil
		}
		r.logger.Error().Err(err).Msg("Primary catalog cache failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	return r.fallback.DeleteService(ctx, id)
}

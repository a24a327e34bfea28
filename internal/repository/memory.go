package repository

import (
	"context"
	"sync"
	"time"

	"slotbook/internal/models"
)

type MemoryCatalogCache struct {
	services sync.Map
	ttl      time.Duration
}

type cacheEntry struct {
	service   *models.Service
	expiresAt time.Time
}

func NewMemoryCatalogCache(ttl time.Duration) *MemoryCatalogCache {
	return &MemoryCatalogCache{
		ttl: ttl,
	}
}

func (r *MemoryCatalogCache) GetService(ctx context.Context, id int64) (*models.Service, error) {
	val, ok := r.services.Load(id)
	if !ok {
		return nil, nil
	}
	entry := val.(*cacheEntry)
	if r.ttl > 0 && time.Now().After(entry.expiresAt) {
		r.services.Delete(id)
		return nil, nil
	}
	return entry.service, nil
}

func (r *MemoryCatalogCache) SetService(ctx context.Context, service *models.Service) error {
	r.services.Store(service.ID, &cacheEntry{
		service:   service,
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemoryCatalogCache) DeleteService(ctx context.Context, id int64) error {
	r.services.Delete(id)
	return nil
}

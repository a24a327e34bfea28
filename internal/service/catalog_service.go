package service

import (
	"context"

	"slotbook/internal/domain"
	"slotbook/internal/models"

	"github.com/rs/zerolog"
)

// CatalogService answers read-mostly service lookups through the cache,
// falling back to the store on a miss.
type CatalogService struct {
	repo   domain.Repository
	cache  domain.CatalogCache
	logger *zerolog.Logger
}

func NewCatalogService(repo domain.Repository, cache domain.CatalogCache, logger *zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, cache: cache, logger: logger}
}

func (s *CatalogService) GetService(ctx context.Context, id int64) (*models.Service, error) {
	if s.cache != nil {
		cached, err := s.cache.GetService(ctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Int64("service_id", id).Msg("catalog cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	service, err := s.repo.GetService(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetService(ctx, service); err != nil {
			s.logger.Warn().Err(err).Int64("service_id", id).Msg("catalog cache write failed")
		}
	}
	return service, nil
}

func (s *CatalogService) GetActiveServices(ctx context.Context, professionalID int64) ([]*models.Service, error) {
	return s.repo.GetActiveServices(ctx, professionalID)
}

// Invalidate drops one service from the cache after a catalog change.
func (s *CatalogService) Invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteService(ctx, id); err != nil {
		s.logger.Warn().Err(err).Int64("service_id", id).Msg("catalog cache invalidation failed")
	}
}

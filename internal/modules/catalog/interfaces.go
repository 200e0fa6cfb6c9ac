package catalog

import (
	"context"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
)

type VenueRepository interface {
	Create(ctx context.Context, v *domain.Venue) error
	GetByID(ctx context.Context, id string) (*domain.Venue, error)
	Update(ctx context.Context, v *domain.Venue) error
	List(ctx context.Context, f repository.VenueFilters) ([]domain.Venue, int64, error)
}

type OfferingRepository interface {
	Create(ctx context.Context, o *domain.Offering) error
	GetByID(ctx context.Context, id string) (*domain.Offering, error)
	Update(ctx context.Context, o *domain.Offering) error
	List(ctx context.Context, f repository.OfferingFilters) ([]domain.Offering, error)
}

package review

import (
	"context"

	"marketplace/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, rv *domain.Review) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	ListByVenue(ctx context.Context, venueID string, limit, offset int) ([]domain.Review, error)
}

type OfferingReader interface {
	GetByID(ctx context.Context, id string) (*domain.Offering, error)
}

type ReservationGate interface {
	HasConfirmed(ctx context.Context, customerID, offeringID string) (bool, error)
}

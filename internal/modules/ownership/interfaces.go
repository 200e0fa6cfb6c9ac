package ownership

import (
	"context"

	"marketplace/internal/domain"
)

// ResourceReader is the read-only view of the store the chain walk needs.
// Missing records are reported as domain.ErrNotFound.
type ResourceReader interface {
	GetVenue(ctx context.Context, id string) (*domain.Venue, error)
	GetOffering(ctx context.Context, id string) (*domain.Offering, error)
	GetReservation(ctx context.Context, id string) (*domain.Reservation, error)
	GetReview(ctx context.Context, id string) (*domain.Review, error)
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"marketplace/internal/domain"
)

// Resources is the read side the ownership chain walks.
type Resources struct {
	Venues       *VenueRepository
	Offerings    *OfferingRepository
	Reservations *ReservationRepository
	Reviews      *ReviewRepository
}

func NewResources(db *gorm.DB) *Resources {
	return &Resources{
		Venues:       NewVenueRepository(db),
		Offerings:    NewOfferingRepository(db),
		Reservations: NewReservationRepository(db),
		Reviews:      NewReviewRepository(db),
	}
}

func (r *Resources) GetVenue(ctx context.Context, id string) (*domain.Venue, error) {
	return r.Venues.GetByID(ctx, id)
}

func (r *Resources) GetOffering(ctx context.Context, id string) (*domain.Offering, error) {
	return r.Offerings.GetByID(ctx, id)
}

func (r *Resources) GetReservation(ctx context.Context, id string) (*domain.Reservation, error) {
	return r.Reservations.GetByID(ctx, id)
}

func (r *Resources) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	return r.Reviews.GetByID(ctx, id)
}

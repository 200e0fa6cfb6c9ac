package review

import (
	"context"
	"log/slog"
	"strings"

	"marketplace/internal/domain"
	"marketplace/internal/pkg/validator"
)

type Service struct {
	reviews      ReviewRepository
	offerings    OfferingReader
	reservations ReservationGate
	logger       *slog.Logger
}

func NewService(reviews ReviewRepository, offerings OfferingReader, reservations ReservationGate, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{reviews: reviews, offerings: offerings, reservations: reservations, logger: logger}
}

// Create stores the customer's review of an offering they attended. The
// venue id is copied from the offering so the ownership chain of a review
// is a single hop.
func (s *Service) Create(ctx context.Context, customerID, offeringID string, req CreateReviewRequest) (*domain.Review, error) {
	o, err := s.offerings.GetByID(ctx, offeringID)
	if err != nil {
		return nil, err
	}

	ok, err := s.reservations.HasConfirmed(ctx, customerID, offeringID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.Errorf(domain.ErrForbidden, "only customers with a confirmed reservation may review")
	}

	rv := &domain.Review{
		CustomerID: customerID,
		OfferingID: o.ID,
		VenueID:    o.VenueID,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
	}
	if err := validator.Check(rv); err != nil {
		return nil, err
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, err
	}

	s.logger.Info("review created", "review_id", rv.ID, "offering_id", o.ID, "venue_id", o.VenueID)
	return rv, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Review, error) {
	return s.reviews.GetByID(ctx, id)
}

func (s *Service) ListByVenue(ctx context.Context, venueID string, limit, offset int) ([]domain.Review, error) {
	return s.reviews.ListByVenue(ctx, venueID, limit, offset)
}

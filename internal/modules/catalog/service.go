package catalog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"marketplace/internal/domain"
	"marketplace/internal/pkg/validator"
	"marketplace/internal/repository"
)

// Service is plain venue and offering CRUD. Callers are authorized by the
// gate before any method here runs, so nothing below compares owners.
type Service struct {
	venues    VenueRepository
	offerings OfferingRepository
	logger    *slog.Logger
}

func NewService(venues VenueRepository, offerings OfferingRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{venues: venues, offerings: offerings, logger: logger}
}

/* ---------- VENUES ---------- */

func (s *Service) CreateVenue(ctx context.Context, ownerID string, req CreateVenueRequest) (*domain.Venue, error) {
	v := &domain.Venue{
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(req.Name),
		Address:     strings.TrimSpace(req.Address),
		City:        strings.TrimSpace(req.City),
		Description: req.Description,
	}
	if err := validator.Check(v); err != nil {
		return nil, err
	}
	if err := s.venues.Create(ctx, v); err != nil {
		return nil, err
	}
	s.logger.Info("venue created", "venue_id", v.ID, "owner_id", ownerID)
	return v, nil
}

func (s *Service) GetVenue(ctx context.Context, id string) (*domain.Venue, error) {
	return s.venues.GetByID(ctx, id)
}

func (s *Service) UpdateVenue(ctx context.Context, id string, req UpdateVenueRequest) (*domain.Venue, error) {
	v, err := s.venues.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		v.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		v.Address = strings.TrimSpace(*req.Address)
	}
	if req.City != nil {
		v.City = strings.TrimSpace(*req.City)
	}
	if req.Description != nil {
		v.Description = *req.Description
	}
	if err := validator.Check(v); err != nil {
		return nil, err
	}
	if err := s.venues.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) ListVenues(ctx context.Context, f repository.VenueFilters) ([]domain.Venue, int64, error) {
	return s.venues.List(ctx, f)
}

/* ---------- OFFERINGS ---------- */

// CreateOffering adds an offering to a venue the caller has already been
// proven to own.
func (s *Service) CreateOffering(ctx context.Context, venueID string, req CreateOfferingRequest) (*domain.Offering, error) {
	o := &domain.Offering{
		VenueID:     venueID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		StartsAt:    req.StartsAt.UTC(),
		EndsAt:      req.EndsAt.UTC(),
		Capacity:    req.Capacity,
		Price:       req.Price,
	}
	if err := validator.Check(o); err != nil {
		return nil, err
	}
	if err := s.offerings.Create(ctx, o); err != nil {
		return nil, err
	}
	s.logger.Info("offering created", "offering_id", o.ID, "venue_id", venueID, "capacity", o.Capacity)
	return o, nil
}

func (s *Service) GetOffering(ctx context.Context, id string) (*domain.Offering, error) {
	return s.offerings.GetByID(ctx, id)
}

// UpdateOffering patches an offering. Lowering capacity below the slots
// already held is a Conflict.
func (s *Service) UpdateOffering(ctx context.Context, id string, req UpdateOfferingRequest) (*domain.Offering, error) {
	o, err := s.offerings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		o.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		o.Description = *req.Description
	}
	if req.StartsAt != nil {
		o.StartsAt = req.StartsAt.UTC()
	}
	if req.EndsAt != nil {
		o.EndsAt = req.EndsAt.UTC()
	}
	if req.Capacity != nil {
		o.Capacity = *req.Capacity
	}
	if req.Price != nil {
		o.Price = *req.Price
	}
	if err := validator.Check(o); err != nil {
		return nil, err
	}
	if err := s.offerings.Update(ctx, o); err != nil {
		return nil, err
	}
	return s.offerings.GetByID(ctx, id)
}

func (s *Service) ListOfferings(ctx context.Context, venueID string, from, to *time.Time, limit, offset int) ([]domain.Offering, error) {
	return s.offerings.List(ctx, repository.OfferingFilters{
		VenueID: venueID,
		From:    from,
		To:      to,
		Limit:   limit,
		Offset:  offset,
	})
}

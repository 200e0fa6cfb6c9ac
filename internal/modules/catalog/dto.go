package catalog

import (
	"time"

	"marketplace/internal/domain"
)

type CreateVenueRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Address     string `json:"address" binding:"required"`
	City        string `json:"city"`
	Description string `json:"description"`
}

type UpdateVenueRequest struct {
	Name        *string `json:"name,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	Description *string `json:"description,omitempty"`
}

type CreateOfferingRequest struct {
	Name        string    `json:"name" binding:"required,max=200"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at" binding:"required"`
	Capacity    int       `json:"capacity" binding:"required,gt=0"`
	Price       int64     `json:"price" binding:"gte=0"`
}

type UpdateOfferingRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Capacity    *int       `json:"capacity,omitempty"`
	Price       *int64     `json:"price,omitempty"`
}

// OfferingResponse adds the remaining slot count for "fully booked" display.
type OfferingResponse struct {
	domain.Offering
	Available   int  `json:"available"`
	FullyBooked bool `json:"fully_booked"`
}

func toOfferingResponse(o domain.Offering) OfferingResponse {
	left := o.Available()
	return OfferingResponse{Offering: o, Available: left, FullyBooked: left == 0}
}

type VenueListResponse struct {
	Venues     []domain.Venue `json:"venues"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

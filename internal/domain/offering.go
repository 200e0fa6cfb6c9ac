package domain

import "time"

// Offering is a bookable slot of a Venue. ReservedCount is maintained by the
// capacity ledger and never exceeds Capacity.
type Offering struct {
	ID            string    `json:"id"`
	VenueID       string    `json:"venue_id" validate:"required"`
	Name          string    `json:"name" validate:"required,max=200"`
	Description   string    `json:"description,omitempty"`
	StartsAt      time.Time `json:"starts_at" validate:"required"`
	EndsAt        time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	Capacity      int       `json:"capacity" validate:"required,gt=0"`
	Price         int64     `json:"price" validate:"gte=0"`
	ReservedCount int       `json:"reserved_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (o Offering) Available() int {
	if left := o.Capacity - o.ReservedCount; left > 0 {
		return left
	}
	return 0
}

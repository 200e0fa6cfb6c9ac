package domain

import "time"

// Review is immutable once written. VenueID is copied from the Offering at
// write time.
type Review struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	OfferingID string    `json:"offering_id"`
	VenueID    string    `json:"venue_id"`
	Rating     int       `json:"rating" validate:"required,min=1,max=5"`
	Comment    string    `json:"comment,omitempty" validate:"max=2000"`
	CreatedAt  time.Time `json:"created_at"`
}

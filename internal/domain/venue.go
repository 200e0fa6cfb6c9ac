package domain

import "time"

type Venue struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name" validate:"required,max=200"`
	Address     string    `json:"address" validate:"required"`
	City        string    `json:"city,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

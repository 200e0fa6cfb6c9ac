package domain

import "time"

type Role string

const (
	RoleCustomer      Role = "customer"
	RoleBusinessOwner Role = "business-owner"
	RoleAdmin         Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleBusinessOwner, RoleAdmin:
		return true
	default:
		return false
	}
}

// Account is the identity behind a credential. ID is the credential subject
// and Role never changes after creation.
type Account struct {
	ID        string    `json:"id"`
	Email     string    `json:"email" validate:"required,email"`
	Role      Role      `json:"role" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}

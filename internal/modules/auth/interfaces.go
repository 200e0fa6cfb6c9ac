package auth

import (
	"context"

	"marketplace/internal/domain"
)

// Registrar creates the account behind a verified credential.
type Registrar interface {
	Register(ctx context.Context, credential, email string, role domain.Role) (*domain.Account, error)
}

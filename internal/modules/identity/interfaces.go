package identity

import (
	"context"

	"marketplace/internal/domain"
)

// CredentialVerifier checks an opaque bearer credential with the external
// credential service and returns its subject.
type CredentialVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	Create(ctx context.Context, a *domain.Account) error
}

// AccountCache is an optional read-through cache of accounts. Accounts never
// change role, so entries only expire.
type AccountCache interface {
	Get(ctx context.Context, id string) (*domain.Account, bool)
	Set(ctx context.Context, a *domain.Account)
}

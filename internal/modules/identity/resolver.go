package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"marketplace/internal/domain"
)

type Resolver struct {
	verifier CredentialVerifier
	accounts AccountRepository
	cache    AccountCache
	logger   *slog.Logger
}

// NewResolver builds a Resolver. cache may be nil.
func NewResolver(verifier CredentialVerifier, accounts AccountRepository, cache AccountCache, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{verifier: verifier, accounts: accounts, cache: cache, logger: logger}
}

// Resolve maps a credential to its Account. It fails with
// domain.ErrUnauthenticated when the credential is missing or rejected and
// with domain.ErrAccountNotFound when no account exists for the subject.
func (r *Resolver) Resolve(ctx context.Context, credential string) (*domain.Account, error) {
	subject, err := r.subject(ctx, credential)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if acc, ok := r.cache.Get(ctx, subject); ok {
			return acc, nil
		}
	}

	acc, err := r.accounts.GetByID(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Errorf(domain.ErrAccountNotFound, "no account for subject %s", subject)
		}
		return nil, err
	}

	if r.cache != nil {
		r.cache.Set(ctx, acc)
	}
	return acc, nil
}

// Register creates the account for a verified subject. Admin accounts are
// never self-registered.
func (r *Resolver) Register(ctx context.Context, credential, email string, role domain.Role) (*domain.Account, error) {
	subject, err := r.subject(ctx, credential)
	if err != nil {
		return nil, err
	}

	switch role {
	case domain.RoleCustomer, domain.RoleBusinessOwner:
	case domain.RoleAdmin:
		return nil, domain.Errorf(domain.ErrForbidden, "admin accounts cannot be self-registered")
	default:
		return nil, domain.Errorf(domain.ErrValidation, "unknown role %q", role)
	}
	if strings.TrimSpace(email) == "" {
		return nil, domain.Errorf(domain.ErrValidation, "email is required")
	}

	acc := &domain.Account{ID: subject, Email: email, Role: role}
	if err := r.accounts.Create(ctx, acc); err != nil {
		return nil, err
	}
	r.logger.Info("account registered", "account_id", acc.ID, "role", acc.Role)
	return acc, nil
}

func (r *Resolver) subject(ctx context.Context, credential string) (string, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return "", domain.Errorf(domain.ErrUnauthenticated, "missing credential")
	}
	subject, err := r.verifier.Verify(ctx, credential)
	if err != nil {
		r.logger.Debug("credential rejected", "error", err)
		return "", domain.Wrap(domain.ErrUnauthenticated, err)
	}
	if subject == "" {
		return "", domain.Errorf(domain.ErrUnauthenticated, "credential has no subject")
	}
	return subject, nil
}

package gate

import (
	"context"
	"log/slog"
	"slices"

	"marketplace/internal/domain"
	"marketplace/internal/modules/ownership"
)

type IdentityResolver interface {
	Resolve(ctx context.Context, credential string) (*domain.Account, error)
}

type ChainValidator interface {
	Authorize(ctx context.Context, account *domain.Account, ref ownership.ResourceRef, required domain.Role) error
}

// AuthorizedContext is what a handler receives once the caller has been
// identified and, for resource endpoints, proven to own the target.
type AuthorizedContext struct {
	Account  *domain.Account
	Role     domain.Role
	Resource ownership.ResourceRef
}

func (a *AuthorizedContext) AccountID() string {
	return a.Account.ID
}

// Authorizer is the surface handlers depend on.
type Authorizer interface {
	AuthenticateAndAuthorize(ctx context.Context, credential string, ref ownership.ResourceRef, roles ...domain.Role) (*AuthorizedContext, error)
	Authenticate(ctx context.Context, credential string) (*AuthorizedContext, error)
	RequireRole(ctx context.Context, credential string, roles ...domain.Role) (*AuthorizedContext, error)
}

var _ Authorizer = (*Gate)(nil)

// Gate is the single authorization entry point for handlers.
type Gate struct {
	identity IdentityResolver
	chain    ChainValidator
	logger   *slog.Logger
}

func New(identity IdentityResolver, chain ChainValidator, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{identity: identity, chain: chain, logger: logger}
}

// AuthenticateAndAuthorize resolves the caller and checks the ownership chain
// of ref. The caller's role must be one of roles, and the chain is walked
// for that role.
func (g *Gate) AuthenticateAndAuthorize(ctx context.Context, credential string, ref ownership.ResourceRef, roles ...domain.Role) (*AuthorizedContext, error) {
	account, err := g.identity.Resolve(ctx, credential)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, g.deny(account, ref, domain.Errorf(domain.ErrForbidden, "no role may act on %s", ref))
	}

	required := roles[0]
	if slices.Contains(roles, account.Role) {
		required = account.Role
	}
	if err := g.chain.Authorize(ctx, account, ref, required); err != nil {
		return nil, g.deny(account, ref, err)
	}
	return &AuthorizedContext{Account: account, Role: required, Resource: ref}, nil
}

// Authenticate resolves the caller without a resource check.
func (g *Gate) Authenticate(ctx context.Context, credential string) (*AuthorizedContext, error) {
	account, err := g.identity.Resolve(ctx, credential)
	if err != nil {
		return nil, err
	}
	return &AuthorizedContext{Account: account, Role: account.Role}, nil
}

// RequireRole resolves the caller and checks its role for endpoints that act
// on a collection rather than one resource.
func (g *Gate) RequireRole(ctx context.Context, credential string, roles ...domain.Role) (*AuthorizedContext, error) {
	account, err := g.identity.Resolve(ctx, credential)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(roles, account.Role) {
		return nil, g.deny(account, ownership.ResourceRef{}, domain.Errorf(domain.ErrForbidden, "role %s is not allowed here", account.Role))
	}
	return &AuthorizedContext{Account: account, Role: account.Role}, nil
}

func (g *Gate) deny(account *domain.Account, ref ownership.ResourceRef, err error) error {
	g.logger.Info("authorization denied",
		"account_id", account.ID,
		"role", account.Role,
		"resource_kind", ref.Kind,
		"resource_id", ref.ID,
		"reason", domain.KindOf(err),
	)
	return err
}

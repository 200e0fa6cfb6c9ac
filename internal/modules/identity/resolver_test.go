package identity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"marketplace/internal/domain"
)

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, a *domain.Account) error {
	return m.Called(ctx, a).Error(0)
}

type MockAccountCache struct {
	mock.Mock
}

func (m *MockAccountCache) Get(ctx context.Context, id string) (*domain.Account, bool) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.Account), args.Bool(1)
}

func (m *MockAccountCache) Set(ctx context.Context, a *domain.Account) {
	m.Called(ctx, a)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolve_Success(t *testing.T) {
	verifier := new(MockVerifier)
	accounts := new(MockAccountRepository)
	acc := &domain.Account{ID: "uid-1", Email: "a@example.com", Role: domain.RoleCustomer}

	verifier.On("Verify", mock.Anything, "good-token").Return("uid-1", nil)
	accounts.On("GetByID", mock.Anything, "uid-1").Return(acc, nil)

	r := NewResolver(verifier, accounts, nil, quietLogger())
	got, err := r.Resolve(context.Background(), " good-token ")

	require.NoError(t, err)
	assert.Equal(t, acc, got)
}

func TestResolve_MissingCredential(t *testing.T) {
	verifier := new(MockVerifier)
	r := NewResolver(verifier, new(MockAccountRepository), nil, quietLogger())

	_, err := r.Resolve(context.Background(), "  ")

	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestResolve_RejectedCredential(t *testing.T) {
	verifier := new(MockVerifier)
	verifier.On("Verify", mock.Anything, "bad").Return("", errors.New("signature invalid"))

	r := NewResolver(verifier, new(MockAccountRepository), nil, quietLogger())
	_, err := r.Resolve(context.Background(), "bad")

	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.NotErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestResolve_OrphanedCredential(t *testing.T) {
	verifier := new(MockVerifier)
	accounts := new(MockAccountRepository)
	verifier.On("Verify", mock.Anything, "orphan").Return("uid-9", nil)
	accounts.On("GetByID", mock.Anything, "uid-9").Return(nil, domain.ErrNotFound)

	r := NewResolver(verifier, accounts, nil, quietLogger())
	_, err := r.Resolve(context.Background(), "orphan")

	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestResolve_StoreFailurePassesThrough(t *testing.T) {
	verifier := new(MockVerifier)
	accounts := new(MockAccountRepository)
	boom := errors.New("connection reset")
	verifier.On("Verify", mock.Anything, "tok").Return("uid-1", nil)
	accounts.On("GetByID", mock.Anything, "uid-1").Return(nil, boom)

	r := NewResolver(verifier, accounts, nil, quietLogger())
	_, err := r.Resolve(context.Background(), "tok")

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, domain.KindOf(err))
}

func TestResolve_UsesCache(t *testing.T) {
	verifier := new(MockVerifier)
	accounts := new(MockAccountRepository)
	cache := new(MockAccountCache)
	acc := &domain.Account{ID: "uid-1", Role: domain.RoleBusinessOwner}

	verifier.On("Verify", mock.Anything, "tok").Return("uid-1", nil)
	cache.On("Get", mock.Anything, "uid-1").Return(nil, false).Once()
	accounts.On("GetByID", mock.Anything, "uid-1").Return(acc, nil).Once()
	cache.On("Set", mock.Anything, acc).Once()

	r := NewResolver(verifier, accounts, cache, quietLogger())
	_, err := r.Resolve(context.Background(), "tok")
	require.NoError(t, err)

	cache.On("Get", mock.Anything, "uid-1").Return(acc, true).Once()
	got, err := r.Resolve(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, acc, got)

	accounts.AssertNumberOfCalls(t, "GetByID", 1)
	cache.AssertExpectations(t)
}

func TestRegister(t *testing.T) {
	verifier := new(MockVerifier)
	accounts := new(MockAccountRepository)
	verifier.On("Verify", mock.Anything, "tok").Return("uid-1", nil)
	accounts.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.Account) bool {
		return a.ID == "uid-1" && a.Role == domain.RoleBusinessOwner
	})).Return(nil).Once()

	r := NewResolver(verifier, accounts, nil, quietLogger())

	acc, err := r.Register(context.Background(), "tok", "owner@example.com", domain.RoleBusinessOwner)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", acc.ID)

	_, err = r.Register(context.Background(), "tok", "owner@example.com", domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = r.Register(context.Background(), "tok", "owner@example.com", domain.Role("root"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = r.Register(context.Background(), "", "owner@example.com", domain.RoleCustomer)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	accounts.AssertExpectations(t)
}

func TestRegister_Duplicate(t *testing.T) {
	verifier := new(MockVerifier)
	accounts := new(MockAccountRepository)
	verifier.On("Verify", mock.Anything, "tok").Return("uid-1", nil)
	accounts.On("Create", mock.Anything, mock.Anything).Return(domain.Errorf(domain.ErrConflict, "account already exists"))

	r := NewResolver(verifier, accounts, nil, quietLogger())
	_, err := r.Register(context.Background(), "tok", "a@example.com", domain.RoleCustomer)

	assert.ErrorIs(t, err, domain.ErrConflict)
}

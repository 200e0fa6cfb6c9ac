package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"marketplace/internal/domain"
	"marketplace/internal/modules/gate"
	"marketplace/internal/modules/ownership"
)

type MockRegistrar struct {
	mock.Mock
}

func (m *MockRegistrar) Register(ctx context.Context, credential, email string, role domain.Role) (*domain.Account, error) {
	args := m.Called(ctx, credential, email, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

type MockAuthorizer struct {
	mock.Mock
}

func (m *MockAuthorizer) AuthenticateAndAuthorize(ctx context.Context, credential string, ref ownership.ResourceRef, roles ...domain.Role) (*gate.AuthorizedContext, error) {
	args := m.Called(ctx, credential, ref, roles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gate.AuthorizedContext), args.Error(1)
}

func (m *MockAuthorizer) Authenticate(ctx context.Context, credential string) (*gate.AuthorizedContext, error) {
	args := m.Called(ctx, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gate.AuthorizedContext), args.Error(1)
}

func (m *MockAuthorizer) RequireRole(ctx context.Context, credential string, roles ...domain.Role) (*gate.AuthorizedContext, error) {
	args := m.Called(ctx, credential, roles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gate.AuthorizedContext), args.Error(1)
}

func setupRouter(authz *MockAuthorizer, registrar *MockRegistrar) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(authz, registrar).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func performRequest(router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRegister(t *testing.T) {
	authz, registrar := new(MockAuthorizer), new(MockRegistrar)
	registrar.On("Register", mock.Anything, "tok", "alice@example.com", domain.RoleCustomer).
		Return(&domain.Account{ID: "uid-1", Email: "alice@example.com", Role: domain.RoleCustomer}, nil)

	resp := performRequest(setupRouter(authz, registrar), http.MethodPost, "/api/v1/accounts",
		gin.H{"email": "alice@example.com", "role": "customer"}, "tok")

	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Contains(t, resp.Body.String(), `"id":"uid-1"`)
}

func TestRegister_AdminRefused(t *testing.T) {
	authz, registrar := new(MockAuthorizer), new(MockRegistrar)
	registrar.On("Register", mock.Anything, "tok", "root@example.com", domain.RoleAdmin).
		Return(nil, domain.Errorf(domain.ErrForbidden, "admin accounts cannot be self-registered"))

	resp := performRequest(setupRouter(authz, registrar), http.MethodPost, "/api/v1/accounts",
		gin.H{"email": "root@example.com", "role": "admin"}, "tok")

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestRegister_UnknownRole(t *testing.T) {
	authz, registrar := new(MockAuthorizer), new(MockRegistrar)

	resp := performRequest(setupRouter(authz, registrar), http.MethodPost, "/api/v1/accounts",
		gin.H{"email": "a@example.com", "role": "superuser"}, "tok")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	registrar.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_Duplicate(t *testing.T) {
	authz, registrar := new(MockAuthorizer), new(MockRegistrar)
	registrar.On("Register", mock.Anything, "tok", "a@example.com", domain.RoleCustomer).
		Return(nil, domain.Errorf(domain.ErrConflict, "account already exists"))

	resp := performRequest(setupRouter(authz, registrar), http.MethodPost, "/api/v1/accounts",
		gin.H{"email": "a@example.com", "role": "customer"}, "tok")

	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestMe(t *testing.T) {
	authz, registrar := new(MockAuthorizer), new(MockRegistrar)
	acc := &domain.Account{ID: "uid-1", Email: "a@example.com", Role: domain.RoleBusinessOwner}
	authz.On("Authenticate", mock.Anything, "tok").Return(&gate.AuthorizedContext{Account: acc, Role: acc.Role}, nil)
	authz.On("Authenticate", mock.Anything, "").Return(nil, domain.ErrUnauthenticated)
	router := setupRouter(authz, registrar)

	resp := performRequest(router, http.MethodGet, "/api/v1/accounts/me", nil, "tok")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"role":"business-owner"`)

	resp = performRequest(router, http.MethodGet, "/api/v1/accounts/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

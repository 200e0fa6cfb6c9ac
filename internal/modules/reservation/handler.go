package reservation

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace/internal/domain"
	"marketplace/internal/middleware"
	"marketplace/internal/modules/gate"
	"marketplace/internal/modules/ownership"
	"marketplace/internal/pkg/response"
	"marketplace/internal/pkg/utils"
)

// Lifecycle is the part of Service the handler calls.
type Lifecycle interface {
	Create(ctx context.Context, customerID, offeringID string) (*domain.Reservation, error)
	Transition(ctx context.Context, reservationID string, cmd Command, actor *domain.Account) (*domain.Reservation, error)
	Get(ctx context.Context, id string) (*domain.Reservation, error)
	ListForCustomer(ctx context.Context, customerID string, limit, offset int) ([]domain.Reservation, error)
	ListForOffering(ctx context.Context, offeringID string, status domain.ReservationStatus, limit, offset int) ([]domain.Reservation, error)
}

type Handler struct {
	gate    gate.Authorizer
	service Lifecycle
}

func NewHandler(g gate.Authorizer, service Lifecycle) *Handler {
	return &Handler{gate: g, service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/offerings/:id/reservations", h.Create)
	rg.GET("/offerings/:id/reservations", h.ListForOffering)

	reservations := rg.Group("/reservations")
	{
		reservations.GET("", h.ListMine)
		reservations.GET("/:id", h.Get)
		reservations.POST("/:id/confirm", h.Confirm)
		reservations.POST("/:id/cancel", h.Cancel)
		reservations.POST("/:id/payment", h.CapturePayment)
	}
}

// Create handles POST /offerings/:id/reservations.
func (h *Handler) Create(c *gin.Context) {
	ac, err := h.gate.RequireRole(c.Request.Context(), middleware.BearerToken(c), domain.RoleCustomer)
	if err != nil {
		response.FromError(c, err)
		return
	}

	r, err := h.service.Create(c.Request.Context(), ac.AccountID(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"reservation": r})
}

// ListForOffering handles GET /offerings/:id/reservations for the venue owner.
func (h *Handler) ListForOffering(c *gin.Context) {
	offeringID := c.Param("id")
	status := domain.ReservationStatus(c.Query("status"))
	switch status {
	case "", domain.ReservationPending, domain.ReservationConfirmed, domain.ReservationCancelled:
	default:
		response.ValidationFailed(c, map[string]string{"status": "oneof"})
		return
	}
	page := utils.Pagination(c)

	if _, err := h.gate.AuthenticateAndAuthorize(c.Request.Context(), middleware.BearerToken(c), ownership.Offering(offeringID), domain.RoleBusinessOwner); err != nil {
		response.FromError(c, err)
		return
	}

	list, err := h.service.ListForOffering(c.Request.Context(), offeringID, status, page.Limit, page.Offset)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ListResponse{Reservations: list, Limit: page.Limit, Page: page.Page})
}

// ListMine handles GET /reservations: the caller's own reservations.
func (h *Handler) ListMine(c *gin.Context) {
	page := utils.Pagination(c)
	ac, err := h.gate.RequireRole(c.Request.Context(), middleware.BearerToken(c), domain.RoleCustomer)
	if err != nil {
		response.FromError(c, err)
		return
	}

	list, err := h.service.ListForCustomer(c.Request.Context(), ac.AccountID(), page.Limit, page.Offset)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ListResponse{Reservations: list, Limit: page.Limit, Page: page.Page})
}

// Get handles GET /reservations/:id for the customer who made it or the
// owner of its venue.
func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.gate.AuthenticateAndAuthorize(c.Request.Context(), middleware.BearerToken(c), ownership.Reservation(id), domain.RoleCustomer, domain.RoleBusinessOwner); err != nil {
		response.FromError(c, err)
		return
	}

	r, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": r})
}

func (h *Handler) Confirm(c *gin.Context) {
	h.transition(c, Command{Event: EventConfirm})
}

func (h *Handler) Cancel(c *gin.Context) {
	h.transition(c, Command{Event: EventCancel})
}

func (h *Handler) CapturePayment(c *gin.Context) {
	var req CapturePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, string(domain.KindValidation), "payment_ref is required")
		return
	}
	h.transition(c, Command{Event: EventCapturePayment, PaymentRef: req.PaymentRef})
}

func (h *Handler) transition(c *gin.Context, cmd Command) {
	id := c.Param("id")
	ac, err := h.gate.AuthenticateAndAuthorize(c.Request.Context(), middleware.BearerToken(c), ownership.Reservation(id), cmd.Event.Roles()...)
	if err != nil {
		response.FromError(c, err)
		return
	}

	r, err := h.service.Transition(c.Request.Context(), id, cmd, ac.Account)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": r})
}

package review

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace/internal/domain"
	"marketplace/internal/middleware"
	"marketplace/internal/modules/gate"
	"marketplace/internal/pkg/response"
	"marketplace/internal/pkg/utils"
)

type Reviews interface {
	Create(ctx context.Context, customerID, offeringID string, req CreateReviewRequest) (*domain.Review, error)
	Get(ctx context.Context, id string) (*domain.Review, error)
	ListByVenue(ctx context.Context, venueID string, limit, offset int) ([]domain.Review, error)
}

type Handler struct {
	gate    gate.Authorizer
	service Reviews
}

func NewHandler(g gate.Authorizer, service Reviews) *Handler {
	return &Handler{gate: g, service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/offerings/:id/reviews", h.Create)
	rg.GET("/venues/:id/reviews", h.ListByVenue)
	rg.GET("/reviews/:id", h.Get)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, string(domain.KindValidation), "rating must be between 1 and 5")
		return
	}

	ac, err := h.gate.RequireRole(c.Request.Context(), middleware.BearerToken(c), domain.RoleCustomer)
	if err != nil {
		response.FromError(c, err)
		return
	}

	rv, err := h.service.Create(c.Request.Context(), ac.AccountID(), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"review": rv})
}

func (h *Handler) ListByVenue(c *gin.Context) {
	page := utils.Pagination(c)
	if _, err := h.gate.Authenticate(c.Request.Context(), middleware.BearerToken(c)); err != nil {
		response.FromError(c, err)
		return
	}

	reviews, err := h.service.ListByVenue(c.Request.Context(), c.Param("id"), page.Limit, page.Offset)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reviews": reviews, "page": page.Page, "limit": page.Limit})
}

func (h *Handler) Get(c *gin.Context) {
	if _, err := h.gate.Authenticate(c.Request.Context(), middleware.BearerToken(c)); err != nil {
		response.FromError(c, err)
		return
	}

	rv, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"review": rv})
}

package catalog

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace/internal/domain"
	"marketplace/internal/middleware"
	"marketplace/internal/modules/gate"
	"marketplace/internal/modules/ownership"
	"marketplace/internal/pkg/response"
	"marketplace/internal/pkg/utils"
	"marketplace/internal/repository"
)

type Catalog interface {
	CreateVenue(ctx context.Context, ownerID string, req CreateVenueRequest) (*domain.Venue, error)
	GetVenue(ctx context.Context, id string) (*domain.Venue, error)
	UpdateVenue(ctx context.Context, id string, req UpdateVenueRequest) (*domain.Venue, error)
	ListVenues(ctx context.Context, f repository.VenueFilters) ([]domain.Venue, int64, error)
	CreateOffering(ctx context.Context, venueID string, req CreateOfferingRequest) (*domain.Offering, error)
	GetOffering(ctx context.Context, id string) (*domain.Offering, error)
	UpdateOffering(ctx context.Context, id string, req UpdateOfferingRequest) (*domain.Offering, error)
	ListOfferings(ctx context.Context, venueID string, from, to *time.Time, limit, offset int) ([]domain.Offering, error)
}

type Handler struct {
	gate    gate.Authorizer
	service Catalog
}

func NewHandler(g gate.Authorizer, service Catalog) *Handler {
	return &Handler{gate: g, service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	venues := rg.Group("/venues")
	{
		venues.GET("", h.ListVenues)
		venues.POST("", h.CreateVenue)
		venues.GET("/:id", h.GetVenue)
		venues.PATCH("/:id", h.UpdateVenue)
		venues.GET("/:id/offerings", h.ListOfferings)
		venues.POST("/:id/offerings", h.CreateOffering)
	}

	offerings := rg.Group("/offerings")
	{
		offerings.GET("/:id", h.GetOffering)
		offerings.PATCH("/:id", h.UpdateOffering)
	}
}

/* ---------- VENUE HANDLERS ---------- */

// ListVenues handles GET /venues?city=&owner=me.
func (h *Handler) ListVenues(c *gin.Context) {
	page := utils.Pagination(c)
	ac, err := h.gate.Authenticate(c.Request.Context(), middleware.BearerToken(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	f := repository.VenueFilters{City: c.Query("city"), Limit: page.Limit, Offset: page.Offset}
	if c.Query("owner") == "me" {
		f.OwnerID = ac.AccountID()
	}
	venues, total, err := h.service.ListVenues(c.Request.Context(), f)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, VenueListResponse{
		Venues:     venues,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: (int(total) + page.Limit - 1) / page.Limit,
	})
}

// CreateVenue handles POST /venues. The caller becomes the owner.
func (h *Handler) CreateVenue(c *gin.Context) {
	var req CreateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, string(domain.KindValidation), "Invalid request body")
		return
	}

	ac, err := h.gate.RequireRole(c.Request.Context(), middleware.BearerToken(c), domain.RoleBusinessOwner)
	if err != nil {
		response.FromError(c, err)
		return
	}

	v, err := h.service.CreateVenue(c.Request.Context(), ac.AccountID(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"venue": v})
}

func (h *Handler) GetVenue(c *gin.Context) {
	if _, err := h.gate.Authenticate(c.Request.Context(), middleware.BearerToken(c)); err != nil {
		response.FromError(c, err)
		return
	}

	v, err := h.service.GetVenue(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"venue": v})
}

func (h *Handler) UpdateVenue(c *gin.Context) {
	var req UpdateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, string(domain.KindValidation), "Invalid request body")
		return
	}

	id := c.Param("id")
	if _, err := h.gate.AuthenticateAndAuthorize(c.Request.Context(), middleware.BearerToken(c), ownership.Venue(id), domain.RoleBusinessOwner); err != nil {
		response.FromError(c, err)
		return
	}

	v, err := h.service.UpdateVenue(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"venue": v})
}

/* ---------- OFFERING HANDLERS ---------- */

// ListOfferings handles GET /venues/:id/offerings?from=&to= (RFC 3339).
func (h *Handler) ListOfferings(c *gin.Context) {
	from, err := utils.QueryTime(c, "from")
	if err != nil {
		response.FromError(c, err)
		return
	}
	to, err := utils.QueryTime(c, "to")
	if err != nil {
		response.FromError(c, err)
		return
	}
	page := utils.Pagination(c)

	if _, err := h.gate.Authenticate(c.Request.Context(), middleware.BearerToken(c)); err != nil {
		response.FromError(c, err)
		return
	}

	list, err := h.service.ListOfferings(c.Request.Context(), c.Param("id"), from, to, page.Limit, page.Offset)
	if err != nil {
		response.FromError(c, err)
		return
	}
	out := make([]OfferingResponse, 0, len(list))
	for _, o := range list {
		out = append(out, toOfferingResponse(o))
	}
	response.Success(c, http.StatusOK, gin.H{"offerings": out, "page": page.Page, "limit": page.Limit})
}

// CreateOffering handles POST /venues/:id/offerings for the venue owner.
func (h *Handler) CreateOffering(c *gin.Context) {
	var req CreateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, string(domain.KindValidation), "Invalid request body")
		return
	}

	venueID := c.Param("id")
	if _, err := h.gate.AuthenticateAndAuthorize(c.Request.Context(), middleware.BearerToken(c), ownership.Venue(venueID), domain.RoleBusinessOwner); err != nil {
		response.FromError(c, err)
		return
	}

	o, err := h.service.CreateOffering(c.Request.Context(), venueID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"offering": toOfferingResponse(*o)})
}

func (h *Handler) GetOffering(c *gin.Context) {
	if _, err := h.gate.Authenticate(c.Request.Context(), middleware.BearerToken(c)); err != nil {
		response.FromError(c, err)
		return
	}

	o, err := h.service.GetOffering(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"offering": toOfferingResponse(*o)})
}

func (h *Handler) UpdateOffering(c *gin.Context) {
	var req UpdateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, string(domain.KindValidation), "Invalid request body")
		return
	}

	id := c.Param("id")
	if _, err := h.gate.AuthenticateAndAuthorize(c.Request.Context(), middleware.BearerToken(c), ownership.Offering(id), domain.RoleBusinessOwner); err != nil {
		response.FromError(c, err)
		return
	}

	o, err := h.service.UpdateOffering(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"offering": toOfferingResponse(*o)})
}

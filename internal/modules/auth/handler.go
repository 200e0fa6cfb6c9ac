package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace/internal/domain"
	"marketplace/internal/middleware"
	"marketplace/internal/modules/gate"
	"marketplace/internal/pkg/response"
)

// Handler covers signup and "who am I". Credentials are issued elsewhere;
// signing up binds a verified credential subject to an account and role.
type Handler struct {
	gate      gate.Authorizer
	registrar Registrar
}

func NewHandler(g gate.Authorizer, registrar Registrar) *Handler {
	return &Handler{gate: g, registrar: registrar}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.Register)
		accounts.GET("/me", h.Me)
	}
}

// Register handles POST /accounts.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, string(domain.KindValidation), "email and a valid role are required")
		return
	}

	acc, err := h.registrar.Register(c.Request.Context(), middleware.BearerToken(c), req.Email, domain.Role(req.Role))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"account": acc})
}

// Me handles GET /accounts/me.
func (h *Handler) Me(c *gin.Context) {
	ac, err := h.gate.Authenticate(c.Request.Context(), middleware.BearerToken(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"account": ac.Account})
}

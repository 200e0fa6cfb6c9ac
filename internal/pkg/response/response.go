package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace/internal/domain"
)

// HideForbiddenKey is the gin context key that, when true, makes FromError
// answer 404 for ownership denials so callers cannot probe for existence.
const HideForbiddenKey = "hide_forbidden"

func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// ValidationFailed answers 400 with per-field details.
func ValidationFailed(c *gin.Context, details map[string]string) {
	ErrorWithDetails(c, http.StatusBadRequest, string(domain.KindValidation), "Invalid request", details)
}

// FromError writes the envelope for err. Unclassified errors become a 500
// and are attached to the context for the error logger.
func FromError(c *gin.Context, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	status := StatusFor(de.Kind)
	kind, message := de.Kind, de.Message
	if kind == domain.KindForbidden && c.GetBool(HideForbiddenKey) {
		status, kind, message = http.StatusNotFound, domain.KindNotFound, domain.ErrNotFound.Message
	}
	Error(c, status, string(kind), message)
}

func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindUnauthenticated, domain.KindAccountNotFound:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindCapacityExceeded, domain.KindInvalidTransition, domain.KindConflict:
		return http.StatusConflict
	case domain.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

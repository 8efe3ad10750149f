package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/velmark/shopfront/internal/cache"
	"github.com/velmark/shopfront/internal/domain"
	"github.com/velmark/shopfront/internal/usecase"
	"github.com/velmark/shopfront/pkg/validate"
)

// writeError — единая трансляция доменных ошибок в HTTP-коды.
// Сообщение конфликта (409) отдаётся дословно: админка показывает его как есть.
func (h *Handler) writeError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	switch {
	case errors.Is(err, validate.ErrInvalidCheckout),
		errors.Is(err, validate.ErrInvalidProduct),
		errors.Is(err, validate.ErrInvalidStatusUpdate),
		errors.Is(err, usecase.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})

	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, cache.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data temporarily unavailable, try again later"})

	default:
		h.log.Errorf(ctx, "unhandled error path=%s err=%v", c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

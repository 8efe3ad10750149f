package rest

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/velmark/shopfront/pkg/ctxmeta"
)

// userAuth — аутентификация делегирована шлюзу: доверяем заголовку
// X-User-ID. Пустой заголовок → 401, идентификатор уходит в контекст.
func userAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		ctx := ctxmeta.WithUserID(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// adminAuth — сервисный токен бэк-офиса из конфигурации.
// Нет заголовка → 401, неверный токен → 403.
func adminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader("X-Admin-Token")
		if got == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin token required"})
			return
		}
		if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access denied"})
			return
		}
		c.Next()
	}
}

// withTimeout — бюджет времени обработчика через контекст запроса.
func withTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// userID — идентификатор пользователя из контекста (ставится userAuth).
func userID(c *gin.Context) string {
	id, _ := ctxmeta.UserIDFromContext(c.Request.Context())
	return id
}

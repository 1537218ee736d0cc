package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/subs/backend/internal/apperr"
	"github.com/emilythestrangee/subs/backend/internal/auth"
	"github.com/emilythestrangee/subs/backend/internal/models"
)

const (
	// TokenCookie carries the session token set at login.
	TokenCookie = "token"

	userKey = "user"
)

type UserFinder interface {
	FindUserByID(ctx context.Context, id int) (*models.User, error)
}

// UserMiddleware resolves the session token, if any, to a user and stores it
// on the context. Requests without a token pass through anonymously.
func UserMiddleware(tokens *auth.Tokens, users UserFinder, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFrom(c)
		if raw == "" {
			c.Next()
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		user, err := users.FindUserByID(c.Request.Context(), claims.UserID)
		if errors.Is(err, apperr.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}
		if err != nil {
			logger.Error("resolve session user", "error", err, "user_id", claims.UserID)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// AuthMiddleware rejects requests UserMiddleware did not attach a user to.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the viewer of the request, if there is one.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

func tokenFrom(c *gin.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

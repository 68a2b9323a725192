package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"booking-orchestrator/internal/handler/httperr"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/usecase"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserIDKey           = "user_id"
	ctxPlatformClientIDKey = "platform_client_id"

	PlatformClientIDHeader = "X-Platform-Client-Id"
)

var (
	errTokenRequired = errs.New("access token required")
	errTokenInvalid  = errs.New("invalid or expired token")
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errTokenRequired, "Access token required", nil)
			return
		}

		userID, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			httperr.AbortWithError(c, http.StatusUnauthorized, errs.Mark(err, errTokenInvalid), "Invalid or expired token", nil)
			return
		}

		c.Set(ctxUserIDKey, userID)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and never aborts.
// Anonymous bookers are the common case.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if clientID := strings.TrimSpace(c.GetHeader(PlatformClientIDHeader)); clientID != "" {
			c.Set(ctxPlatformClientIDKey, clientID)
		}

		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}
		userID, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Debug("ignoring invalid token on optional auth route", "error", err.Error())
			c.Next()
			return
		}
		c.Set(ctxUserIDKey, userID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

func GetUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get(ctxUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(int64)
	return id, ok
}

func GetPlatformClientID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxPlatformClientIDKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

package middleware

import (
	"log/slog"
	"net/http"
	"slices"

	"booking-orchestrator/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	IdempotencyKeyHeader     = "Idempotency-Key"
	IdempotentReplayedHeader = "Idempotent-Replayed"
)

// NewCORSMiddleware applies the configured policy. Booking clients always need to send the platform and
// idempotency headers and read the replay marker, so those are added even when the env list omits them.
func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     withValues(cfg.AllowMethods, http.MethodGet, http.MethodPost, http.MethodOptions),
		AllowHeaders:     withValues(cfg.AllowHeaders, "Authorization", "Content-Type", PlatformClientIDHeader, IdempotencyKeyHeader),
		ExposeHeaders:    withValues(cfg.ExposeHeaders, IdempotentReplayedHeader),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	slog.Info("CORS middleware initialized",
		"allow_origins", corsCfg.AllowOrigins,
		"allow_headers", corsCfg.AllowHeaders,
		"expose_headers", corsCfg.ExposeHeaders)
	return cors.New(corsCfg)
}

func withValues(configured []string, required ...string) []string {
	out := slices.Clone(configured)
	for _, v := range required {
		if !slices.ContainsFunc(out, func(c string) bool { return http.CanonicalHeaderKey(c) == http.CanonicalHeaderKey(v) }) {
			out = append(out, v)
		}
	}
	return out
}

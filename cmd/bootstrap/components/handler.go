package components

import (
	"booking-orchestrator/internal/handler"
	"booking-orchestrator/internal/handler/api"
	"booking-orchestrator/internal/handler/middleware"
	"booking-orchestrator/internal/pkg/config"
	"booking-orchestrator/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		newEngine,
		api.NewBookingHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

// newEngine skips gin's default logger and recovery; the router installs its own.
func newEngine(cfg config.Config) (*gin.Engine, error) {
	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	// nil disables X-Forwarded-For trust entirely
	if err := engine.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, errs.Wrap(err, "invalid TRUSTED_PROXIES")
	}
	return engine, nil
}

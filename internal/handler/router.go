package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"booking-orchestrator/internal/handler/api"
	"booking-orchestrator/internal/handler/httperr"
	"booking-orchestrator/internal/handler/middleware"
	"booking-orchestrator/internal/pkg/config"
	"booking-orchestrator/internal/pkg/errs"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

var errRouteNotFound = errs.New("route not found")

func NewRouter(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, bookingHandler *api.BookingHandler, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, bookingHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// request id first so a recovered panic can still report it
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, bookingHandler *api.BookingHandler, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	engine.NoRoute(func(c *gin.Context) {
		httperr.AbortWithCode(c, http.StatusNotFound, errRouteNotFound, "route_not_found", "Route not found", nil)
	})

	apiGroup := engine.Group("/api")
	{
		bookings := apiGroup.Group("/bookings")
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.Create, Mw: []gin.HandlerFunc{authMiddleware.OptionalAuth()}},
				{Method: http.MethodGet, Path: "", Handler: bookingHandler.List, Mw: []gin.HandlerFunc{authMiddleware.RequireAuth()}},
				{Method: http.MethodGet, Path: "/:uid", Handler: bookingHandler.Get},
			})
		}
	}
}

// @Summary Health check
// @Description Liveness probe for the booking API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "booking-orchestrator",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		handlers := append(append([]gin.HandlerFunc{}, r.Mw...), r.Handler)
		g.Handle(r.Method, r.Path, handlers...)
	}
}

package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/focusroom/focusroom/internal/config"
	"github.com/focusroom/focusroom/internal/core"
	"github.com/focusroom/focusroom/internal/store"
)

// NewServer builds the HTTP server: REST API, health check and the
// WebSocket room endpoint.
func NewServer(hub *core.Hub, st store.Store, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, logger, cfg.WSEventsPerMinute, cfg.MaxMessageBytes)))

	userHandlers := NewUserHandlers(st, logger)
	intervalHandlers := NewIntervalHandlers(st, logger)

	api := router.Group("/api")
	{
		api.POST("/user", userHandlers.CreateUser)
		api.GET("/user/:id", userHandlers.GetUser)
		api.DELETE("/user/:id", userHandlers.DeleteUser)
		api.PATCH("/user/:id/settings", userHandlers.EditSettings)
		api.GET("/users/:ids", userHandlers.GetUsers)

		api.POST("/interval", intervalHandlers.StartInterval)
		api.POST("/interval/:id/end", intervalHandlers.EndInterval)
		api.PATCH("/interval/:id", intervalHandlers.EditInterval)
		api.DELETE("/interval/:id", intervalHandlers.DeleteInterval)
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

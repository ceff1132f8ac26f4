// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"charterdesk/internal/http/handlers"
	"charterdesk/internal/http/middleware"
	"charterdesk/internal/infra"
	"charterdesk/internal/metrics"
	"charterdesk/internal/service"
	"charterdesk/internal/tools"
)

type RouterDeps struct {
	Concierge *service.Concierge
	Toolbox   *tools.Toolbox
	Metrics   *metrics.Metrics
	// Verifier is optional; nil selects header-based roles.
	Verifier infra.TokenVerifier
	Logger   *zap.Logger
}

func NewRouter(d RouterDeps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.Logging(logger))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	api := r.Group("/api", middleware.Auth(d.Verifier))

	conv := handlers.NewConversationHandler(d.Concierge)
	api.POST("/conversations", conv.Create)
	api.POST("/conversations/:id/messages", conv.Send)
	api.GET("/conversations/:id", conv.Get)
	api.DELETE("/conversations/:id", conv.Delete)

	tl := handlers.NewToolsHandler(d.Toolbox)
	api.GET("/tools", tl.List)
	api.POST("/tools/:name", tl.Invoke)

	return r
}

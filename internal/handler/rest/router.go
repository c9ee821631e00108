package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/webitel/video-exporter/internal/locale"
	"github.com/webitel/video-exporter/internal/metrics"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type RouterConfig struct {
	AdminToken string
	Metrics    *metrics.HTTPMetrics
	Gatherer   prometheus.Gatherer
	Health     map[string]HealthCheck
	// Translator localizes editor-facing messages; the embedded bundle when nil.
	Translator *locale.Translator
}

// NewRouter builds the engine with the unauthenticated operational routes
// and returns it along with the admin API group.
func NewRouter(cfg RouterConfig) (*gin.Engine, *gin.RouterGroup) {
	engine := gin.New()
	tr := cfg.Translator
	if tr == nil {
		tr = locale.MustNew()
	}
	engine.Use(Localize(tr), Recovery())
	if cfg.Metrics != nil {
		engine.Use(cfg.Metrics.Middleware())
	}

	engine.GET("/healthz", healthHandler(cfg.Health))
	if cfg.Gatherer != nil {
		engine.GET("/metrics", metrics.Handler(cfg.Gatherer))
	}

	api := engine.Group("/api", AdminAuth(cfg.AdminToken))
	return engine, api
}

func (h *ExportHandler) Register(api *gin.RouterGroup) {
	api.POST("/posts/:id/export", h.Export)
	api.GET("/posts/:id/export", h.GetExportStatus)
	api.GET("/errors", h.ListErrors)
}

func (h *SettingsHandler) Register(api *gin.RouterGroup) {
	api.GET("/settings", h.Get)
	api.PUT("/settings", h.Update)
}

func healthHandler(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		code := http.StatusOK
		result := gin.H{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				code = http.StatusServiceUnavailable
				result[name] = err.Error()
				continue
			}
			result[name] = "ok"
		}
		c.JSON(code, gin.H{"status": http.StatusText(code), "checks": result})
	}
}

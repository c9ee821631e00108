package app

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/webitel/video-exporter/internal/handler/rest"
)

// routeRegistration holds information for initializing and mounting one HTTP handler.
type routeRegistration struct {
	init     func(*App) (any, error)            // Initialization function for *App
	register func(api *gin.RouterGroup, h any) // Mounts the handler's routes
	name     string                             // Handler name for logging
}

// RegisterRoutes initializes all admin API handlers and mounts them on api.
func RegisterRoutes(api *gin.RouterGroup, appInstance *App) {
	routes := []routeRegistration{
		{
			init:     func(a *App) (any, error) { return rest.NewExportHandler(a.exportService) },
			register: func(g *gin.RouterGroup, h any) { h.(*rest.ExportHandler).Register(g) },
			name:     "Export",
		},
		{
			init:     func(a *App) (any, error) { return rest.NewSettingsHandler(a.settingsService) },
			register: func(g *gin.RouterGroup, h any) { h.(*rest.SettingsHandler).Register(g) },
			name:     "Settings",
		},
	}

	for _, route := range routes {
		h, err := route.init(appInstance)
		if err != nil {
			slog.Error("video_exporter.app.handler_init_failed", slog.String("handler", route.name), slog.String("error", err.Error()))
			continue
		}
		route.register(api, h)
		slog.Info("video_exporter.app.handler_registered", slog.String("handler", route.name))
	}
}

package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/webitel/video-exporter/internal/errors"
	"github.com/webitel/video-exporter/internal/model"
	"github.com/webitel/video-exporter/internal/service"
)

type SettingsHandler struct {
	service service.SettingsService
}

func NewSettingsHandler(svc service.SettingsService) (*SettingsHandler, error) {
	if svc == nil {
		return nil, errors.Internal("SettingsService is nil")
	}
	return &SettingsHandler{service: svc}, nil
}

func (h *SettingsHandler) Get(c *gin.Context) {
	view, err := h.service.GetSettings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *SettingsHandler) Update(c *gin.Context) {
	var req model.SettingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.BadRequest("invalid settings body",
			errors.WithID("api.settings.body"),
			errors.WithCause(err),
		))
		return
	}

	view, err := h.service.UpdateSettings(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

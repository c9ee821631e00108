package rest

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/webitel/video-exporter/internal/errors"
	"github.com/webitel/video-exporter/internal/model"
	"github.com/webitel/video-exporter/internal/service"
)

const (
	submittedMessageID = "export.submitted"
	submittedMessage   = "Your post has been successfully sent for video generation. Export ID: %s"
)

type ExportResponse struct {
	Status   model.ExportStatus `json:"status"`
	ExportID string             `json:"export_id"`
	Message  string             `json:"message"`
}

type ErrorLogResponse struct {
	Data []model.ErrorLogEntry `json:"data"`
}

type ExportHandler struct {
	service service.ExportService
}

func NewExportHandler(svc service.ExportService) (*ExportHandler, error) {
	if svc == nil {
		return nil, errors.Internal("ExportService is nil")
	}
	return &ExportHandler{service: svc}, nil
}

// Export handles POST /api/posts/:id/export.
func (h *ExportHandler) Export(c *gin.Context) {
	postID, err := postIDParam(c)
	if err != nil {
		writeError(c, err)
		return
	}

	res, err := h.service.Export(c.Request.Context(), postID)
	if err != nil {
		writeError(c, err)
		return
	}

	exportID := res.ExportID
	if exportID == "" {
		exportID = "N/A"
	}
	message := translator(c)(submittedMessageID, map[string]interface{}{"ExportID": exportID})
	if message == submittedMessageID {
		message = fmt.Sprintf(submittedMessage, exportID)
	}
	c.JSON(http.StatusOK, ExportResponse{
		Status:   res.Status,
		ExportID: res.ExportID,
		Message:  message,
	})
}

// GetExportStatus handles GET /api/posts/:id/export.
func (h *ExportHandler) GetExportStatus(c *gin.Context) {
	postID, err := postIDParam(c)
	if err != nil {
		writeError(c, err)
		return
	}

	rec, err := h.service.GetExportStatus(c.Request.Context(), postID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// ListErrors handles GET /api/errors.
func (h *ExportHandler) ListErrors(c *gin.Context) {
	entries, err := h.service.ListErrors(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ErrorLogResponse{Data: entries})
}

func postIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.BadRequest("invalid post id", errors.WithID("api.params.post_id"))
	}
	return id, nil
}

package handler

import (
	"fmt"
	"net/http"

	"testcase-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler HTTP handler for spreadsheet export
type ExportHandler struct {
	service service.ExportService
}

// NewExportHandler creates a new handler
func NewExportHandler(svc service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// RegisterRoutes registers export routes
func (h *ExportHandler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/test-cases/export", h.Export)
}

// exportRequest selects the variant and the filter set to export.
type exportRequest struct {
	Type    string         `json:"type"`
	Filters service.Filter `json:"filters"`
}

// Export streams the filtered record set as an xlsx attachment.
func (h *ExportHandler) Export(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.service.Export(req.Type, req.Filters)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, xlsxContentType, doc.Content)
}

package handler

import (
	"net/http"

	"testcase-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ImportHandler HTTP handler for bulk spreadsheet import
type ImportHandler struct {
	service service.ImportService
}

// NewImportHandler creates a new handler
func NewImportHandler(svc service.ImportService) *ImportHandler {
	return &ImportHandler{service: svc}
}

// RegisterRoutes registers import routes
func (h *ImportHandler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/seed/upload-excel-file", h.Upload)
}

// Upload expects a multipart form with "file" (the xlsx) and "model"
// ("xpsTestCase" or "eMemberTestCase").
func (h *ImportHandler) Upload(c *gin.Context) {
	model := c.PostForm("model")
	fileHeader, err := c.FormFile("file")
	if err != nil || model == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file or model field"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer file.Close()

	rows, err := h.service.Import(model, file)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "upload and seeding completed",
		"rows":    rows,
	})
}

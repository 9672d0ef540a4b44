package handler

import (
	"io"
	"net/http"

	"testcase-tracker/internal/models"
	"testcase-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ScreenshotHandler HTTP handlers for screenshot attachments
type ScreenshotHandler struct {
	service service.ScreenshotService
}

// NewScreenshotHandler creates a new handler
func NewScreenshotHandler(svc service.ScreenshotService) *ScreenshotHandler {
	return &ScreenshotHandler{service: svc}
}

// RegisterRoutes registers screenshot routes for both variants
func (h *ScreenshotHandler) RegisterRoutes(r *gin.Engine) {
	for _, variant := range []string{models.VariantXPS, models.VariantEMember} {
		group := r.Group("/api/test-cases/" + variant + "/screenshots")
		v := variant
		group.POST("", func(c *gin.Context) { h.upload(c, v) })
		group.DELETE("", func(c *gin.Context) { h.remove(c, v) })
		group.GET("", func(c *gin.Context) { h.list(c, v) })
	}
}

// upload expects a multipart form with "file", "id" (internal record id) and
// "testCaseId" (the human-assigned case identifier).
func (h *ScreenshotHandler) upload(c *gin.Context, variant string) {
	id := c.PostForm("id")
	testCaseID := c.PostForm("testCaseId")
	fileHeader, err := c.FormFile("file")
	if err != nil || id == "" || testCaseID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields: file, testCaseId, or id"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	path, err := h.service.Add(variant, id, testCaseID, contentType, fileHeader.Size, data)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"screenshotPath": path,
	})
}

func (h *ScreenshotHandler) remove(c *gin.Context, variant string) {
	id := c.Query("id")
	filename := c.Query("filename")
	if id == "" || filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields: id or filename"})
		return
	}

	if err := h.service.Remove(variant, id, filename); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ScreenshotHandler) list(c *gin.Context, variant string) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field: id"})
		return
	}

	screenshots, err := h.service.List(variant, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"screenshots": screenshots})
}

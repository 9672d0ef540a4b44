package handler

import (
	"errors"
	"net/http"

	"testcase-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrImport):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// TestCaseHandler HTTP handlers for test case CRUD and statistics
type TestCaseHandler struct {
	service service.TestCaseService
	stats   service.StatsService
}

// NewTestCaseHandler creates a new handler
func NewTestCaseHandler(svc service.TestCaseService, stats service.StatsService) *TestCaseHandler {
	return &TestCaseHandler{service: svc, stats: stats}
}

// RegisterRoutes registers test case routes
func (h *TestCaseHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/test-cases")
	{
		api.GET("/xps", h.ListXPS)
		api.POST("/xps", h.CreateXPS)
		api.PUT("/xps", h.UpdateXPS)
		api.GET("/xps/stats", h.XPSStats)

		api.GET("/emember", h.ListEMember)
		api.POST("/emember", h.CreateEMember)
		api.PUT("/emember", h.UpdateEMember)
		api.GET("/emember/stats", h.EMemberStats)
	}
}

// updatePayload carries the internal record id alongside the partial update.
type updatePayload struct {
	ID string `json:"id"`
	service.UpdateTestCaseRequest
}

// ===== XPS =====

func (h *TestCaseHandler) ListXPS(c *gin.Context) {
	var f service.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tcs, err := h.service.ListXPS(f)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"testCases": tcs,
		"count":     len(tcs),
	})
}

func (h *TestCaseHandler) CreateXPS(c *gin.Context) {
	var req service.CreateTestCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tc, err := h.service.CreateXPS(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"testCase": tc})
}

func (h *TestCaseHandler) UpdateXPS(c *gin.Context) {
	var payload updatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if payload.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "test case ID is required"})
		return
	}

	tc, err := h.service.UpdateXPS(payload.ID, &payload.UpdateTestCaseRequest)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"testCase": tc})
}

func (h *TestCaseHandler) XPSStats(c *gin.Context) {
	stats, err := h.stats.XPSStats()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// ===== eMember =====

func (h *TestCaseHandler) ListEMember(c *gin.Context) {
	var f service.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tcs, err := h.service.ListEMember(f)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"testCases": tcs,
		"count":     len(tcs),
	})
}

func (h *TestCaseHandler) CreateEMember(c *gin.Context) {
	var req service.CreateTestCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tc, err := h.service.CreateEMember(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"testCase": tc})
}

func (h *TestCaseHandler) UpdateEMember(c *gin.Context) {
	var payload updatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if payload.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "test case ID is required"})
		return
	}

	tc, err := h.service.UpdateEMember(payload.ID, &payload.UpdateTestCaseRequest)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"testCase": tc})
}

func (h *TestCaseHandler) EMemberStats(c *gin.Context) {
	stats, err := h.stats.EMemberStats()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brandkit/logodex/internal/querygen"
	"github.com/brandkit/logodex/internal/service"
)

// LogoHandler handles logo CRUD endpoints.
type LogoHandler struct {
	ingestService *service.IngestService
}

// NewLogoHandler creates a new logo management handler.
// Parameters:
//   - ingestService: ingest service owning logo metadata operations.
// Returns:
//   - *LogoHandler: initialized handler.
func NewLogoHandler(ingestService *service.IngestService) *LogoHandler {
	return &LogoHandler{
		ingestService: ingestService,
	}
}

// DeleteBatchRequest carries the IDs for a batch deletion.
type DeleteBatchRequest struct {
	LogoIDs []string `json:"logo_ids" binding:"required"`
}

// List handles GET /admin/logos. Pages with an opaque offset token and
// optionally filters by logo type, theme, and shape.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *LogoHandler) List(c *gin.Context) {
	limit := intQuery(c, "limit", 20)
	offset := c.Query("offset")
	filter := querygen.BuildFilter(c.Query("logo_type"), c.Query("theme"), c.Query("shape"))

	logos, next, err := h.ingestService.ListLogos(c.Request.Context(), limit, offset, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list logos: " + err.Error(),
		})
		return
	}

	total, err := h.ingestService.CountLogos(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to count logos: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logos":       logos,
		"total":       total,
		"limit":       limit,
		"offset":      offset,
		"next_offset": next,
	})
}

// Get handles GET /admin/logos/:id.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *LogoHandler) Get(c *gin.Context) {
	logoID := c.Param("id")

	logo, err := h.ingestService.GetLogo(c.Request.Context(), logoID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get logo: " + err.Error(),
		})
		return
	}
	if logo == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Logo " + logoID + " not found",
		})
		return
	}

	c.JSON(http.StatusOK, logo)
}

// Update handles PATCH /admin/logos/:id. Only provided fields are updated;
// the description and its embedding are immutable.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *LogoHandler) Update(c *gin.Context) {
	logoID := c.Param("id")

	var update service.LogoUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	logo, err := h.ingestService.UpdateLogo(c.Request.Context(), logoID, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update logo: " + err.Error(),
		})
		return
	}
	if logo == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Logo " + logoID + " not found",
		})
		return
	}

	c.JSON(http.StatusOK, logo)
}

// Delete handles DELETE /admin/logos/:id.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *LogoHandler) Delete(c *gin.Context) {
	logoID := c.Param("id")

	found, err := h.ingestService.DeleteLogo(c.Request.Context(), logoID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete logo: " + err.Error(),
		})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Logo " + logoID + " not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"deleted_ids": []string{logoID},
	})
}

// DeleteBatch handles POST /admin/logos/delete-batch. Continues past
// individual failures and reports them per logo.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *LogoHandler) DeleteBatch(c *gin.Context) {
	var req DeleteBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	if len(req.LogoIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No logo IDs provided"})
		return
	}
	if len(req.LogoIDs) > maxBatchSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Maximum 100 logos per batch deletion"})
		return
	}

	c.JSON(http.StatusOK, h.ingestService.DeleteLogos(c.Request.Context(), req.LogoIDs))
}

// intQuery parses an integer query parameter, falling back to a default.
func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	var v int
	if _, err := fmt.Sscanf(raw, "%d", &v); err != nil || v <= 0 {
		return fallback
	}
	return v
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brandkit/logodex/internal/audit"
	"github.com/brandkit/logodex/internal/repository"
	"github.com/brandkit/logodex/internal/service"
	"github.com/brandkit/logodex/internal/svg"
)

// maxBatchSize caps the number of logos per batch operation.
const maxBatchSize = 100

// AdminHandler handles logo ingestion and SVG utility endpoints.
type AdminHandler struct {
	ingestService *service.IngestService
	batchService  *service.BatchService
	auditRepo     *repository.AuditRepository
	trail         *audit.Trail
}

// NewAdminHandler creates a new admin handler.
// Parameters:
//   - ingestService: single-logo ingestion service.
//   - batchService: batch ingestion service.
//   - auditRepo: audit record store, may be nil.
//   - trail: audit trail for SVG utility operations.
// Returns:
//   - *AdminHandler: initialized handler.
func NewAdminHandler(ingestService *service.IngestService, batchService *service.BatchService, auditRepo *repository.AuditRepository, trail *audit.Trail) *AdminHandler {
	return &AdminHandler{
		ingestService: ingestService,
		batchService:  batchService,
		auditRepo:     auditRepo,
		trail:         trail,
	}
}

// BatchIngestRequest carries the logos for a batch ingestion job.
type BatchIngestRequest struct {
	Logos []service.IngestRequest `json:"logos"`
}

// SanitizeRequest carries the SVG for sanitization or validation.
type SanitizeRequest struct {
	SVG string `json:"svg" binding:"required"`
}

// Ingest handles POST /admin/ingest. Pipeline failures are reported in the
// response body with success=false, not as HTTP errors.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AdminHandler) Ingest(c *gin.Context) {
	var req service.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, h.ingestService.IngestLogo(c.Request.Context(), req))
}

// CreateBatch handles POST /admin/ingest/batch. Returns a batch ID for
// status polling; processing happens in the background.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AdminHandler) CreateBatch(c *gin.Context) {
	var req BatchIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	if len(req.Logos) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No logos provided"})
		return
	}
	if len(req.Logos) > maxBatchSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Maximum 100 logos per batch"})
		return
	}

	batch := h.batchService.CreateBatch(c.Request.Context(), req.Logos)

	c.JSON(http.StatusOK, gin.H{
		"batch_id": batch.ID,
		"total":    batch.Total,
		"status":   batch.Status,
	})
}

// GetBatchStatus handles GET /admin/ingest/batch/:id.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AdminHandler) GetBatchStatus(c *gin.Context) {
	batchID := c.Param("id")
	batch := h.batchService.GetBatch(batchID)
	if batch == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Batch job " + batchID + " not found",
		})
		return
	}

	c.JSON(http.StatusOK, batch)
}

// ListBatches handles GET /admin/ingest/batch.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AdminHandler) ListBatches(c *gin.Context) {
	limit := intQuery(c, "limit", 20)
	if limit > maxBatchSize {
		limit = maxBatchSize
	}

	c.JSON(http.StatusOK, h.batchService.ListBatches(limit))
}

// ListBatchHistory handles GET /admin/ingest/history. Unlike the live batch
// list this reads the durable records, which survive restarts.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AdminHandler) ListBatchHistory(c *gin.Context) {
	limit := intQuery(c, "limit", 20)

	records, err := h.batchService.ListHistory(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list batch history: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, records)
}

// ListAuditLog handles GET /admin/audit. Supports filtering by resource ID.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AdminHandler) ListAuditLog(c *gin.Context) {
	if h.auditRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Audit log persistence is not configured",
		})
		return
	}

	limit := intQuery(c, "limit", 50)
	if limit > 500 {
		limit = 500
	}

	var err error
	var records interface{}
	if resourceID := c.Query("resource_id"); resourceID != "" {
		records, err = h.auditRepo.ListByResource(c.Request.Context(), resourceID, limit)
	} else {
		records, err = h.auditRepo.ListRecent(c.Request.Context(), limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list audit records: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, records)
}

// Sanitize handles POST /admin/sanitize. Sanitization failures are reported
// in the response body; the endpoint itself always answers 200 for a valid
// request.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AdminHandler) Sanitize(c *gin.Context) {
	var req SanitizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	sanitized, err := svg.Sanitize(req.SVG)
	if err != nil {
		var sanitizationErr *svg.SanitizationError
		if !errors.As(err, &sanitizationErr) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		h.trail.Record(c.Request.Context(), audit.Entry{
			Action:       audit.ActionSVGSanitized,
			ResourceType: "svg",
			Success:      false,
			Error:        err.Error(),
		})
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	h.trail.Record(c.Request.Context(), audit.Entry{
		Action:       audit.ActionSVGSanitized,
		ResourceType: "svg",
		Success:      true,
	})

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"sanitized_svg": sanitized,
		"validation":    svg.Validate(sanitized),
	})
}

// Validate handles POST /admin/validate. Checks structure without
// sanitizing.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *AdminHandler) Validate(c *gin.Context) {
	var req SanitizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, svg.Validate(req.SVG))
}

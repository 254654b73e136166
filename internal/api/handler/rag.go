package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brandkit/logodex/internal/service"
)

// RAGHandler handles similarity search endpoints.
type RAGHandler struct {
	queryService *service.QueryService
}

// NewRAGHandler creates a new RAG handler.
// Parameters:
//   - queryService: similarity query service instance.
// Returns:
//   - *RAGHandler: initialized handler.
func NewRAGHandler(queryService *service.QueryService) *RAGHandler {
	return &RAGHandler{
		queryService: queryService,
	}
}

// Status handles GET /rag/status.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *RAGHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"configured": h.queryService.IsConfigured(),
		"logo_count": h.queryService.Count(c.Request.Context()),
	})
}

// FindSimilar handles POST /rag/similar.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *RAGHandler) FindSimilar(c *gin.Context) {
	var req service.SimilarityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, h.queryService.FindSimilar(c.Request.Context(), req))
}

// FindSimilarGet handles GET /rag/similar for simple queries without a POST
// body.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *RAGHandler) FindSimilarGet(c *gin.Context) {
	req := service.SimilarityRequest{
		Query:    c.Query("query"),
		LogoType: c.Query("logo_type"),
		Theme:    c.Query("theme"),
		Shape:    c.Query("shape"),
	}

	if nResults := c.Query("n_results"); nResults != "" {
		var n int
		if _, err := fmt.Sscanf(nResults, "%d", &n); err == nil {
			req.NResults = n
		}
	}

	c.JSON(http.StatusOK, h.queryService.FindSimilar(c.Request.Context(), req))
}

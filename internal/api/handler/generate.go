package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brandkit/logodex/internal/service"
)

// GenerateHandler handles logo generation endpoints.
type GenerateHandler struct {
	generateService *service.GenerateService
}

// NewGenerateHandler creates a new generate handler.
// Parameters:
//   - generateService: generation service instance.
// Returns:
//   - *GenerateHandler: initialized handler.
func NewGenerateHandler(generateService *service.GenerateService) *GenerateHandler {
	return &GenerateHandler{
		generateService: generateService,
	}
}

// Generate handles POST /generate. A generation that exceeds its time budget
// answers 504; an unconfigured generator answers 503.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req service.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	resp, err := h.generateService.Generate(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGenerateTimeout):
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Logo generation timed out"})
		case errors.Is(err, service.ErrGeneratorUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Logo generator is not configured"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

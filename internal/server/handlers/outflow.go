package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stockdesk/internal/domain/models"
	"stockdesk/internal/repository/inventory"
	"stockdesk/internal/service/outflow"
)

// ReduceStockRequest is the body of a stock-reduction attempt. Quantity
// arrives as entered text; the coordinator parses and validates it.
type ReduceStockRequest struct {
	ProductID string `json:"productId"`
	Quantity  string `json:"quantity"`
}

// OutflowHandler exposes the reduce-stock operation.
type OutflowHandler struct {
	coord  *outflow.Coordinator
	client inventory.Client
	logger *zap.Logger
}

// NewOutflowHandler constructs the HTTP handler adapter.
func NewOutflowHandler(coord *outflow.Coordinator, client inventory.Client, logger *zap.Logger) *OutflowHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutflowHandler{coord: coord, client: client, logger: logger}
}

// Reduce runs one stock-reduction attempt for the requested product.
func (h *OutflowHandler) Reduce(c *gin.Context) {
	var req ReduceStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid outflow payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// Missing selection is reported immediately, without a remote lookup.
	if strings.TrimSpace(req.ProductID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": models.Warning("Please select a product and enter quantity.")})
		return
	}

	ctx := c.Request.Context()

	product, err := h.client.GetProduct(ctx, req.ProductID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	msg, err := h.coord.ReduceStock(ctx, product, req.Quantity)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": msg, "state": h.coord.State()})
	case errors.Is(err, outflow.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"message": msg})
	case errors.Is(err, outflow.ErrNoProduct),
		errors.Is(err, outflow.ErrInvalidQuantity),
		errors.Is(err, outflow.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
	case errors.Is(err, inventory.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"message": msg})
	default:
		// Remote failure already rolled back; surface the server's message.
		c.JSON(http.StatusBadGateway, gin.H{"message": msg})
	}
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stockdesk/internal/domain/models"
	"stockdesk/internal/repository/inventory"
	"stockdesk/internal/service/purchases"
)

// AddLineRequest puts one product on the purchase list.
type AddLineRequest struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
	Supplier string         `json:"supplierName"`
	Date     string         `json:"date"`
	Notes    string         `json:"notes"`
}

// CartHandler exposes the purchase-entry cart.
type CartHandler struct {
	svc    *purchases.Service
	logger *zap.Logger
}

// NewCartHandler constructs the HTTP handler adapter.
func NewCartHandler(svc *purchases.Service, logger *zap.Logger) *CartHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartHandler{svc: svc, logger: logger}
}

// List returns the pending lines and their item total.
func (h *CartHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"lines":      h.svc.Lines(),
		"totalItems": h.svc.TotalItems(),
	})
}

// Add appends a line, or updates the existing line for the same product.
func (h *CartHandler) Add(c *gin.Context) {
	var req AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid cart payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	msg := h.svc.Add(req.Product, req.Quantity, req.Supplier, req.Date, req.Notes)
	status := http.StatusOK
	if msg.Severity != models.SeveritySuccess {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"message": msg, "lines": h.svc.Lines()})
}

// Remove drops the line for one product.
func (h *CartHandler) Remove(c *gin.Context) {
	msg := h.svc.Remove(c.Param("productId"))
	c.JSON(http.StatusOK, gin.H{"message": msg, "lines": h.svc.Lines()})
}

// Clear empties the cart.
func (h *CartHandler) Clear(c *gin.Context) {
	h.svc.Clear()
	c.Status(http.StatusNoContent)
}

// Submit processes every pending line against the remote API.
func (h *CartHandler) Submit(c *gin.Context) {
	msg, err := h.svc.Submit(c.Request.Context())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": msg})
	case errors.Is(err, purchases.ErrSubmitting):
		c.JSON(http.StatusConflict, gin.H{"message": msg})
	case errors.Is(err, purchases.ErrEmptyCart),
		errors.Is(err, purchases.ErrNoSupplier),
		errors.Is(err, purchases.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
	case errors.Is(err, inventory.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"message": msg})
	default:
		// Cart is kept on failure so the submission can be retried.
		c.JSON(http.StatusBadGateway, gin.H{"message": msg, "lines": h.svc.Lines()})
	}
}

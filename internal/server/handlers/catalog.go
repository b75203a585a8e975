package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stockdesk/internal/domain/models"
	"stockdesk/internal/repository/inventory"
	"stockdesk/internal/scheduler"
)

// CatalogHandler serves the product catalog and the polled low-stock alerts.
type CatalogHandler struct {
	client inventory.Client
	sched  *scheduler.Scheduler
	logger *zap.Logger
}

// NewCatalogHandler constructs the HTTP handler adapter.
func NewCatalogHandler(client inventory.Client, sched *scheduler.Scheduler, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{client: client, sched: sched, logger: logger}
}

// Products lists the catalog, filtered by ?search= when given.
func (h *CatalogHandler) Products(c *gin.Context) {
	ctx := c.Request.Context()

	term := strings.TrimSpace(c.Query("search"))

	var (
		products []models.Product
		err      error
	)
	if term != "" {
		products, err = h.client.SearchProducts(ctx, term)
	} else {
		products, err = h.client.ListProducts(ctx)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Product returns one product by ID.
func (h *CatalogHandler) Product(c *gin.Context) {
	product, err := h.client.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Alerts returns the latest low-stock snapshot from the poller.
func (h *CatalogHandler) Alerts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"alerts": h.sched.Alerts()})
}

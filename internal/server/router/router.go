package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stockdesk/internal/server/handlers"
)

// Handlers groups the HTTP adapters the router wires up.
type Handlers struct {
	Reports *handlers.ReportsHandler
	Catalog *handlers.CatalogHandler
	Outflow *handlers.OutflowHandler
	Cart    *handlers.CartHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	api.GET("/products", h.Catalog.Products)
	api.GET("/products/:id", h.Catalog.Product)
	api.GET("/alerts", h.Catalog.Alerts)

	rep := api.Group("/reports")
	rep.GET("/sales", h.Reports.Sales)
	rep.GET("/sales/daily", h.Reports.DailySales)
	rep.GET("/outflows/recent", h.Reports.RecentOutflows)
	rep.GET("/purchases", h.Reports.Purchases)
	rep.GET("/purchases/detail/:company", h.Reports.PurchaseDetail)
	rep.GET("/purchases/export", h.Reports.ExportPurchases)
	rep.GET("/returns", h.Reports.Returns)
	rep.GET("/returns/detail/:customer", h.Reports.ReturnDetail)
	rep.GET("/returns/export", h.Reports.ExportReturns)
	rep.GET("/customers/:name", h.Reports.Customer)

	api.POST("/outflow", h.Outflow.Reduce)

	api.GET("/cart", h.Cart.List)
	api.POST("/cart", h.Cart.Add)
	api.DELETE("/cart", h.Cart.Clear)
	api.DELETE("/cart/:productId", h.Cart.Remove)
	api.POST("/cart/submit", h.Cart.Submit)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

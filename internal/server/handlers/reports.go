package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stockdesk/internal/domain/models"
	"stockdesk/internal/export"
	"stockdesk/internal/service/reports"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportsHandler serves the derived sales, outflow, purchase and return
// views. Every GET refetches from the remote API before answering, so the
// response always reflects server truth plus any pending optimistic entries.
type ReportsHandler struct {
	svc    *reports.Service
	logger *zap.Logger
}

// NewReportsHandler constructs the HTTP handler adapter.
func NewReportsHandler(svc *reports.Service, logger *zap.Logger) *ReportsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportsHandler{svc: svc, logger: logger}
}

// Sales returns the today or weekly transaction list selected by ?range=.
func (h *ReportsHandler) Sales(c *gin.Context) {
	ctx := c.Request.Context()

	switch c.DefaultQuery("range", "today") {
	case "today":
		if err := h.svc.RefreshToday(ctx); err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sales": h.svc.TodaySales()})
	case "weekly":
		if err := h.svc.RefreshWeekly(ctx); err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sales": h.svc.WeeklySales()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "range must be today or weekly"})
	}
}

// DailySales returns the per-day sales report.
func (h *ReportsHandler) DailySales(c *gin.Context) {
	if err := h.svc.RefreshDaily(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": h.svc.DailySales()})
}

// RecentOutflows returns the latest stock-reduction entries.
func (h *ReportsHandler) RecentOutflows(c *gin.Context) {
	if err := h.svc.RefreshRecent(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outflows": h.svc.RecentOutflows()})
}

func (h *ReportsHandler) window(c *gin.Context) (reports.Window, bool) {
	w, ok := reports.ParseWindow(c.Query("range"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "range must be today, monthly or all"})
		return "", false
	}
	return w, true
}

// Purchases returns the purchase summary grouped by company.
func (h *ReportsHandler) Purchases(c *gin.Context) {
	w, ok := h.window(c)
	if !ok {
		return
	}
	rows, err := h.svc.PurchaseSummary(c.Request.Context(), w)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": rows})
}

// PurchaseDetail returns the per-product breakdown for one company.
func (h *ReportsHandler) PurchaseDetail(c *gin.Context) {
	w, ok := h.window(c)
	if !ok {
		return
	}
	totals, err := h.svc.PurchaseDetail(c.Request.Context(), w, c.Param("company"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": totals})
}

// ExportPurchases streams the purchase summary as an .xlsx download.
func (h *ReportsHandler) ExportPurchases(c *gin.Context) {
	w, ok := h.window(c)
	if !ok {
		return
	}
	rows, err := h.svc.PurchaseSummary(c.Request.Context(), w)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.writeWorkbook(c, "purchase", "Company Name", rows)
}

// Returns returns the return summary grouped by customer.
func (h *ReportsHandler) Returns(c *gin.Context) {
	w, ok := h.window(c)
	if !ok {
		return
	}
	rows, err := h.svc.ReturnSummary(c.Request.Context(), w)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": rows})
}

// ReturnDetail returns the per-product breakdown for one customer.
func (h *ReportsHandler) ReturnDetail(c *gin.Context) {
	w, ok := h.window(c)
	if !ok {
		return
	}
	totals, err := h.svc.ReturnDetail(c.Request.Context(), w, c.Param("customer"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": totals})
}

// ExportReturns streams the return summary as an .xlsx download.
func (h *ReportsHandler) ExportReturns(c *gin.Context) {
	w, ok := h.window(c)
	if !ok {
		return
	}
	rows, err := h.svc.ReturnSummary(c.Request.Context(), w)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.writeWorkbook(c, "return", "Customer Name", rows)
}

// Customer returns one customer's weekly purchase history.
func (h *ReportsHandler) Customer(c *gin.Context) {
	summary, err := h.svc.CustomerDetails(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ReportsHandler) writeWorkbook(c *gin.Context, report, groupHeader string, rows []models.SummaryRow) {
	data, err := export.SummaryWorkbook(groupHeader, rows)
	if err != nil {
		h.logger.Error("workbook render failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build export"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(report, time.Now())+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

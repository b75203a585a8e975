// Package inventory wraps the remote inventory REST API. The remote system is
// the single source of truth; this client only shuttles JSON and normalizes
// failures into messages the services can surface inline.
package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"stockdesk/internal/config"
	"stockdesk/internal/domain/models"
)

// ErrSessionExpired marks an HTTP 401 from the remote API. It is fatal for
// the whole session and escalates past inline message handling.
var ErrSessionExpired = errors.New("inventory session expired")

// APIError carries the server-supplied message of a rejected call so callers
// can show it verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("inventory api: %s (status %d)", e.Message, e.StatusCode)
}

// ListOptions narrows a transaction feed to a date window and page.
type ListOptions struct {
	Start time.Time
	End   time.Time
	Page  int
	Limit int
}

func (o ListOptions) query() map[string]string {
	q := map[string]string{}
	if !o.Start.IsZero() {
		q["startDate"] = o.Start.Format(time.RFC3339)
	}
	if !o.End.IsZero() {
		q["endDate"] = o.End.Format(time.RFC3339)
	}
	if o.Page > 0 {
		q["page"] = strconv.Itoa(o.Page)
	}
	if o.Limit > 0 {
		q["limit"] = strconv.Itoa(o.Limit)
	}
	return q
}

// ReduceStockResponse mirrors the mutation acknowledgement.
type ReduceStockResponse struct {
	Message string `json:"message"`
}

// CustomerSalesResponse is the full-history view the API computes for a
// single customer. The totals and purchase bounds span the customer's entire
// record, not just the window any cached feed covers.
type CustomerSalesResponse struct {
	Sales             []models.TransactionRecord `json:"sales"`
	TotalTransactions int                        `json:"totalTransactions"`
	TotalItems        int                        `json:"totalItems"`
	FirstPurchase     string                     `json:"firstPurchase"`
	LastPurchase      string                     `json:"lastPurchase"`
}

// Client exposes the remote inventory operations used by the gateway.
type Client interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	SearchProducts(ctx context.Context, term string) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	LowStock(ctx context.Context) ([]models.Product, error)
	ReduceStock(ctx context.Context, productID string, reduceBy int, date time.Time) (*ReduceStockResponse, error)
	AddStock(ctx context.Context, productID string, quantity int) error
	CreatePurchase(ctx context.Context, record models.TransactionRecord) error
	TodaySales(ctx context.Context) ([]models.TransactionRecord, error)
	WeeklySales(ctx context.Context) ([]models.TransactionRecord, error)
	CustomerSales(ctx context.Context, name string) (*CustomerSalesResponse, error)
	DailySalesReport(ctx context.Context) ([]models.DailySales, error)
	RecentOutflows(ctx context.Context, limit int) ([]models.TransactionRecord, error)
	ListPurchases(ctx context.Context, opts ListOptions) ([]models.TransactionRecord, error)
	ListReturns(ctx context.Context, opts ListOptions) ([]models.TransactionRecord, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds an inventory API client from the provided configuration.
// The session token is scoped to this instance; nothing global is consulted.
func NewClient(cfg config.InventoryConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout)

	if cfg.Token != "" {
		restyClient.SetAuthToken(cfg.Token)
	}

	return &APIClient{httpClient: restyClient}
}

func (c *APIClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	return c.fetchProducts(ctx, "/products", nil)
}

func (c *APIClient) SearchProducts(ctx context.Context, term string) ([]models.Product, error) {
	return c.fetchProducts(ctx, "/products", map[string]string{"search": term})
}

func (c *APIClient) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product := new(models.Product)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(product).
		Get("/products/" + id)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return product, nil
}

func (c *APIClient) LowStock(ctx context.Context) ([]models.Product, error) {
	return c.fetchProducts(ctx, "/products/low-stock", nil)
}

func (c *APIClient) ReduceStock(ctx context.Context, productID string, reduceBy int, date time.Time) (*ReduceStockResponse, error) {
	result := new(ReduceStockResponse)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"reduceBy": reduceBy,
			"date":     date.Format(time.RFC3339),
		}).
		SetResult(result).
		Put(fmt.Sprintf("/products/%s/reduce-stock", productID))
	if err != nil {
		return nil, fmt.Errorf("reduce stock for %s: %w", productID, err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *APIClient) AddStock(ctx context.Context, productID string, quantity int) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]any{"quantity": quantity}).
		Put(fmt.Sprintf("/products/%s/add-stock", productID))
	if err != nil {
		return fmt.Errorf("add stock for %s: %w", productID, err)
	}
	return checkStatus(resp)
}

func (c *APIClient) CreatePurchase(ctx context.Context, record models.TransactionRecord) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"productId":    record.ProductID,
			"companyName":  record.CompanyName,
			"modelNo":      record.ModelNo,
			"quantity":     record.Units(),
			"supplierName": record.SupplierName,
			"date":         record.Date,
			"notes":        record.Notes,
		}).
		Post("/purchases")
	if err != nil {
		return fmt.Errorf("create purchase: %w", err)
	}
	return checkStatus(resp)
}

func (c *APIClient) TodaySales(ctx context.Context) ([]models.TransactionRecord, error) {
	return c.fetchRecords(ctx, "/products/sales/today", nil, "")
}

func (c *APIClient) WeeklySales(ctx context.Context) ([]models.TransactionRecord, error) {
	return c.fetchRecords(ctx, "/products/sales/weekly", nil, "")
}

func (c *APIClient) CustomerSales(ctx context.Context, name string) (*CustomerSalesResponse, error) {
	result := new(CustomerSalesResponse)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		Get("/products/sales/customer/" + url.PathEscape(name))
	if err != nil {
		return nil, fmt.Errorf("fetch customer sales for %s: %w", name, err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *APIClient) DailySalesReport(ctx context.Context) ([]models.DailySales, error) {
	resp, err := c.httpClient.R().SetContext(ctx).Get("/products/sales/daily-report")
	if err != nil {
		return nil, fmt.Errorf("fetch daily sales report: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var rows []models.DailySales
	if err := json.Unmarshal(resp.Body(), &rows); err != nil {
		return nil, fmt.Errorf("decode daily sales report: %w", err)
	}
	return rows, nil
}

func (c *APIClient) RecentOutflows(ctx context.Context, limit int) ([]models.TransactionRecord, error) {
	query := map[string]string{}
	if limit > 0 {
		query["limit"] = strconv.Itoa(limit)
	}
	return c.fetchRecords(ctx, "/products/sales/recent-outflows", query, "")
}

func (c *APIClient) ListPurchases(ctx context.Context, opts ListOptions) ([]models.TransactionRecord, error) {
	return c.fetchRecords(ctx, "/purchases", opts.query(), "purchases")
}

func (c *APIClient) ListReturns(ctx context.Context, opts ListOptions) ([]models.TransactionRecord, error) {
	return c.fetchRecords(ctx, "/returns", opts.query(), "returns")
}

func (c *APIClient) fetchProducts(ctx context.Context, path string, query map[string]string) ([]models.Product, error) {
	req := c.httpClient.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	resp, err := req.Get(path)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var products []models.Product
	if err := json.Unmarshal(resp.Body(), &products); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return products, nil
}

func (c *APIClient) fetchRecords(ctx context.Context, path string, query map[string]string, envelopeKey string) ([]models.TransactionRecord, error) {
	req := c.httpClient.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	resp, err := req.Get(path)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return decodeRecords(resp.Body(), envelopeKey)
}

// decodeRecords tolerates both a bare JSON array and the paginated envelope
// some endpoints return ({purchases: [...]}, {returns: [...]}, {items: [...]}).
func decodeRecords(body []byte, envelopeKey string) ([]models.TransactionRecord, error) {
	var list []models.TransactionRecord
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode transaction feed: %w", err)
	}
	for _, key := range []string{envelopeKey, "items"} {
		if key == "" {
			continue
		}
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decode transaction feed %q: %w", key, err)
		}
		return list, nil
	}
	return nil, errors.New("decode transaction feed: unrecognized response shape")
}

func checkStatus(resp *resty.Response) error {
	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrSessionExpired
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		var payload struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(resp.Body(), &payload)
		if payload.Message == "" {
			payload.Message = http.StatusText(resp.StatusCode())
		}
		return &APIError{StatusCode: resp.StatusCode(), Message: payload.Message}
	}
	return nil
}

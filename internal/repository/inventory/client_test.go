package inventory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stockdesk/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*APIClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(config.InventoryConfig{
		BaseURL: srv.URL,
		Token:   "test-token",
		Timeout: 5 * time.Second,
	})
	return client, srv
}

func TestListPurchases_BareArray(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/purchases", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"_id": "p1", "companyName": "Acme", "quantity": 4},
		})
	})

	records, err := client.ListPurchases(context.Background(), ListOptions{})
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "Acme", records[0].CompanyName)
	assert.Equal(t, 4, records[0].Units())
}

func TestListPurchases_Envelope(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"purchases":[{"_id":"p1","quantity":2}],"totalPages":1}`))
	})

	records, err := client.ListPurchases(context.Background(), ListOptions{Page: 1, Limit: 1000})
	assert.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestListPurchases_ItemsEnvelope(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"_id":"p1","quantity":2}],"totalPages":3}`))
	})

	records, err := client.ListPurchases(context.Background(), ListOptions{})
	assert.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestListPurchases_DateWindowParams(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 1, 23, 59, 59, 0, time.UTC)

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, start.Format(time.RFC3339), r.URL.Query().Get("startDate"))
		assert.Equal(t, end.Format(time.RFC3339), r.URL.Query().Get("endDate"))
		assert.Equal(t, "1000", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.ListPurchases(context.Background(), ListOptions{Start: start, End: end, Page: 1, Limit: 1000})
	assert.NoError(t, err)
}

func TestUnauthorizedBecomesSessionExpired(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.TodaySales(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestServerMessageSurfacesInAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Insufficient stock"}`))
	})

	_, err := client.ReduceStock(context.Background(), "prod1", 5, time.Now())

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Insufficient stock", apiErr.Message)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestAPIErrorFallbackMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.TodaySales(context.Background())

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), apiErr.Message)
}

func TestReduceStock_SendsPayload(t *testing.T) {
	date := time.Date(2024, 6, 2, 10, 30, 0, 0, time.UTC)

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/products/prod1/reduce-stock", r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 3, body["reduceBy"])
		assert.Equal(t, date.Format(time.RFC3339), body["date"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Stock reduced successfully"}`))
	})

	res, err := client.ReduceStock(context.Background(), "prod1", 3, date)
	assert.NoError(t, err)
	assert.Equal(t, "Stock reduced successfully", res.Message)
}

func TestSearchProducts(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "acme", r.URL.Query().Get("search"))
		_, _ = w.Write([]byte(`[{"_id":"p1","companyName":"Acme","modelNo":"M1","quantity":10}]`))
	})

	products, err := client.SearchProducts(context.Background(), "acme")
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, "Acme - M1", products[0].Label())
}

func TestCustomerSales(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/sales/customer/Asha%20Devi", r.URL.EscapedPath())
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"sales": []map[string]any{
				{"_id": "s1", "companyName": "Acme", "modelNo": "M1", "totalSold": 2},
			},
			"totalTransactions": 12,
			"totalItems":        57,
			"firstPurchase":     "2021-03-05T00:00:00Z",
			"lastPurchase":      "2024-06-01T00:00:00Z",
		})
	})

	res, err := client.CustomerSales(context.Background(), "Asha Devi")
	assert.NoError(t, err)
	assert.Equal(t, 12, res.TotalTransactions)
	assert.Equal(t, 57, res.TotalItems)
	assert.Equal(t, "2021-03-05T00:00:00Z", res.FirstPurchase)
	assert.Equal(t, "2024-06-01T00:00:00Z", res.LastPurchase)
	assert.Len(t, res.Sales, 1)
	assert.Equal(t, 2, res.Sales[0].Units())
}

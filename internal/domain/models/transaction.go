package models

import (
	"strconv"
	"strings"
	"time"
)

// Sentinel group names substituted when a counterparty or product field is
// absent. Grouping must never drop a record, so every record lands under one
// of these instead of an empty key.
const (
	WalkInCustomer = "Walk-in Customer"
	UnknownCompany = "Unknown"
	NoValue        = "N/A"
)

// Quantity is a defensively decoded whole-unit count. The inventory API is
// trusted to return numbers, but partial records do show up in the feeds, so
// decoding never fails: numbers, numeric strings and floats all land as an
// int, anything else becomes 0.
type Quantity int

// UnmarshalJSON accepts a JSON number, a quoted numeric string or null.
// Malformed values decode to zero rather than aborting the whole payload.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*q = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	if n, err := strconv.Atoi(s); err == nil {
		*q = Quantity(n)
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*q = Quantity(int(f))
		return nil
	}
	*q = 0
	return nil
}

// TransactionRecord is a single sale, purchase or return as delivered by the
// inventory API. The three feeds are structurally identical but name their
// counterparty field differently (partyName, supplierName, customerName), so
// all three are carried and the grouping key selectors pick the right one.
type TransactionRecord struct {
	ID           string   `json:"_id"`
	ProductID    string   `json:"productId,omitempty"`
	CompanyName  string   `json:"companyName"`
	ModelNo      string   `json:"modelNo"`
	Quantity     Quantity `json:"quantity"`
	TotalSold    Quantity `json:"totalSold,omitempty"`
	PartyName    string   `json:"partyName,omitempty"`
	SupplierName string   `json:"supplierName,omitempty"`
	CustomerName string   `json:"customerName,omitempty"`
	Date         string   `json:"date,omitempty"`
	InvoiceDate  string   `json:"invoiceDate,omitempty"`
	CreatedAt    string   `json:"createdAt,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

// ParseTimestamp parses a feed timestamp in any of the formats the API
// emits. ok=false means "no timestamp" to the aggregation code.
func ParseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// When resolves the record's point in time: the date field first, then the
// invoice date, then the creation time. Unparseable values report ok=false.
func (r TransactionRecord) When() (time.Time, bool) {
	for _, raw := range []string{r.Date, r.InvoiceDate, r.CreatedAt} {
		if raw == "" {
			continue
		}
		if t, ok := ParseTimestamp(raw); ok {
			return t, ok
		}
	}
	return time.Time{}, false
}

// Units returns the transaction magnitude. The sales feeds report it as
// totalSold while outflows, purchases and returns use quantity.
func (r TransactionRecord) Units() int {
	if r.Quantity != 0 {
		return int(r.Quantity)
	}
	return int(r.TotalSold)
}

// ProductLabel joins the identifying pair into one display string, with
// sentinels for missing halves.
func (r TransactionRecord) ProductLabel() string {
	company := r.CompanyName
	if company == "" {
		company = UnknownCompany
	}
	model := r.ModelNo
	if model == "" {
		model = NoValue
	}
	return company + " | " + model
}

// SummaryRow is one bucket of an aggregation pass: a read-only projection over
// the source records, recomputed in full on every pass and never patched
// incrementally.
type SummaryRow struct {
	GroupKey        string     `json:"groupKey"`
	TotalQuantity   int        `json:"totalQuantity"`
	LatestTimestamp *time.Time `json:"latestTimestamp,omitempty"`
	FirstNote       string     `json:"firstNote,omitempty"`
}

// ProductTotal is a drill-down row: per-product quantity within one selected
// group.
type ProductTotal struct {
	Product       string `json:"product"`
	TotalQuantity int    `json:"totalQuantity"`
}

// CustomerSummary is the drill-down view for a single customer across the
// sales feed.
type CustomerSummary struct {
	CustomerName      string              `json:"customerName"`
	TotalTransactions int                 `json:"totalTransactions"`
	TotalItems        int                 `json:"totalItems"`
	FirstPurchase     *time.Time          `json:"firstPurchase,omitempty"`
	LastPurchase      *time.Time          `json:"lastPurchase,omitempty"`
	Sales             []TransactionRecord `json:"sales"`
	ProductSummary    []ProductTotal      `json:"productSummary"`
}

// DailySales is one row of the per-day sales rollup feed.
type DailySales struct {
	ID         string   `json:"_id"`
	Date       string   `json:"date"`
	TotalSales Quantity `json:"totalSales"`
	ItemsSold  Quantity `json:"itemsSold"`
}

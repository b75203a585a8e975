// Package aggregate derives grouped summary rows from flat transaction feeds.
// Everything here is a pure function over its inputs: no caching, no shared
// state, identical input yields identical output.
package aggregate

import (
	"sort"

	"stockdesk/internal/domain/models"
)

// KeyFunc extracts the grouping key from a record.
type KeyFunc func(models.TransactionRecord) string

// PartyKey groups sales by the buying customer.
func PartyKey(r models.TransactionRecord) string {
	if r.PartyName == "" {
		return models.WalkInCustomer
	}
	return r.PartyName
}

// CompanyKey groups purchases by the product's company.
func CompanyKey(r models.TransactionRecord) string {
	if r.CompanyName == "" {
		return models.UnknownCompany
	}
	return r.CompanyName
}

// CustomerKey groups returns by the returning customer.
func CustomerKey(r models.TransactionRecord) string {
	if r.CustomerName == "" {
		return models.NoValue
	}
	return r.CustomerName
}

// Summarize scans records in input order and emits one SummaryRow per
// distinct key. Quantities at or below zero contribute nothing, timestamps
// that do not parse leave the running maximum untouched, and the first
// non-empty note per key wins. The output is sorted by latest timestamp
// descending; rows without any timestamp sort last, and ties break on group
// key ascending.
func Summarize(records []models.TransactionRecord, keyOf KeyFunc) []models.SummaryRow {
	groups := make(map[string]*models.SummaryRow, len(records))
	order := make([]string, 0, len(records))

	for _, r := range records {
		key := keyOf(r)
		if key == "" {
			key = models.UnknownCompany
		}

		row, ok := groups[key]
		if !ok {
			row = &models.SummaryRow{GroupKey: key}
			groups[key] = row
			order = append(order, key)
		}

		if units := r.Units(); units > 0 {
			row.TotalQuantity += units
		}
		if ts, ok := r.When(); ok {
			if row.LatestTimestamp == nil || ts.After(*row.LatestTimestamp) {
				t := ts
				row.LatestTimestamp = &t
			}
		}
		if row.FirstNote == "" && r.Notes != "" {
			row.FirstNote = r.Notes
		}
	}

	out := make([]models.SummaryRow, 0, len(order))
	for _, key := range order {
		out = append(out, *groups[key])
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := out[i].LatestTimestamp, out[j].LatestTimestamp
		switch {
		case ti == nil && tj == nil:
			return out[i].GroupKey < out[j].GroupKey
		case ti == nil:
			return false
		case tj == nil:
			return true
		case ti.Equal(*tj):
			return out[i].GroupKey < out[j].GroupKey
		default:
			return ti.After(*tj)
		}
	})

	return out
}

// DetailByProduct drills into one group: records matching selectedKey are
// re-grouped by product label and their quantities summed. Output is sorted
// ascending by label so drill-down tables render deterministically.
func DetailByProduct(records []models.TransactionRecord, selectedKey string, keyOf KeyFunc) []models.ProductTotal {
	matched := make([]models.TransactionRecord, 0, len(records))
	for _, r := range records {
		if keyOf(r) == selectedKey {
			matched = append(matched, r)
		}
	}
	return ProductTotals(matched)
}

// ProductTotals rolls a feed up per product label, quantities summed with
// negatives clamped to zero, sorted ascending by label.
func ProductTotals(records []models.TransactionRecord) []models.ProductTotal {
	totals := make(map[string]int)
	for _, r := range records {
		units := r.Units()
		if units < 0 {
			units = 0
		}
		totals[r.ProductLabel()] += units
	}

	out := make([]models.ProductTotal, 0, len(totals))
	for label, total := range totals {
		out = append(out, models.ProductTotal{Product: label, TotalQuantity: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product < out[j].Product })
	return out
}

// CustomerHistory builds the drill-down view for one customer over the sales
// feed: transaction count, total units, first and last purchase timestamps,
// the matching records in input order and a per-product rollup.
func CustomerHistory(records []models.TransactionRecord, customerName string) models.CustomerSummary {
	summary := models.CustomerSummary{CustomerName: customerName}

	for _, r := range records {
		if PartyKey(r) != customerName {
			continue
		}
		summary.Sales = append(summary.Sales, r)
		summary.TotalTransactions++
		if units := r.Units(); units > 0 {
			summary.TotalItems += units
		}
		if ts, ok := r.When(); ok {
			if summary.FirstPurchase == nil || ts.Before(*summary.FirstPurchase) {
				t := ts
				summary.FirstPurchase = &t
			}
			if summary.LastPurchase == nil || ts.After(*summary.LastPurchase) {
				t := ts
				summary.LastPurchase = &t
			}
		}
	}

	summary.ProductSummary = DetailByProduct(records, customerName, PartyKey)
	return summary
}

// TotalUnits sums the coerced quantities of a feed, matching what Summarize
// distributes across its rows.
func TotalUnits(records []models.TransactionRecord) int {
	var total int
	for _, r := range records {
		if units := r.Units(); units > 0 {
			total += units
		}
	}
	return total
}

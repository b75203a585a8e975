package models

// Product mirrors a catalog entry returned by the inventory API. Quantity is
// the stock on hand as of the last fetch and may be stale; the API is the
// authority.
type Product struct {
	ID          string `json:"_id"`
	CompanyName string `json:"companyName"`
	ModelNo     string `json:"modelNo"`
	InvoiceNo   string `json:"invoiceNo,omitempty"`
	SKU         string `json:"sku,omitempty"`
	Quantity    int    `json:"quantity"`
	AlertQty    int    `json:"alertQty,omitempty"`
	Size        string `json:"size,omitempty"`
	Color       string `json:"color,omitempty"`
	Design      string `json:"design,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Label renders the display name used across reports.
func (p Product) Label() string {
	company := p.CompanyName
	if company == "" {
		company = UnknownCompany
	}
	model := p.ModelNo
	if model == "" {
		model = NoValue
	}
	return company + " - " + model
}

// LowOnStock reports whether the product has fallen to or below its alert
// threshold.
func (p Product) LowOnStock() bool {
	return p.AlertQty > 0 && p.Quantity <= p.AlertQty
}

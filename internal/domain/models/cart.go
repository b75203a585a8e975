package models

// CartLine is a pending, not-yet-submitted purchase entry held only in the
// active session. At most one line exists per product; re-adding a product
// replaces its quantity instead of duplicating the line.
type CartLine struct {
	ProductID    string `json:"productId"`
	CompanyName  string `json:"companyName"`
	ModelNo      string `json:"modelNo"`
	Quantity     int    `json:"quantity"`
	SupplierName string `json:"supplierName"`
	Date         string `json:"date"`
	Notes        string `json:"notes,omitempty"`
}

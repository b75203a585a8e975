// Package inventorytest provides a function-field fake of the inventory
// client for service tests.
package inventorytest

import (
	"context"
	"time"

	"stockdesk/internal/domain/models"
	"stockdesk/internal/repository/inventory"
)

// Fake implements inventory.Client. Unset fields behave as empty successful
// responses, so tests only wire the calls they care about.
type Fake struct {
	ListProductsFunc     func(ctx context.Context) ([]models.Product, error)
	SearchProductsFunc   func(ctx context.Context, term string) ([]models.Product, error)
	GetProductFunc       func(ctx context.Context, id string) (*models.Product, error)
	LowStockFunc         func(ctx context.Context) ([]models.Product, error)
	ReduceStockFunc      func(ctx context.Context, productID string, reduceBy int, date time.Time) (*inventory.ReduceStockResponse, error)
	AddStockFunc         func(ctx context.Context, productID string, quantity int) error
	CreatePurchaseFunc   func(ctx context.Context, record models.TransactionRecord) error
	TodaySalesFunc       func(ctx context.Context) ([]models.TransactionRecord, error)
	WeeklySalesFunc      func(ctx context.Context) ([]models.TransactionRecord, error)
	CustomerSalesFunc    func(ctx context.Context, name string) (*inventory.CustomerSalesResponse, error)
	DailySalesReportFunc func(ctx context.Context) ([]models.DailySales, error)
	RecentOutflowsFunc   func(ctx context.Context, limit int) ([]models.TransactionRecord, error)
	ListPurchasesFunc    func(ctx context.Context, opts inventory.ListOptions) ([]models.TransactionRecord, error)
	ListReturnsFunc      func(ctx context.Context, opts inventory.ListOptions) ([]models.TransactionRecord, error)
}

var _ inventory.Client = (*Fake)(nil)

func (f *Fake) ListProducts(ctx context.Context) ([]models.Product, error) {
	if f.ListProductsFunc == nil {
		return nil, nil
	}
	return f.ListProductsFunc(ctx)
}

func (f *Fake) SearchProducts(ctx context.Context, term string) ([]models.Product, error) {
	if f.SearchProductsFunc == nil {
		return nil, nil
	}
	return f.SearchProductsFunc(ctx, term)
}

func (f *Fake) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if f.GetProductFunc == nil {
		return &models.Product{ID: id}, nil
	}
	return f.GetProductFunc(ctx, id)
}

func (f *Fake) LowStock(ctx context.Context) ([]models.Product, error) {
	if f.LowStockFunc == nil {
		return nil, nil
	}
	return f.LowStockFunc(ctx)
}

func (f *Fake) ReduceStock(ctx context.Context, productID string, reduceBy int, date time.Time) (*inventory.ReduceStockResponse, error) {
	if f.ReduceStockFunc == nil {
		return &inventory.ReduceStockResponse{Message: "ok"}, nil
	}
	return f.ReduceStockFunc(ctx, productID, reduceBy, date)
}

func (f *Fake) AddStock(ctx context.Context, productID string, quantity int) error {
	if f.AddStockFunc == nil {
		return nil
	}
	return f.AddStockFunc(ctx, productID, quantity)
}

func (f *Fake) CreatePurchase(ctx context.Context, record models.TransactionRecord) error {
	if f.CreatePurchaseFunc == nil {
		return nil
	}
	return f.CreatePurchaseFunc(ctx, record)
}

func (f *Fake) TodaySales(ctx context.Context) ([]models.TransactionRecord, error) {
	if f.TodaySalesFunc == nil {
		return nil, nil
	}
	return f.TodaySalesFunc(ctx)
}

func (f *Fake) WeeklySales(ctx context.Context) ([]models.TransactionRecord, error) {
	if f.WeeklySalesFunc == nil {
		return nil, nil
	}
	return f.WeeklySalesFunc(ctx)
}

func (f *Fake) CustomerSales(ctx context.Context, name string) (*inventory.CustomerSalesResponse, error) {
	if f.CustomerSalesFunc == nil {
		return &inventory.CustomerSalesResponse{}, nil
	}
	return f.CustomerSalesFunc(ctx, name)
}

func (f *Fake) DailySalesReport(ctx context.Context) ([]models.DailySales, error) {
	if f.DailySalesReportFunc == nil {
		return nil, nil
	}
	return f.DailySalesReportFunc(ctx)
}

func (f *Fake) RecentOutflows(ctx context.Context, limit int) ([]models.TransactionRecord, error) {
	if f.RecentOutflowsFunc == nil {
		return nil, nil
	}
	return f.RecentOutflowsFunc(ctx, limit)
}

func (f *Fake) ListPurchases(ctx context.Context, opts inventory.ListOptions) ([]models.TransactionRecord, error) {
	if f.ListPurchasesFunc == nil {
		return nil, nil
	}
	return f.ListPurchasesFunc(ctx, opts)
}

func (f *Fake) ListReturns(ctx context.Context, opts inventory.ListOptions) ([]models.TransactionRecord, error) {
	if f.ListReturnsFunc == nil {
		return nil, nil
	}
	return f.ListReturnsFunc(ctx, opts)
}

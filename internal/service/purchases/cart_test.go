package purchases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"stockdesk/internal/domain/models"
	"stockdesk/internal/repository/inventory/inventorytest"
)

func acme() models.Product {
	return models.Product{ID: "p1", CompanyName: "Acme", ModelNo: "M1", Quantity: 50}
}

func TestAdd_SameProductTwiceUpdatesInPlace(t *testing.T) {
	svc := NewService(&inventorytest.Fake{}, nil)

	msg := svc.Add(acme(), 4, "Sharma Traders", "2024-06-01", "")
	assert.Equal(t, models.SeveritySuccess, msg.Severity)

	msg = svc.Add(acme(), 7, "Sharma Traders", "2024-06-01", "")
	assert.Contains(t, msg.Text, "Updated quantity")

	lines := svc.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, 7, lines[0].Quantity)
	assert.Equal(t, 7, svc.TotalItems())
}

func TestAdd_RejectsNonPositiveQuantity(t *testing.T) {
	svc := NewService(&inventorytest.Fake{}, nil)

	msg := svc.Add(acme(), 0, "Sharma Traders", "2024-06-01", "")
	assert.Equal(t, models.SeverityWarning, msg.Severity)
	assert.Empty(t, svc.Lines())
}

func TestRemoveAndClear(t *testing.T) {
	svc := NewService(&inventorytest.Fake{}, nil)
	svc.Add(acme(), 2, "S", "2024-06-01", "")
	svc.Add(models.Product{ID: "p2", CompanyName: "Zen", ModelNo: "Z9"}, 3, "S", "2024-06-01", "")

	svc.Remove("p1")
	assert.Len(t, svc.Lines(), 1)
	assert.Equal(t, "p2", svc.Lines()[0].ProductID)

	svc.Clear()
	assert.Empty(t, svc.Lines())
}

func TestSubmit_EmptyCart(t *testing.T) {
	svc := NewService(&inventorytest.Fake{}, nil)

	msg, err := svc.Submit(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, models.SeverityWarning, msg.Severity)
}

func TestSubmit_MissingSupplier(t *testing.T) {
	svc := NewService(&inventorytest.Fake{}, nil)
	svc.Add(acme(), 2, "  ", "2024-06-01", "")

	_, err := svc.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNoSupplier)
	assert.Len(t, svc.Lines(), 1, "cart stays intact for retry")
}

func TestSubmit_CallsAddStockAndCreatePurchasePerLine(t *testing.T) {
	var addStock, created []string
	client := &inventorytest.Fake{
		AddStockFunc: func(ctx context.Context, productID string, qty int) error {
			addStock = append(addStock, productID)
			return nil
		},
		CreatePurchaseFunc: func(ctx context.Context, record models.TransactionRecord) error {
			created = append(created, record.ProductID)
			assert.Equal(t, "Sharma Traders", record.SupplierName)
			return nil
		},
	}
	svc := NewService(client, nil)
	svc.Add(acme(), 2, "Sharma Traders", "2024-06-01", "restock")
	svc.Add(models.Product{ID: "p2", CompanyName: "Zen", ModelNo: "Z9"}, 3, "Sharma Traders", "2024-06-01", "")

	msg, err := svc.Submit(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, models.SeveritySuccess, msg.Severity)
	assert.Contains(t, msg.Text, "2 products for Sharma Traders")
	assert.Equal(t, []string{"p1", "p2"}, addStock)
	assert.Equal(t, []string{"p1", "p2"}, created)
	assert.Empty(t, svc.Lines(), "cart cleared on success")
}

func TestSubmit_RemoteFailureKeepsCart(t *testing.T) {
	client := &inventorytest.Fake{
		AddStockFunc: func(ctx context.Context, productID string, qty int) error {
			return errors.New("boom")
		},
	}
	svc := NewService(client, nil)
	svc.Add(acme(), 2, "Sharma Traders", "2024-06-01", "")

	msg, err := svc.Submit(context.Background())

	assert.Error(t, err)
	assert.Equal(t, models.SeverityError, msg.Severity)
	assert.Len(t, svc.Lines(), 1)
}

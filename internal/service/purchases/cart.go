// Package purchases holds the purchase-entry working set: a session-scoped
// cart of pending lines, submitted in one batch against the remote API.
package purchases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"stockdesk/internal/domain/models"
	"stockdesk/internal/repository/inventory"
)

var (
	ErrEmptyCart       = errors.New("purchase list is empty")
	ErrNoSupplier      = errors.New("supplier name missing")
	ErrInvalidQuantity = errors.New("invalid line quantity")
	ErrSubmitting      = errors.New("a purchase submission is already in progress")
)

// Service manages the cart. At most one line exists per product; re-adding a
// product updates its quantity in place rather than duplicating the line.
type Service struct {
	client inventory.Client
	logger *zap.Logger

	mu         sync.Mutex
	lines      []models.CartLine
	submitting bool
}

// NewService wires a cart service instance.
func NewService(client inventory.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, logger: logger}
}

// Add puts a product on the purchase list, or updates the quantity of the
// existing line for that product.
func (s *Service) Add(product models.Product, quantity int, supplier, date, notes string) models.StatusMessage {
	if quantity <= 0 {
		return models.Warning("Please enter valid quantity")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ProductID == product.ID {
			s.lines[i].Quantity = quantity
			return models.Success(fmt.Sprintf("Updated quantity for %s", product.Label()))
		}
	}

	s.lines = append(s.lines, models.CartLine{
		ProductID:    product.ID,
		CompanyName:  product.CompanyName,
		ModelNo:      product.ModelNo,
		Quantity:     quantity,
		SupplierName: supplier,
		Date:         date,
		Notes:        notes,
	})
	return models.Success(fmt.Sprintf("Added %s to purchase list", product.Label()))
}

// Remove drops the line for the given product, if present.
func (s *Service) Remove(productID string) models.StatusMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.lines[:0]
	for _, line := range s.lines {
		if line.ProductID == productID {
			continue
		}
		kept = append(kept, line)
	}
	s.lines = kept
	return models.Success("Product removed from purchase list")
}

// Clear empties the cart.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// Lines returns a copy of the pending cart lines.
func (s *Service) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CartLine(nil), s.lines...)
}

// TotalItems sums the quantities across the cart.
func (s *Service) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total
}

// Submit validates the cart and then, per line, raises stock and records the
// purchase against the remote API. The cart is cleared only when every line
// went through; on failure it stays intact so the user can re-trigger.
func (s *Service) Submit(ctx context.Context) (models.StatusMessage, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return models.Warning("A purchase is already being processed."), ErrSubmitting
	}
	lines := append([]models.CartLine(nil), s.lines...)
	s.submitting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	if len(lines) == 0 {
		return models.Warning("Please add products to purchase list first."), ErrEmptyCart
	}

	supplier := strings.TrimSpace(lines[0].SupplierName)
	if supplier == "" {
		return models.Warning("Please enter customer name."), ErrNoSupplier
	}

	for _, line := range lines {
		if line.Quantity <= 0 {
			return models.Warning(fmt.Sprintf("Invalid quantity for %s - %s", line.CompanyName, line.ModelNo)),
				ErrInvalidQuantity
		}
	}

	for _, line := range lines {
		if err := s.client.AddStock(ctx, line.ProductID, line.Quantity); err != nil {
			return s.submitFailure(line, err)
		}
		record := models.TransactionRecord{
			ProductID:    line.ProductID,
			CompanyName:  line.CompanyName,
			ModelNo:      line.ModelNo,
			Quantity:     models.Quantity(line.Quantity),
			SupplierName: line.SupplierName,
			Date:         line.Date,
			Notes:        line.Notes,
		}
		if err := s.client.CreatePurchase(ctx, record); err != nil {
			return s.submitFailure(line, err)
		}
	}

	s.Clear()
	s.logger.Info("purchase batch processed",
		zap.Int("lines", len(lines)),
		zap.String("supplier", supplier))
	return models.Success(fmt.Sprintf("Successfully processed %d products for %s", len(lines), supplier)), nil
}

func (s *Service) submitFailure(line models.CartLine, err error) (models.StatusMessage, error) {
	msg := "Error processing purchase"
	var apiErr *inventory.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}
	s.logger.Warn("purchase submission failed",
		zap.String("product_id", line.ProductID),
		zap.Error(err))
	return models.Error(msg), err
}

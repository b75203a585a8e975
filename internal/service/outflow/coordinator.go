// Package outflow coordinates a single stock-reducing mutation: advisory
// local checks, the remote call, an optimistic append for immediate feedback,
// and the deferred authoritative refetch that supersedes it.
package outflow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"stockdesk/internal/config"
	"stockdesk/internal/domain/models"
	"stockdesk/internal/repository/inventory"
	"stockdesk/internal/service/reports"
)

// Validation failures detected before any network interaction.
var (
	ErrNoProduct         = errors.New("no product selected")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInsufficientStock = errors.New("quantity exceeds available stock")
	// ErrBusy gates double submission: one attempt per surface at a time.
	ErrBusy = errors.New("a stock reduction is already in progress")
)

// State is the coordinator's position in the mutation cycle.
type State int32

const (
	StateIdle State = iota
	StateInFlight
	StateReconciling
)

// Coordinator runs the reduce-stock cycle. It performs at most one attempt
// per trigger and never retries; the remote API stays the single source of
// truth and only local state is ever rolled back.
type Coordinator struct {
	client  inventory.Client
	reports *reports.Service
	logger  *zap.Logger

	settleDelay time.Duration
	now         func() time.Time
	// afterFunc is swapped out in tests to run the reconcile synchronously.
	afterFunc func(time.Duration, func()) *time.Timer

	mu    sync.Mutex
	state State
}

// NewCoordinator wires a coordinator instance.
func NewCoordinator(client inventory.Client, reportsSvc *reports.Service, cfg config.OutflowConfig, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		client:      client,
		reports:     reportsSvc,
		logger:      logger,
		settleDelay: cfg.SettleDelay,
		now:         time.Now,
		afterFunc:   time.AfterFunc,
	}
}

// State reports the coordinator's current position in the mutation cycle.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) tryBegin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return false
	}
	c.state = StateInFlight
	return true
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// ReduceStock runs one mutation attempt for the selected product. The
// quantity arrives as entered text and must parse to a positive integer no
// larger than the product's last-known stock; those checks are advisory only,
// the server performs the authoritative one. The returned StatusMessage is
// the inline feedback for the caller; err carries the machine-readable cause.
func (c *Coordinator) ReduceStock(ctx context.Context, product *models.Product, quantity string) (models.StatusMessage, error) {
	if product == nil || strings.TrimSpace(quantity) == "" {
		return models.Warning("Please select a product and enter quantity."), ErrNoProduct
	}

	qty, err := strconv.Atoi(strings.TrimSpace(quantity))
	if err != nil || qty <= 0 {
		return models.Warning("Please enter a valid quantity."), ErrInvalidQuantity
	}

	if qty > product.Quantity {
		return models.Warning(fmt.Sprintf("Quantity exceeds available stock (%d available).", product.Quantity)),
			ErrInsufficientStock
	}

	if !c.tryBegin() {
		return models.Warning("A stock reduction is already being processed."), ErrBusy
	}

	stamp := c.now()
	res, err := c.client.ReduceStock(ctx, product.ID, qty, stamp)
	if err != nil {
		// Restore pre-attempt state: strip anything synthetic from every list.
		c.reports.RemoveTemporary()
		c.setState(StateIdle)

		if errors.Is(err, inventory.ErrSessionExpired) {
			return models.Error("Session expired."), err
		}

		msg := "Error reducing stock"
		var apiErr *inventory.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		c.logger.Warn("reduce stock failed",
			zap.String("product_id", product.ID),
			zap.Int("reduce_by", qty),
			zap.Error(err))
		return models.Error(msg), err
	}

	tempID := fmt.Sprintf("%s%d", reports.TempIDPrefix, stamp.UnixMilli())
	isoStamp := stamp.Format(time.RFC3339)
	c.reports.AppendOptimistic(
		models.TransactionRecord{
			ID:          tempID,
			ProductID:   product.ID,
			CompanyName: product.CompanyName,
			ModelNo:     product.ModelNo,
			TotalSold:   models.Quantity(qty),
			PartyName:   models.WalkInCustomer,
			Date:        isoStamp,
		},
		models.TransactionRecord{
			ID:          tempID + "_outflow",
			ProductID:   product.ID,
			CompanyName: product.CompanyName,
			ModelNo:     product.ModelNo,
			Quantity:    models.Quantity(qty),
			PartyName:   models.NoValue,
			CreatedAt:   isoStamp,
		},
	)

	c.setState(StateReconciling)
	c.afterFunc(c.settleDelay, c.reconcile)

	c.logger.Info("stock reduced",
		zap.String("product_id", product.ID),
		zap.Int("reduce_by", qty))

	message := res.Message
	if message == "" {
		message = "Stock reduced successfully"
	}
	return models.Success(message), nil
}

// reconcile refetches the authoritative lists, replacing the optimistic
// entries wholesale, then returns the coordinator to idle.
func (c *Coordinator) reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.reports.RefreshAll(ctx); err != nil {
		c.logger.Warn("post-mutation refresh incomplete", zap.Error(err))
	}
	c.setState(StateIdle)
}

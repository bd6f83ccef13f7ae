package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/trynbuy/storefront/internal/cart"
	"github.com/trynbuy/storefront/internal/models"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrInvalidPayment     = errors.New("invalid payment method")
)

// EventPublisher receives confirmed orders. Publish failures must not
// fail the order; they are logged and dropped.
type EventPublisher interface {
	OrderConfirmed(ctx context.Context, order models.Order) error
}

type Config struct {
	// SettleDelay simulates the settlement round-trip; there is no real
	// payment collaborator, so settlement always succeeds after it.
	SettleDelay time.Duration
	// ConfirmDisplayDelay is how long the confirmation stays visible
	// before the cart is cleared and the flow returns to browsing.
	ConfirmDisplayDelay time.Duration
}

// Snapshot is the observable orchestrator state. Order is present from
// the moment checkout starts until the confirmation display ends.
type Snapshot struct {
	Status models.OrderStatus `json:"status"`
	Order  *models.Order      `json:"order,omitempty"`
}

// Orchestrator runs one checkout at a time over the session cart. It
// snapshots the cart when an order is placed; later cart mutations
// cannot reach the snapshot.
type Orchestrator struct {
	mu      sync.Mutex
	status  models.OrderStatus
	current *models.Order
	store   *cart.Store
	cfg     Config
	pub     EventPublisher
}

func NewOrchestrator(store *cart.Store, cfg Config, pub EventPublisher) *Orchestrator {
	return &Orchestrator{
		status: models.OrderBuilding,
		store:  store,
		cfg:    cfg,
		pub:    pub,
	}
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	snap := Snapshot{Status: o.status}
	if o.current != nil {
		order := *o.current
		order.Lines = append([]models.CartLine(nil), o.current.Lines...)
		snap.Order = &order
	}
	return snap
}

// PlaceOrder snapshots the cart and runs the simulated settlement.
// Allowed from building and from failed (retry keeps the cart intact);
// an empty cart is rejected so the caller redirects to browsing. The
// only failure source in scope is the caller abandoning the request:
// context cancellation during settlement moves to failed and discards
// the snapshot.
func (o *Orchestrator) PlaceOrder(ctx context.Context, method models.PaymentMethod) (models.Order, error) {
	if !method.Valid() {
		return models.Order{}, fmt.Errorf("%w: %q", ErrInvalidPayment, method)
	}

	o.mu.Lock()
	switch o.status {
	case models.OrderProcessing, models.OrderConfirmed:
		o.mu.Unlock()
		return models.Order{}, ErrCheckoutInProgress
	case models.OrderFailed:
		// retry edge: failed -> building, cart untouched
		o.status = models.OrderBuilding
	}

	lines := o.store.Lines()
	if len(lines) == 0 {
		o.mu.Unlock()
		return models.Order{}, ErrEmptyCart
	}

	// totals derive from the copied lines, not a second store read; a
	// concurrent cart mutation must not split the snapshot
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal())
	}
	tax := subtotal.Mul(models.TaxRate)
	order := models.Order{
		ID:            uuid.New(),
		Lines:         lines,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         subtotal.Add(tax),
		PaymentMethod: method,
		Status:        models.OrderProcessing,
		PlacedAt:      time.Now(),
	}
	o.status = models.OrderProcessing
	o.current = &order
	o.mu.Unlock()

	if err := o.settle(ctx); err != nil {
		o.mu.Lock()
		o.status = models.OrderFailed
		o.current = nil
		o.mu.Unlock()
		return models.Order{}, fmt.Errorf("settlement interrupted: %w", err)
	}

	o.mu.Lock()
	o.status = models.OrderConfirmed
	o.current.Status = models.OrderConfirmed
	order.Status = models.OrderConfirmed
	o.mu.Unlock()

	if o.pub != nil {
		if err := o.pub.OrderConfirmed(ctx, order); err != nil {
			log.Errorw(ctx, "publish confirmed order", "order_id", order.ID, "error", err)
		}
	}

	time.AfterFunc(o.cfg.ConfirmDisplayDelay, o.finishConfirmation)

	return order, nil
}

func (o *Orchestrator) settle(ctx context.Context) error {
	timer := time.NewTimer(o.cfg.SettleDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// finishConfirmation ends the confirmation display: the cart is
// cleared, the snapshot discarded, and the flow returns to building.
func (o *Orchestrator) finishConfirmation() {
	o.mu.Lock()
	if o.status != models.OrderConfirmed {
		o.mu.Unlock()
		return
	}
	o.status = models.OrderBuilding
	o.current = nil
	o.mu.Unlock()

	o.store.Clear()
}

package checkout_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trynbuy/storefront/internal/cart"
	"github.com/trynbuy/storefront/internal/checkout"
	"github.com/trynbuy/storefront/internal/models"
)

const (
	waitFor = time.Second
	tick    = 2 * time.Millisecond
)

type capturingPublisher struct {
	mu     sync.Mutex
	orders []models.Order
}

func (p *capturingPublisher) OrderConfirmed(_ context.Context, order models.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders = append(p.orders, order)
	return nil
}

func (p *capturingPublisher) published() []models.Order {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Order(nil), p.orders...)
}

func product(id, price string) models.Product {
	return models.Product{
		ID:       models.ObjectID(id),
		Name:     "product " + id,
		Price:    models.MustDecimal(price),
		Category: models.CategoryShoes,
	}
}

func newFixture(cfg checkout.Config) (*cart.Store, *checkout.Orchestrator, *capturingPublisher) {
	store := cart.NewStore()
	pub := &capturingPublisher{}
	return store, checkout.NewOrchestrator(store, cfg, pub), pub
}

func fastConfig() checkout.Config {
	return checkout.Config{SettleDelay: time.Millisecond, ConfirmDisplayDelay: 10 * time.Millisecond}
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	_, o, _ := newFixture(fastConfig())

	_, err := o.PlaceOrder(context.Background(), models.PaymentUPI)
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
	assert.Equal(t, models.OrderBuilding, o.Snapshot().Status)
}

func TestPlaceOrderRejectsUnknownPaymentMethod(t *testing.T) {
	store, o, _ := newFixture(fastConfig())
	store.AddItem(product("64a000000000000000000001", "100.00"))

	_, err := o.PlaceOrder(context.Background(), models.PaymentMethod("cheque"))
	assert.ErrorIs(t, err, checkout.ErrInvalidPayment)
}

func TestPlaceOrderTotals(t *testing.T) {
	store, o, pub := newFixture(fastConfig())
	shoes := product("64a000000000000000000001", "50.00")
	store.AddItem(shoes)
	store.UpdateQuantity(shoes.ID, 2)

	order, err := o.PlaceOrder(context.Background(), models.PaymentDebitCard)
	require.NoError(t, err)

	assert.Equal(t, models.OrderConfirmed, order.Status)
	assert.Equal(t, "100.00", order.Subtotal.StringFixed(2))
	assert.Equal(t, "18.00", order.Tax.StringFixed(2))
	assert.Equal(t, "118.00", order.Total.StringFixed(2))
	assert.Equal(t, models.PaymentDebitCard, order.PaymentMethod)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, 2, order.Lines[0].Quantity)

	published := pub.published()
	require.Len(t, published, 1)
	assert.Equal(t, order.ID, published[0].ID)
}

func TestConfirmationDisplayThenCartClears(t *testing.T) {
	store, o, _ := newFixture(checkout.Config{
		SettleDelay:         time.Millisecond,
		ConfirmDisplayDelay: 100 * time.Millisecond,
	})
	store.AddItem(product("64a000000000000000000001", "89.99"))

	order, err := o.PlaceOrder(context.Background(), models.PaymentUPI)
	require.NoError(t, err)

	// confirmation stays visible with the order attached before the
	// display window elapses
	snap := o.Snapshot()
	require.Equal(t, models.OrderConfirmed, snap.Status)
	require.NotNil(t, snap.Order)
	assert.Equal(t, order.ID, snap.Order.ID)
	assert.NotEmpty(t, store.Lines(), "cart is cleared only after the display window")

	require.Eventually(t, func() bool {
		return o.Snapshot().Status == models.OrderBuilding
	}, waitFor, tick)
	assert.Empty(t, store.Lines())
	assert.Nil(t, o.Snapshot().Order)
}

func TestOrderSnapshotIgnoresLaterCartMutations(t *testing.T) {
	store, o, _ := newFixture(checkout.Config{
		SettleDelay:         50 * time.Millisecond,
		ConfirmDisplayDelay: 10 * time.Millisecond,
	})
	glasses := product("64a000000000000000000001", "100.00")
	store.AddItem(glasses)

	done := make(chan models.Order, 1)
	go func() {
		order, err := o.PlaceOrder(context.Background(), models.PaymentCreditCard)
		require.NoError(t, err)
		done <- order
	}()

	require.Eventually(t, func() bool {
		return o.Snapshot().Status == models.OrderProcessing
	}, waitFor, tick)

	// mutations during settlement must not reach the placed order
	store.UpdateQuantity(glasses.ID, 7)
	store.AddItem(product("64a000000000000000000002", "999.00"))

	order := <-done
	assert.Equal(t, "100.00", order.Subtotal.StringFixed(2))
	require.Len(t, order.Lines, 1)
	assert.Equal(t, 1, order.Lines[0].Quantity)
}

func TestOrderSnapshotStaysCoherentUnderConcurrentMutation(t *testing.T) {
	store := cart.NewStore()
	glasses := product("64a000000000000000000001", "100.00")
	store.AddItem(glasses)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		quantity := 1
		for {
			select {
			case <-stop:
				return
			default:
			}
			quantity = 8 - quantity
			store.UpdateQuantity(glasses.ID, quantity)
		}
	}()

	// a fresh orchestrator per order keeps the cart populated; the long
	// display delay defers the clear past the end of the test
	cfg := checkout.Config{SettleDelay: 0, ConfirmDisplayDelay: time.Hour}
	for i := 0; i < 500; i++ {
		o := checkout.NewOrchestrator(store, cfg, nil)
		order, err := o.PlaceOrder(context.Background(), models.PaymentUPI)
		require.NoError(t, err)

		sum := decimal.Zero
		for _, l := range order.Lines {
			sum = sum.Add(l.LineTotal())
		}
		require.True(t, sum.Equal(order.Subtotal),
			"lines sum to %s but subtotal is %s", sum, order.Subtotal)
		require.True(t, order.Subtotal.Mul(models.TaxRate).Equal(order.Tax))
	}

	close(stop)
	wg.Wait()
}

func TestSecondPlaceOrderWhileProcessing(t *testing.T) {
	store, o, _ := newFixture(checkout.Config{
		SettleDelay:         50 * time.Millisecond,
		ConfirmDisplayDelay: 10 * time.Millisecond,
	})
	store.AddItem(product("64a000000000000000000001", "10.00"))

	done := make(chan error, 1)
	go func() {
		_, err := o.PlaceOrder(context.Background(), models.PaymentUPI)
		done <- err
	}()

	require.Eventually(t, func() bool {
		return o.Snapshot().Status == models.OrderProcessing
	}, waitFor, tick)

	_, err := o.PlaceOrder(context.Background(), models.PaymentUPI)
	assert.ErrorIs(t, err, checkout.ErrCheckoutInProgress)
	require.NoError(t, <-done)
}

func TestAbandonedSettlementFailsAndKeepsCart(t *testing.T) {
	store, o, pub := newFixture(fastConfig())
	store.AddItem(product("64a000000000000000000001", "42.00"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.PlaceOrder(ctx, models.PaymentNetBanking)
	require.ErrorIs(t, err, context.Canceled)

	snap := o.Snapshot()
	assert.Equal(t, models.OrderFailed, snap.Status)
	assert.Nil(t, snap.Order, "failed checkout discards the order snapshot")
	assert.Len(t, store.Lines(), 1, "failed checkout keeps the cart for retry")
	assert.Empty(t, pub.published())

	// retry from failed runs to confirmation without any reset call
	order, err := o.PlaceOrder(context.Background(), models.PaymentNetBanking)
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, order.Status)
	assert.Len(t, pub.published(), 1)
}

package tests

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartservice "github.com/Rifaiiii04/ims-inventory-sub001/pkg/cart/domain/service"
	catalogmodel "github.com/Rifaiiii04/ims-inventory-sub001/pkg/catalog/domain/model"
	"github.com/Rifaiiii04/ims-inventory-sub001/pkg/common/domain"
	orderservice "github.com/Rifaiiii04/ims-inventory-sub001/pkg/order/application/service"
	"github.com/Rifaiiii04/ims-inventory-sub001/pkg/order/domain/model"
)

func setup(t *testing.T) (orderservice.OrderService, cartservice.Cart, *mockOrderAPI, *mockCatalog) {
	t.Helper()
	api := &mockOrderAPI{
		record: &model.OrderRecord{ID: "order-1", Total: 75000, Timestamp: time.Now()},
	}
	catalog := &mockCatalog{}
	cart := cartservice.NewCart(&mockEventDispatcher{})
	svc := orderservice.NewOrderService(api, cart, catalog, &mockEventDispatcher{}, nil)
	return svc, cart, api, catalog
}

// fillCart puts 5 x 15000 in the cart: total 75000.
func fillCart(t *testing.T, cart cartservice.Cart) {
	t.Helper()
	require.NoError(t, cart.Add(catalogmodel.Variant{
		ID:             "var-nasi",
		Name:           "Nasi Goreng",
		UnitPrice:      15000,
		FinishedStock:  10,
		PredictedStock: catalogmodel.PredictedStockUnknown,
		Kind:           catalogmodel.FinishedGood,
	}, 5, nil))
}

func TestSubmit(t *testing.T) {
	t.Run("rejects an empty cart without a network call", func(t *testing.T) {
		svc, _, api, _ := setup(t)
		_, err := svc.Submit(context.Background(), model.PaymentDetails{Method: model.PaymentCash, CashAmount: 100000})
		assert.ErrorIs(t, err, model.ErrEmptyOrder)
		assert.Empty(t, api.Requests())
	})

	t.Run("cash below the total is rejected locally", func(t *testing.T) {
		svc, cart, api, _ := setup(t)
		fillCart(t, cart)

		_, err := svc.Submit(context.Background(), model.PaymentDetails{Method: model.PaymentCash, CashAmount: 50000})

		assert.ErrorIs(t, err, model.ErrInvalidPayment)
		assert.Empty(t, api.Requests())
		assert.Equal(t, int64(75000), cart.Total())
	})

	t.Run("exact cash is accepted", func(t *testing.T) {
		svc, cart, api, _ := setup(t)
		fillCart(t, cart)
		_, err := svc.Submit(context.Background(), model.PaymentDetails{Method: model.PaymentCash, CashAmount: 75000})
		require.NoError(t, err)
		require.Len(t, api.Requests(), 1)
	})

	t.Run("transfer requires a proof reference", func(t *testing.T) {
		svc, cart, api, _ := setup(t)
		fillCart(t, cart)
		_, err := svc.Submit(context.Background(), model.PaymentDetails{Method: model.PaymentTransfer})
		assert.ErrorIs(t, err, model.ErrInvalidPayment)
		assert.Empty(t, api.Requests())
	})

	t.Run("unknown payment method is rejected", func(t *testing.T) {
		svc, cart, _, _ := setup(t)
		fillCart(t, cart)
		_, err := svc.Submit(context.Background(), model.PaymentDetails{Method: "voucher"})
		assert.ErrorIs(t, err, model.ErrInvalidPayment)
	})

	t.Run("success clears the cart and refreshes the catalog", func(t *testing.T) {
		svc, cart, api, catalog := setup(t)
		fillCart(t, cart)

		record, err := svc.Submit(context.Background(), model.PaymentDetails{Method: model.PaymentTransfer, TransferProof: "TRX-123"})

		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, "order-1", record.ID)

		assert.Empty(t, cart.Lines())
		assert.Equal(t, int64(0), cart.Total())
		assert.Equal(t, 1, catalog.Invalidations())
		assert.Equal(t, 1, catalog.ForcedLoads())

		requests := api.Requests()
		require.Len(t, requests, 1)
		require.Len(t, requests[0].Items, 1)
		assert.Equal(t, "var-nasi", requests[0].Items[0].VariantID)
		assert.Equal(t, 5, requests[0].Items[0].Quantity)
		assert.Equal(t, model.PaymentTransfer, requests[0].PaymentMethod)
	})

	t.Run("server rejection preserves the cart verbatim", func(t *testing.T) {
		svc, cart, api, catalog := setup(t)
		fillCart(t, cart)
		api.err = errors.New("stok bahan baku tidak mencukupi")

		_, err := svc.Submit(context.Background(), model.PaymentDetails{Method: model.PaymentCash, CashAmount: 100000})

		require.EqualError(t, err, "stok bahan baku tidak mencukupi")
		assert.Equal(t, int64(75000), cart.Total())
		assert.Equal(t, 0, catalog.Invalidations())
	})

	t.Run("a failed post-commit refresh does not fail the order", func(t *testing.T) {
		svc, cart, _, catalog := setup(t)
		fillCart(t, cart)
		catalog.loadErr = errors.New("catalog unreachable")

		record, err := svc.Submit(context.Background(), model.PaymentDetails{Method: model.PaymentCash, CashAmount: 80000})

		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Empty(t, cart.Lines())
	})
}

type mockOrderAPI struct {
	mu       sync.Mutex
	requests []model.OrderRequest
	record   *model.OrderRecord
	err      error
}

func (m *mockOrderAPI) Submit(_ context.Context, req model.OrderRequest) (*model.OrderRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.requests = append(m.requests, req)
	return m.record, nil
}

func (m *mockOrderAPI) Requests() []model.OrderRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.OrderRequest(nil), m.requests...)
}

type mockCatalog struct {
	mu            sync.Mutex
	invalidations int
	forcedLoads   int
	loadErr       error
}

func (m *mockCatalog) Load(_ context.Context, forceRefresh bool) ([]catalogmodel.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if forceRefresh {
		m.forcedLoads++
	}
	return nil, m.loadErr
}

func (m *mockCatalog) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidations++
}

func (m *mockCatalog) Invalidations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invalidations
}

func (m *mockCatalog) ForcedLoads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.forcedLoads
}

type mockEventDispatcher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (m *mockEventDispatcher) Dispatch(event domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

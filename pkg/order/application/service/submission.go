package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	cartservice "github.com/Rifaiiii04/ims-inventory-sub001/pkg/cart/domain/service"
	catalogmodel "github.com/Rifaiiii04/ims-inventory-sub001/pkg/catalog/domain/model"
	"github.com/Rifaiiii04/ims-inventory-sub001/pkg/common/domain"
	"github.com/Rifaiiii04/ims-inventory-sub001/pkg/order/domain/model"
)

const refreshRetryDelay = 5 * time.Second

// Catalog is the slice of the catalog reader the submission flow needs.
type Catalog interface {
	Load(ctx context.Context, forceRefresh bool) ([]catalogmodel.Product, error)
	Invalidate()
}

type OrderService interface {
	Submit(ctx context.Context, payment model.PaymentDetails) (*model.OrderRecord, error)
}

func NewOrderService(api model.API, cart cartservice.Cart, catalog Catalog, dispatcher domain.EventDispatcher, logger log.FieldLogger) OrderService {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &orderService{
		api:        api,
		cart:       cart,
		catalog:    catalog,
		dispatcher: dispatcher,
		logger:     logger,
		retryDelay: refreshRetryDelay,
	}
}

type orderService struct {
	api        model.API
	cart       cartservice.Cart
	catalog    Catalog
	dispatcher domain.EventDispatcher
	logger     log.FieldLogger
	retryDelay time.Duration
}

// Submit validates payment locally, posts the cart to the order API and, on
// success, refreshes the catalog so displayed availability reflects the
// just-consumed stock before clearing the cart. On any failure the cart is
// left untouched so the cashier can retry.
func (s *orderService) Submit(ctx context.Context, payment model.PaymentDetails) (*model.OrderRecord, error) {
	lines := s.cart.Lines()
	if len(lines) == 0 {
		return nil, model.ErrEmptyOrder
	}
	if err := validatePayment(payment, s.cart.Total()); err != nil {
		return nil, err
	}

	reference := uuid.New().String()
	req := model.OrderRequest{
		Items:         make([]model.OrderItem, 0, len(lines)),
		PaymentMethod: payment.Method,
		CashAmount:    payment.CashAmount,
		TransferProof: payment.TransferProof,
	}
	for _, line := range lines {
		req.Items = append(req.Items, model.OrderItem{
			VariantID: line.Variant.ID,
			Quantity:  line.Quantity,
		})
	}

	record, err := s.api.Submit(ctx, req)
	if err != nil {
		_ = s.dispatcher.Dispatch(model.OrderRejected{Reference: reference, Reason: err.Error()})
		return nil, err
	}

	s.catalog.Invalidate()
	if _, err := s.catalog.Load(ctx, true); err != nil {
		s.logger.WithError(err).Warn("post-order catalog refresh failed, scheduling one retry")
		s.scheduleRefreshRetry()
	}
	s.cart.Clear()

	_ = s.dispatcher.Dispatch(model.OrderSubmitted{
		Reference: reference,
		OrderID:   record.ID,
		Total:     record.Total,
		Items:     len(record.Items),
	})
	return record, nil
}

func validatePayment(payment model.PaymentDetails, total int64) error {
	switch payment.Method {
	case model.PaymentCash:
		if payment.CashAmount < total {
			return model.ErrInvalidPayment
		}
	case model.PaymentTransfer:
		if payment.TransferProof == "" {
			return model.ErrInvalidPayment
		}
	default:
		return model.ErrInvalidPayment
	}
	return nil
}

// scheduleRefreshRetry runs exactly one delayed background reload; the
// success path is never blocked on it.
func (s *orderService) scheduleRefreshRetry() {
	time.AfterFunc(s.retryDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.catalog.Load(ctx, true); err != nil {
			s.logger.WithError(err).Warn("catalog refresh retry failed")
		}
	})
}

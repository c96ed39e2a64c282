package checkout

import (
	"context"
	"fmt"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"go.uber.org/zap"
)

type OrderCreator interface {
	CreateOrder(ctx context.Context, order domain.OrderPayload) (domain.OrderConfirmation, error)
}

type Result struct {
	Submitted bool
	OrderID   string
	CloseCart bool
}

type Submitter struct {
	cart     *cart.Cart
	orders   OrderCreator
	notifier Notifier
	customer domain.Customer
	log      *zap.Logger
}

func NewSubmitter(c *cart.Cart, orders OrderCreator, notifier Notifier, log *zap.Logger) *Submitter {
	return &Submitter{
		cart:     c,
		orders:   orders,
		notifier: notifier,
		customer: domain.GuestCustomer,
		log:      log,
	}
}

// Checkout submits the cart as an order. An empty cart is a no-op.
// On success the cart is cleared; on failure it is left untouched and
// nothing is retried.
func (s *Submitter) Checkout(ctx context.Context) (Result, error) {
	items, totals := s.cart.Snapshot()
	if len(items) == 0 {
		return Result{}, nil
	}

	log := logger.With(ctx, s.log)
	order := BuildOrder(s.customer, items, totals)

	conf, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		err = fmt.Errorf("create order failed: %w", err)
		log.Error("checkout failed", zap.Error(err), zap.Int("items", len(items)))
		s.notifier.CheckoutFailed(err)
		return Result{}, err
	}

	s.cart.Clear()
	log.Info("checkout completed",
		zap.String("order_id", conf.ID),
		zap.String("total", totals.Total.StringFixed(2)))
	s.notifier.OrderPlaced(conf.ID)

	return Result{Submitted: true, OrderID: conf.ID, CloseCart: true}, nil
}

// BuildOrder copies the cart into an order payload, dropping the cart keys.
func BuildOrder(customer domain.Customer, items []domain.CartLineItem, totals cart.Totals) domain.OrderPayload {
	lines := make([]domain.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, domain.OrderLine{
			Title:     item.Title,
			Price:     item.Price,
			Size:      item.Size,
			Quantity:  item.Quantity,
			ProductID: item.ProductID,
			Image:     item.Image,
		})
	}

	return domain.OrderPayload{
		Customer: customer,
		Items:    lines,
		Subtotal: totals.Subtotal,
		Shipping: totals.Shipping,
		Total:    totals.Total,
	}
}

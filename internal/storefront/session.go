package storefront

import (
	"context"
	"errors"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/checkout"
	"go.uber.org/zap"
)

var ErrProductNotFound = errors.New("product not found in catalog")

// Session is the state one shopper interacts with. Views read it and route
// every change through its methods.
type Session struct {
	Catalog *catalog.Store
	Cart    *cart.Cart
	Inbox   *Inbox

	checkout *checkout.Submitter

	mu       sync.RWMutex
	cartOpen bool
	category string
}

func NewSession(store *catalog.Store, c *cart.Cart, orders checkout.OrderCreator, log *zap.Logger) *Session {
	inbox := NewInbox()
	return &Session{
		Catalog:  store,
		Cart:     c,
		Inbox:    inbox,
		checkout: checkout.NewSubmitter(c, orders, inbox, log),
	}
}

// AddToCart adds the catalog product matching id (or title when id is empty)
// and opens the cart when asked to.
func (s *Session) AddToCart(productID, title string) (cart.AddResult, error) {
	p, ok := s.Catalog.Find(productID, title)
	if !ok {
		return cart.AddResult{}, ErrProductNotFound
	}

	res := s.Cart.Add(p)
	if res.ShouldOpenCart {
		s.setCartOpen(true)
	}
	return res, nil
}

func (s *Session) UpdateQuantity(key string, quantity int) bool {
	return s.Cart.UpdateQuantity(key, quantity)
}

func (s *Session) Checkout(ctx context.Context) (checkout.Result, error) {
	res, err := s.checkout.Checkout(ctx)
	if err != nil {
		return res, err
	}
	if res.CloseCart {
		s.setCartOpen(false)
	}
	return res, nil
}

func (s *Session) OpenCart()  { s.setCartOpen(true) }
func (s *Session) CloseCart() { s.setCartOpen(false) }

func (s *Session) CartOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cartOpen
}

func (s *Session) SetCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.category = category
}

func (s *Session) Category() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.category == "" {
		return catalog.AllCategories
	}
	return s.category
}

func (s *Session) setCartOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartOpen = open
}

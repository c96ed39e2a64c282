package cart

import (
	"sync"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// Cart is an ordered set of line items keyed by title and size.
// All methods are safe for concurrent use.
type Cart struct {
	mu       sync.RWMutex
	items    []domain.CartLineItem
	shipping ShippingPolicy
}

type AddResult struct {
	Item           domain.CartLineItem
	ShouldOpenCart bool
}

func New(policy ShippingPolicy) *Cart {
	return &Cart{shipping: policy}
}

// Add puts one unit of the product in the cart. A product already in the cart
// under the same key keeps its original price and gains one unit.
func (c *Cart) Add(p domain.Product) AddResult {
	size := p.CartSize()
	key := domain.LineItemKey(p.Title, size)

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(key); i >= 0 {
		c.items[i].Quantity++
		return AddResult{Item: c.items[i], ShouldOpenCart: true}
	}

	item := domain.CartLineItem{
		Key:       key,
		ProductID: p.ID,
		Title:     p.Title,
		Price:     p.Price,
		Size:      size,
		Quantity:  1,
		Image:     p.FirstImage(),
	}
	c.items = append(c.items, item)
	return AddResult{Item: item, ShouldOpenCart: true}
}

// UpdateQuantity sets the quantity of the item with the given key, never below 1.
// It reports whether the key was found.
func (c *Cart) UpdateQuantity(key string, quantity int) bool {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(key)
	if i < 0 {
		return false
	}
	c.items[i].Quantity = quantity
	return true
}

func (c *Cart) Item(key string) (domain.CartLineItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := c.indexOf(key)
	if i < 0 {
		return domain.CartLineItem{}, false
	}
	return c.items[i], true
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []domain.CartLineItem {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.CartLineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return subtotal(c.items)
}

func (c *Cart) Shipping(subtotal decimal.Decimal) decimal.Decimal {
	return c.shipping.Cost(subtotal)
}

func (c *Cart) Total() decimal.Decimal {
	return c.Totals().Total
}

type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// Snapshot returns the items and their totals computed from the same state.
func (c *Cart) Snapshot() ([]domain.CartLineItem, Totals) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items := make([]domain.CartLineItem, len(c.items))
	copy(items, c.items)
	return items, c.totals(items)
}

func (c *Cart) Totals() Totals {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.totals(c.items)
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

func (c *Cart) totals(items []domain.CartLineItem) Totals {
	sub := subtotal(items)
	ship := c.shipping.Cost(sub)
	return Totals{Subtotal: sub, Shipping: ship, Total: sub.Add(ship)}
}

func (c *Cart) indexOf(key string) int {
	for i := range c.items {
		if c.items[i].Key == key {
			return i
		}
	}
	return -1
}

func subtotal(items []domain.CartLineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

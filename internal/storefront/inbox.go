package storefront

import (
	"fmt"
	"sync"
	"time"
)

const (
	KindOrderPlaced    = "order_placed"
	KindCheckoutFailed = "checkout_failed"

	inboxCapacity = 20
)

type Notification struct {
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	OrderID string    `json:"order_id,omitempty"`
	At      time.Time `json:"at"`
}

// Inbox queues checkout notifications until the renderer collects them.
// Only the most recent notifications are kept.
type Inbox struct {
	mu    sync.Mutex
	items []Notification
	now   func() time.Time
}

func NewInbox() *Inbox {
	return &Inbox{now: time.Now}
}

func (i *Inbox) OrderPlaced(orderID string) {
	i.push(Notification{
		Kind:    KindOrderPlaced,
		Message: fmt.Sprintf("Order placed! ID: %s", orderID),
		OrderID: orderID,
	})
}

func (i *Inbox) CheckoutFailed(error) {
	i.push(Notification{
		Kind:    KindCheckoutFailed,
		Message: "Checkout failed",
	})
}

// Drain returns the queued notifications, oldest first, and empties the inbox.
func (i *Inbox) Drain() []Notification {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := i.items
	i.items = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

func (i *Inbox) push(n Notification) {
	n.At = i.now()

	i.mu.Lock()
	defer i.mu.Unlock()
	i.items = append(i.items, n)
	if len(i.items) > inboxCapacity {
		i.items = i.items[len(i.items)-inboxCapacity:]
	}
}

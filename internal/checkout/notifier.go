package checkout

// Notifier tells the shopper how a checkout ended.
type Notifier interface {
	OrderPlaced(orderID string)
	CheckoutFailed(err error)
}

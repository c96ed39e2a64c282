package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

type Customer struct {
	Name            string
	Email           string
	ShippingAddress string
}

// GuestCustomer is sent with every order; there is no sign-in.
var GuestCustomer = Customer{
	Name:            "Guest",
	Email:           "guest@example.com",
	ShippingAddress: "N/A",
}

type OrderLine struct {
	Title     string
	Price     decimal.Decimal
	Size      string
	Quantity  int
	ProductID string
	Image     string
}

type OrderPayload struct {
	Customer Customer
	Items    []OrderLine
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

type orderLineJSON struct {
	Title     string      `json:"title"`
	Price     json.Number `json:"price"`
	Size      string      `json:"size"`
	Quantity  int         `json:"quantity"`
	ProductID string      `json:"product_id"`
	Image     string      `json:"image"`
}

type orderPayloadJSON struct {
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	ShippingAddress string          `json:"shipping_address"`
	Items           []orderLineJSON `json:"items"`
	Subtotal        json.Number     `json:"subtotal"`
	Shipping        json.Number     `json:"shipping"`
	Total           json.Number     `json:"total"`
}

// MarshalJSON writes money as JSON numbers with two decimals.
func (o OrderPayload) MarshalJSON() ([]byte, error) {
	items := make([]orderLineJSON, 0, len(o.Items))
	for _, l := range o.Items {
		items = append(items, orderLineJSON{
			Title:     l.Title,
			Price:     money(l.Price),
			Size:      l.Size,
			Quantity:  l.Quantity,
			ProductID: l.ProductID,
			Image:     l.Image,
		})
	}

	return json.Marshal(orderPayloadJSON{
		CustomerName:    o.Customer.Name,
		CustomerEmail:   o.Customer.Email,
		ShippingAddress: o.Customer.ShippingAddress,
		Items:           items,
		Subtotal:        money(o.Subtotal),
		Shipping:        money(o.Shipping),
		Total:           money(o.Total),
	})
}

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

// OrderConfirmation is the collaborator's reply to an order submission.
type OrderConfirmation struct {
	ID string
}

func (c *OrderConfirmation) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      json.RawMessage `json:"id"`
		MongoID json.RawMessage `json:"_id"`
		OrderID json.RawMessage `json:"order_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := decodeID(raw.ID, raw.MongoID, raw.OrderID)
	if err != nil {
		return fmt.Errorf("order confirmation: %w", err)
	}
	c.ID = id
	return nil
}

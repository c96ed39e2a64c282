package domain

import "github.com/shopspring/decimal"

type CartLineItem struct {
	Key       string
	ProductID string
	Title     string
	Price     decimal.Decimal
	Size      string
	Quantity  int
	Image     string
}

// LineTotal is price × quantity.
func (i CartLineItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func LineItemKey(title, size string) string {
	return title + "-" + size
}

// FormatPrice renders an amount for display, rounded to cents.
func FormatPrice(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

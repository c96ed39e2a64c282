package cart

import "github.com/shopspring/decimal"

var (
	DefaultFreeShippingThreshold = decimal.NewFromInt(100)
	DefaultFlatShippingFee       = decimal.RequireFromString("7.5")
)

// ShippingPolicy charges a flat fee unless the subtotal is strictly above the threshold.
type ShippingPolicy struct {
	FreeShippingThreshold decimal.Decimal
	FlatFee               decimal.Decimal
}

func DefaultShippingPolicy() ShippingPolicy {
	return ShippingPolicy{
		FreeShippingThreshold: DefaultFreeShippingThreshold,
		FlatFee:               DefaultFlatShippingFee,
	}
}

func (p ShippingPolicy) Cost(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.FlatFee
}

package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

const DefaultSize = "M"

type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Images      []string        `json:"images"`
	Sizes       []string        `json:"sizes"`
}

// UnmarshalJSON accepts the identifier under "id" or "_id", as a string or a number.
func (p *Product) UnmarshalJSON(data []byte) error {
	type alias Product
	var raw struct {
		alias
		ID      json.RawMessage `json:"id"`
		MongoID json.RawMessage `json:"_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Product(raw.alias)
	id, err := decodeID(raw.ID, raw.MongoID)
	if err != nil {
		return fmt.Errorf("product %q: %w", p.Title, err)
	}
	p.ID = id
	return nil
}

// FirstImage returns the first listed image or an empty string.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// CartSize is the size a product is added to the cart with.
func (p Product) CartSize() string {
	if len(p.Sizes) == 0 || p.Sizes[0] == "" {
		return DefaultSize
	}
	return p.Sizes[0]
}

func decodeID(candidates ...json.RawMessage) (string, error) {
	for _, c := range candidates {
		c = bytes.TrimSpace(c)
		if len(c) == 0 || bytes.Equal(c, []byte("null")) {
			continue
		}
		if c[0] == '"' {
			var s string
			if err := json.Unmarshal(c, &s); err != nil {
				return "", fmt.Errorf("decode id: %w", err)
			}
			return s, nil
		}
		var n json.Number
		if err := json.Unmarshal(c, &n); err != nil {
			return "", fmt.Errorf("decode id: %w", err)
		}
		return n.String(), nil
	}
	return "", nil
}

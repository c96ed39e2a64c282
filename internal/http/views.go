package http

import (
	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/domain"
)

type ProductCardDTO struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       string   `json:"price"`
	Image       string   `json:"image"`
	Sizes       []string `json:"sizes"`
}

type ProductsResponse struct {
	Category string           `json:"category"`
	Products []ProductCardDTO `json:"products"`
}

type CartItemDTO struct {
	Key       string `json:"key"`
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image"`
	Price     string `json:"price"`
	LineTotal string `json:"line_total"`
}

type CartResponse struct {
	Open     bool          `json:"open"`
	Count    int           `json:"count"`
	Items    []CartItemDTO `json:"items"`
	Subtotal string        `json:"subtotal"`
	Shipping string        `json:"shipping"`
	Total    string        `json:"total"`
}

func productCard(p domain.Product) ProductCardDTO {
	sizes := p.Sizes
	if sizes == nil {
		sizes = []string{}
	}
	return ProductCardDTO{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Price:       domain.FormatPrice(p.Price),
		Image:       p.FirstImage(),
		Sizes:       sizes,
	}
}

func cartView(open bool, items []domain.CartLineItem, totals cart.Totals) CartResponse {
	dtos := make([]CartItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, CartItemDTO{
			Key:       item.Key,
			ProductID: item.ProductID,
			Title:     item.Title,
			Size:      item.Size,
			Quantity:  item.Quantity,
			Image:     item.Image,
			Price:     domain.FormatPrice(item.Price),
			LineTotal: domain.FormatPrice(item.LineTotal()),
		})
	}

	return CartResponse{
		Open:     open,
		Count:    len(items),
		Items:    dtos,
		Subtotal: domain.FormatPrice(totals.Subtotal),
		Shipping: domain.FormatPrice(totals.Shipping),
		Total:    domain.FormatPrice(totals.Total),
	}
}

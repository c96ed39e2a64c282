package http

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/fjod/go_cart/storefront/internal/storefront"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	session *storefront.Session
}

func NewCartHandler(session *storefront.Session) *CartHandler {
	return &CartHandler{session: session}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id" validate:"required_without=Title"`
	Title     string `json:"title" validate:"required_without=ProductID"`
}

type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK)
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	_, err := h.session.AddToCart(req.ProductID, req.Title)
	if errors.Is(err, storefront.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	h.render(w, http.StatusCreated)
}

// PUT /api/v1/cart/items/{key}
// Quantities below 1 are stored as 1.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	key, err := itemKey(r)
	if err != nil || key == "" {
		respondError(w, http.StatusBadRequest, "missing_key", "item key is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if !h.session.UpdateQuantity(key, *req.Quantity) {
		respondError(w, http.StatusNotFound, "not_found", "item not in cart")
		return
	}

	h.render(w, http.StatusOK)
}

// POST /api/v1/cart/open
func (h *CartHandler) Open(w http.ResponseWriter, r *http.Request) {
	h.session.OpenCart()
	h.render(w, http.StatusOK)
}

// POST /api/v1/cart/close
func (h *CartHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.session.CloseCart()
	h.render(w, http.StatusOK)
}

// itemKey reads the {key} route param. chi matches on RawPath when it is set,
// so the param is still escaped only in that case.
func itemKey(r *http.Request) (string, error) {
	key := chi.URLParam(r, "key")
	if r.URL.RawPath == "" {
		return key, nil
	}
	return url.PathUnescape(key)
}

func (h *CartHandler) render(w http.ResponseWriter, status int) {
	items, totals := h.session.Cart.Snapshot()
	respondJSON(w, status, cartView(h.session.CartOpen(), items, totals))
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/storefront"
	"go.uber.org/zap"
)

type ProductHandler struct {
	session *storefront.Session
	timeout time.Duration
	log     *zap.Logger
}

func NewProductHandler(session *storefront.Session, timeout time.Duration, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		session: session,
		timeout: timeout,
		log:     log,
	}
}

type SeedResponse struct {
	Seed     json.RawMessage `json:"seed,omitempty"`
	Products int             `json:"products"`
}

// GET /api/v1/products?category=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	if category, ok := r.URL.Query()["category"]; ok {
		h.session.SetCategory(category[0])
	}
	category := h.session.Category()

	products := h.session.Catalog.Filter(category)
	cards := make([]ProductCardDTO, 0, len(products))
	for _, p := range products {
		cards = append(cards, productCard(p))
	}

	respondJSON(w, http.StatusOK, ProductsResponse{Category: category, Products: cards})
}

// GET /api/v1/categories
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.session.Catalog.Categories())
}

// POST /api/v1/products/refresh
// A failed reload is logged and the current catalog is returned.
func (h *ProductHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.session.Catalog.Load(ctx); err != nil {
		h.log.Warn("catalog refresh failed, serving current catalog",
			zap.String("request_id", getRequestID(r.Context())),
			zap.Error(err))
	}
	h.List(w, r)
}

// POST /api/v1/products/seed
func (h *ProductHandler) Seed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	res, err := h.session.Catalog.SeedIfEmpty(ctx)
	if err != nil {
		h.log.Warn("seed failed",
			zap.String("request_id", getRequestID(r.Context())),
			zap.Error(err))
	}

	respondJSON(w, http.StatusOK, SeedResponse{
		Seed:     res,
		Products: len(h.session.Catalog.Products()),
	})
}

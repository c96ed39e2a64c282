package http

import (
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/storefront"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type RouterConfig struct {
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
}

func NewRouter(session *storefront.Session, cfg RouterConfig, log *zap.Logger) chi.Router {
	products := NewProductHandler(session, cfg.RequestTimeout, log)
	carts := NewCartHandler(session)
	checkout := NewCheckoutHandler(session, cfg.RequestTimeout, log)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(MaxBodyMiddleware(cfg.MaxRequestBodySize))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", products.Categories)
		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.List)
			r.Post("/refresh", products.Refresh)
			r.Post("/seed", products.Seed)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", carts.GetCart)
			r.Post("/items", carts.AddItem)
			r.Put("/items/{key}", carts.UpdateQuantity)
			r.Post("/open", carts.Open)
			r.Post("/close", carts.Close)
		})
		r.Post("/checkout", checkout.Checkout)
		r.Get("/notifications", checkout.Notifications)
	})

	return r
}

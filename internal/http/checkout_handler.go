package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/storefront"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	session *storefront.Session
	timeout time.Duration
	log     *zap.Logger
}

func NewCheckoutHandler(session *storefront.Session, timeout time.Duration, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		session: session,
		timeout: timeout,
		log:     log,
	}
}

type CheckoutResponseDTO struct {
	Submitted bool   `json:"submitted"`
	OrderID   string `json:"order_id,omitempty"`
	Message   string `json:"message"`
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	res, err := h.session.Checkout(ctx)
	if err != nil {
		h.log.Error("checkout failed",
			zap.String("request_id", getRequestID(r.Context())),
			zap.Error(err))
		handleAPIError(w, err)
		return
	}

	if !res.Submitted {
		respondJSON(w, http.StatusOK, CheckoutResponseDTO{Message: "cart is empty"})
		return
	}

	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		Submitted: true,
		OrderID:   res.OrderID,
		Message:   "Order placed! ID: " + res.OrderID,
	})
}

// GET /api/v1/notifications
func (h *CheckoutHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.session.Inbox.Drain())
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/go_cart/storefront/internal/circuitbreaker"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	productsPath = "/api/products?featured=true"
	seedPath     = "/api/seed"
	ordersPath   = "/api/orders"

	maxResponseBodySize = 1 << 20 // 1MB
)

// Client talks to the catalog and order API.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *circuitbreaker.Breaker[[]byte]
	log     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, breaker circuitbreaker.Settings, log *zap.Logger) *Client {
	breaker.IsSuccessful = countsAsSuccess

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: circuitbreaker.New[[]byte](breaker, log),
		log:     log,
	}
}

func (c *Client) FeaturedProducts(ctx context.Context) ([]domain.Product, error) {
	body, err := c.do(ctx, http.MethodGet, productsPath, nil)
	if err != nil {
		return nil, err
	}

	var products []domain.Product
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("%w: products: %w", ErrDecode, err)
	}
	return products, nil
}

// Seed asks the API to populate its catalog with demo products.
// The reply is returned as-is.
func (c *Client) Seed(ctx context.Context) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodPost, seedPath, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func (c *Client) CreateOrder(ctx context.Context, order domain.OrderPayload) (domain.OrderConfirmation, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return domain.OrderConfirmation{}, fmt.Errorf("marshal order failed: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, ordersPath, payload)
	if err != nil {
		return domain.OrderConfirmation{}, err
	}

	var conf domain.OrderConfirmation
	if err := json.Unmarshal(body, &conf); err != nil {
		return domain.OrderConfirmation{}, fmt.Errorf("%w: order: %w", ErrDecode, err)
	}
	return conf, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
		if err != nil {
			return nil, fmt.Errorf("build request failed: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if requestID := logger.RequestID(ctx); requestID != "" {
			req.Header.Set("X-Request-ID", requestID)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
		if err != nil {
			return nil, fmt.Errorf("%w: read %s %s: %w", ErrNetwork, method, path, err)
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &ServerError{
				Method:     method,
				Path:       path,
				StatusCode: resp.StatusCode,
				Body:       string(data),
			}
		}
		return data, nil
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		err = fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err)
	}
	if err != nil {
		logger.With(ctx, c.log).Debug("collaborator call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, err
	}
	return body, nil
}

// countsAsSuccess keeps 4xx replies from tripping the breaker.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	status, ok := IsServerError(err)
	return ok && status < http.StatusInternalServerError
}

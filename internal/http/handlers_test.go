package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/fjod/go_cart/storefront/internal/api"
	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/storefront"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type ClientMock struct {
	products   []domain.Product
	seeded     []domain.Product
	loadErr    error
	orderID    string
	orderErr   error
	orderCalls int
	lastOrder  domain.OrderPayload
}

func (c *ClientMock) FeaturedProducts(context.Context) ([]domain.Product, error) {
	if c.loadErr != nil {
		return nil, c.loadErr
	}
	return c.products, nil
}

func (c *ClientMock) Seed(context.Context) (json.RawMessage, error) {
	if c.seeded != nil {
		c.products = c.seeded
	}
	return json.RawMessage(`{"message":"seeded"}`), nil
}

func (c *ClientMock) CreateOrder(_ context.Context, order domain.OrderPayload) (domain.OrderConfirmation, error) {
	c.orderCalls++
	c.lastOrder = order
	if c.orderErr != nil {
		return domain.OrderConfirmation{}, c.orderErr
	}
	return domain.OrderConfirmation{ID: c.orderID}, nil
}

func fixtureProducts() []domain.Product {
	return []domain.Product{
		{ID: "t1", Title: "Tee", Description: "Cotton tee", Price: decimal.NewFromInt(20), Category: "Tops", Images: []string{"tee.jpg"}, Sizes: []string{"S", "M"}},
		{ID: "j1", Title: "Jeans", Price: decimal.RequireFromString("59.9"), Category: "Bottoms"},
		{ID: "s1", Title: "Shorts", Price: decimal.NewFromInt(25), Category: "Bottoms"},
	}
}

func setupRouter(t *testing.T, client *ClientMock) (http.Handler, *storefront.Session) {
	t.Helper()
	store := catalog.NewStore(client, nil, zap.NewNop())
	_ = store.Load(context.Background())
	session := storefront.NewSession(store, cart.New(cart.DefaultShippingPolicy()), client, zap.NewNop())
	router := NewRouter(session, RouterConfig{RequestTimeout: 5 * time.Second, MaxRequestBodySize: 1 << 20}, zap.NewNop())
	return router, session
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	recorder := httptest.NewRecorder()
	h.ServeHTTP(recorder, httptest.NewRequest(method, path, reader))
	return recorder
}

func decodeCart(t *testing.T, recorder *httptest.ResponseRecorder) CartResponse {
	t.Helper()
	var resp CartResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	return resp
}

func TestHealth(t *testing.T) {
	router, _ := setupRouter(t, &ClientMock{})

	recorder := do(t, router, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	router, _ := setupRouter(t, &ClientMock{})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/health", nil)
	request.Header.Set("X-Request-ID", "test-request-123")

	router.ServeHTTP(recorder, request)

	assert.Equal(t, "test-request-123", recorder.Header().Get("X-Request-ID"))
}

func TestListProducts(t *testing.T) {
	router, session := setupRouter(t, &ClientMock{products: fixtureProducts()})

	tests := []struct {
		name     string
		path     string
		category string
		expected []string
	}{
		{"no category", "/api/v1/products/", "All", []string{"Tee", "Jeans", "Shorts"}},
		{"all", "/api/v1/products/?category=All", "All", []string{"Tee", "Jeans", "Shorts"}},
		{"bottoms", "/api/v1/products/?category=Bottoms", "Bottoms", []string{"Jeans", "Shorts"}},
		{"sticky category", "/api/v1/products/", "Bottoms", []string{"Jeans", "Shorts"}},
		{"empty resets", "/api/v1/products/?category=", "All", []string{"Tee", "Jeans", "Shorts"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := do(t, router, "GET", tt.path, nil)
			require.Equal(t, http.StatusOK, recorder.Code)

			var resp ProductsResponse
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
			assert.Equal(t, tt.category, resp.Category)
			titles := []string{}
			for _, p := range resp.Products {
				titles = append(titles, p.Title)
			}
			assert.Equal(t, tt.expected, titles)
			assert.Equal(t, tt.category, session.Category())
		})
	}
}

func TestListProducts_CardFormatting(t *testing.T) {
	router, _ := setupRouter(t, &ClientMock{products: fixtureProducts()})

	recorder := do(t, router, "GET", "/api/v1/products/?category=All", nil)

	var resp ProductsResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	require.Len(t, resp.Products, 3)
	assert.Equal(t, "$20.00", resp.Products[0].Price)
	assert.Equal(t, "tee.jpg", resp.Products[0].Image)
	assert.Equal(t, "$59.90", resp.Products[1].Price)
	assert.Equal(t, "", resp.Products[1].Image)
	assert.Equal(t, []string{}, resp.Products[1].Sizes)
}

func TestCategories(t *testing.T) {
	router, _ := setupRouter(t, &ClientMock{})

	recorder := do(t, router, "GET", "/api/v1/categories", nil)

	var cats []string
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&cats))
	assert.Equal(t, []string{"All", "Tops", "Outerwear", "Bottoms", "Dresses"}, cats)
}

func TestRefresh_FailureServesCurrentCatalog(t *testing.T) {
	client := &ClientMock{products: fixtureProducts()}
	router, _ := setupRouter(t, client)
	client.loadErr = &api.ServerError{Method: "GET", Path: "/api/products", StatusCode: 500}

	recorder := do(t, router, "POST", "/api/v1/products/refresh", nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp ProductsResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Len(t, resp.Products, 3)
}

func TestSeed(t *testing.T) {
	client := &ClientMock{seeded: fixtureProducts()}
	router, session := setupRouter(t, client)
	require.Empty(t, session.Catalog.Products())

	recorder := do(t, router, "POST", "/api/v1/products/seed", nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp SeedResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, 3, resp.Products)
	assert.JSONEq(t, `{"message":"seeded"}`, string(resp.Seed))
}

func TestAddItem_Success(t *testing.T) {
	router, _ := setupRouter(t, &ClientMock{products: fixtureProducts()})

	recorder := do(t, router, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "t1"})

	require.Equal(t, http.StatusCreated, recorder.Code)
	resp := decodeCart(t, recorder)
	assert.True(t, resp.Open)
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Tee-S", resp.Items[0].Key)
	assert.Equal(t, 1, resp.Items[0].Quantity)
	assert.Equal(t, "$20.00", resp.Subtotal)
	assert.Equal(t, "$7.50", resp.Shipping)
	assert.Equal(t, "$27.50", resp.Total)
}

func TestAddItem_ByTitleMerges(t *testing.T) {
	router, _ := setupRouter(t, &ClientMock{products: fixtureProducts()})

	do(t, router, "POST", "/api/v1/cart/items", AddItemRequestDTO{Title: "Tee"})
	recorder := do(t, router, "POST", "/api/v1/cart/items", AddItemRequestDTO{Title: "Tee"})

	resp := decodeCart(t, recorder)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.Equal(t, "$40.00", resp.Items[0].LineTotal)
	assert.Equal(t, "$47.50", resp.Total)
}

func TestAddItem_InvalidRequests(t *testing.T) {
	router, _ := setupRouter(t, &ClientMock{products: fixtureProducts()})

	tests := []struct {
		name         string
		body         []byte
		expectedHTTP int
		expectedCode string
	}{
		{"invalid json", []byte("invalid json"), http.StatusBadRequest, "invalid_request"},
		{"empty body", nil, http.StatusBadRequest, "invalid_request"},
		{"no identifier", []byte(`{}`), http.StatusBadRequest, "validation_failed"},
		{"unknown product", []byte(`{"product_id":"zzz"}`), http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewReader(tt.body))

			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.expectedHTTP, recorder.Code)
			var response ErrorResponse
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
			assert.Equal(t, tt.expectedCode, response.Code)
		})
	}
}

func TestUpdateQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		expected int
	}{
		{"increase", 3, 3},
		{"zero floors to one", 0, 1},
		{"negative floors to one", -5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupRouter(t, &ClientMock{products: fixtureProducts()})
			do(t, router, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "t1"})

			recorder := do(t, router, "PUT", "/api/v1/cart/items/Tee-S", map[string]int{"quantity": tt.quantity})

			require.Equal(t, http.StatusOK, recorder.Code)
			resp := decodeCart(t, recorder)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, tt.expected, resp.Items[0].Quantity)
		})
	}
}

func TestUpdateQuantity_EscapedKey(t *testing.T) {
	client := &ClientMock{products: []domain.Product{
		{ID: "b1", Title: "Blue/Green Tee", Price: decimal.NewFromInt(10)},
	}}
	router, _ := setupRouter(t, client)
	do(t, router, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "b1"})

	recorder := do(t, router, "PUT", "/api/v1/cart/items/"+url.PathEscape("Blue/Green Tee-M"), map[string]int{"quantity": 4})

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 4, decodeCart(t, recorder).Items[0].Quantity)
}

func TestUpdateQuantity_PercentInKey(t *testing.T) {
	client := &ClientMock{products: []domain.Product{
		{ID: "c1", Title: "100% Cotton Tee", Price: decimal.NewFromInt(10)},
		{ID: "p1", Title: "Promo %41 Tee", Price: decimal.NewFromInt(5)},
	}}
	router, session := setupRouter(t, client)
	do(t, router, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "c1"})
	do(t, router, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "p1"})

	for _, key := range []string{"100% Cotton Tee-M", "Promo %41 Tee-M"} {
		t.Run(key, func(t *testing.T) {
			recorder := do(t, router, "PUT", "/api/v1/cart/items/"+url.PathEscape(key), map[string]int{"quantity": 4})

			require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
			item, ok := session.Cart.Item(key)
			require.True(t, ok)
			assert.Equal(t, 4, item.Quantity)
		})
	}
}

func TestUpdateQuantity_Errors(t *testing.T) {
	router, _ := setupRouter(t, &ClientMock{products: fixtureProducts()})
	do(t, router, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "t1"})

	recorder := do(t, router, "PUT", "/api/v1/cart/items/Nope-M", map[string]int{"quantity": 2})
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = do(t, router, "PUT", "/api/v1/cart/items/Tee-S", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	var response ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "validation_failed", response.Code)
	assert.Equal(t, "required", response.Fields["Quantity"])
}

func TestOpenCloseCart(t *testing.T) {
	router, session := setupRouter(t, &ClientMock{})

	recorder := do(t, router, "POST", "/api/v1/cart/open", nil)
	assert.True(t, decodeCart(t, recorder).Open)
	assert.True(t, session.CartOpen())

	recorder = do(t, router, "POST", "/api/v1/cart/close", nil)
	assert.False(t, decodeCart(t, recorder).Open)

	recorder = do(t, router, "GET", "/api/v1/cart/", nil)
	resp := decodeCart(t, recorder)
	assert.False(t, resp.Open)
	assert.Equal(t, 0, resp.Count)
	assert.Equal(t, []CartItemDTO{}, resp.Items)
	assert.Equal(t, "$0.00", resp.Subtotal)
}

func TestCheckout_EmptyCart(t *testing.T) {
	client := &ClientMock{orderID: "ord-1"}
	router, _ := setupRouter(t, client)

	recorder := do(t, router, "POST", "/api/v1/checkout", nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp CheckoutResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.False(t, resp.Submitted)
	assert.Equal(t, 0, client.orderCalls)
}

func TestCheckout_Success(t *testing.T) {
	client := &ClientMock{products: fixtureProducts(), orderID: "ord-1"}
	router, session := setupRouter(t, client)
	do(t, router, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "t1"})
	do(t, router, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "t1"})

	recorder := do(t, router, "POST", "/api/v1/checkout", nil)

	require.Equal(t, http.StatusCreated, recorder.Code)
	var resp CheckoutResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.True(t, resp.Submitted)
	assert.Equal(t, "ord-1", resp.OrderID)
	assert.Equal(t, "Order placed! ID: ord-1", resp.Message)
	assert.Equal(t, 1, client.orderCalls)
	assert.Equal(t, "47.5", client.lastOrder.Total.String())

	cartResp := decodeCart(t, do(t, router, "GET", "/api/v1/cart/", nil))
	assert.Equal(t, 0, cartResp.Count)
	assert.False(t, cartResp.Open)
	assert.False(t, session.CartOpen())

	recorder = do(t, router, "GET", "/api/v1/notifications", nil)
	var notes []storefront.Notification
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "ord-1", notes[0].OrderID)
}

func TestCheckout_Failures(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedHTTP int
		expectedCode string
	}{
		{"server error", &api.ServerError{Method: "POST", Path: "/api/orders", StatusCode: 500}, http.StatusBadGateway, "upstream_error"},
		{"network", api.ErrNetwork, http.StatusServiceUnavailable, "service_unavailable"},
		{"decode", api.ErrDecode, http.StatusBadGateway, "bad_upstream_response"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &ClientMock{products: fixtureProducts(), orderErr: tt.err}
			router, session := setupRouter(t, client)
			do(t, router, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "t1"})

			recorder := do(t, router, "POST", "/api/v1/checkout", nil)

			assert.Equal(t, tt.expectedHTTP, recorder.Code)
			var response ErrorResponse
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
			assert.Equal(t, tt.expectedCode, response.Code)

			assert.Equal(t, 1, session.Cart.Len())
			assert.True(t, session.CartOpen())
			notes := session.Inbox.Drain()
			require.Len(t, notes, 1)
			assert.Equal(t, storefront.KindCheckoutFailed, notes[0].Kind)
		})
	}
}

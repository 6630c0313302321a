package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"campus-market-backend/internal/middleware"
	"campus-market-backend/internal/models"
	"campus-market-backend/internal/services"
	"campus-market-backend/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCartService struct {
	cart       *models.Cart
	totals     models.CartTotals
	err        error
	lastUserID string
}

func (s *stubCartService) GetCart(ctx context.Context, userID string) *models.Cart {
	s.lastUserID = userID
	return s.cart
}

func (s *stubCartService) AddItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	s.lastUserID = userID
	return s.cart, s.err
}

func (s *stubCartService) SetQuantity(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) Clear(ctx context.Context, userID string) (*models.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) Totals(lines []models.CartLine) models.CartTotals {
	return s.totals
}

type stubCheckoutService struct {
	response *services.CheckoutResponse
	orders   []models.Order
	info     services.PaymentInfo
	err      error
}

func (s *stubCheckoutService) Checkout(ctx context.Context, userID string) (*services.CheckoutResponse, error) {
	return s.response, s.err
}

func (s *stubCheckoutService) Orders(ctx context.Context, userID string, limit, offset int) ([]models.Order, error) {
	return s.orders, s.err
}

func (s *stubCheckoutService) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	return s.err
}

func (s *stubCheckoutService) MerchantPaymentInfo() services.PaymentInfo {
	return s.info
}

var testJWTManager = auth.NewJWTManager("test-secret", 1, 1)

func newCartTestRouter(carts CartServiceInterface, checkout CheckoutServiceInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler := NewCartHandler(carts, checkout)
	handler.RegisterRoutes(api, middleware.NewAuthMiddleware(testJWTManager))
	return router
}

func guestCart() *models.Cart {
	return &models.Cart{
		IdentityKey: "guest",
		Lines:       []models.CartLine{{ProductID: "p1", Name: "Café", Price: 3.50, Quantity: 2}},
	}
}

func TestGetCart(t *testing.T) {
	carts := &stubCartService{cart: guestCart(), totals: models.CartTotals{TotalItems: 2, TotalAmount: 7.00}}
	router := newCartTestRouter(carts, &stubCheckoutService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "guest", response.Cart.IdentityKey)
	assert.Equal(t, 2, response.Totals.TotalItems)
	assert.InDelta(t, 7.00, response.Totals.TotalAmount, 1e-9)

	// No token means the guest identity.
	assert.Empty(t, carts.lastUserID)
}

func TestAddItem(t *testing.T) {
	carts := &stubCartService{cart: guestCart()}
	router := newCartTestRouter(carts, &stubCheckoutService{})

	body, _ := json.Marshal(AddItemRequest{ProductID: "p1"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAddItem_MissingProductID(t *testing.T) {
	router := newCartTestRouter(&stubCartService{cart: guestCart()}, &stubCheckoutService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader([]byte(`{}`)))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"out of stock", services.ErrOutOfStock, http.StatusConflict},
		{"exceeds stock", services.ErrQuantityExceedsStock, http.StatusConflict},
		{"invalid id", services.ErrInvalidProductID, http.StatusBadRequest},
		{"not found", services.ErrProductNotFound, http.StatusNotFound},
		{"unexpected", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newCartTestRouter(&stubCartService{err: tt.err}, &stubCheckoutService{})

			body, _ := json.Marshal(AddItemRequest{ProductID: "p1"})
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)

			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.err.Error(), response.Message)
		})
	}
}

func TestSetQuantity(t *testing.T) {
	router := newCartTestRouter(&stubCartService{cart: guestCart()}, &stubCheckoutService{})

	body, _ := json.Marshal(SetQuantityRequest{Quantity: 3})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/p1", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRemoveItem(t *testing.T) {
	router := newCartTestRouter(&stubCartService{cart: guestCart()}, &stubCheckoutService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/p1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCheckout(t *testing.T) {
	checkout := &stubCheckoutService{response: &services.CheckoutResponse{
		OrderID:     "order-1",
		TotalItems:  3,
		TotalAmount: 44.98,
		WhatsAppURL: "https://api.whatsapp.com/send?phone=584246322487",
	}}
	router := newCartTestRouter(&stubCartService{cart: guestCart()}, checkout)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/checkout", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response services.CheckoutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "order-1", response.OrderID)
	assert.InDelta(t, 44.98, response.TotalAmount, 1e-9)
}

func TestCheckout_EmptyCart(t *testing.T) {
	router := newCartTestRouter(&stubCartService{cart: guestCart()},
		&stubCheckoutService{err: services.ErrEmptyCart})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/checkout", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListOrders(t *testing.T) {
	checkout := &stubCheckoutService{orders: []models.Order{
		{IdentityKey: "guest", TotalItems: 3, TotalAmount: 44.98, Status: "placed"},
	}}
	router := newCartTestRouter(&stubCartService{cart: guestCart()}, checkout)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?limit=10", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "placed", orders[0].Status)
}

func TestUpdateOrderStatus_RequiresAdmin(t *testing.T) {
	router := newCartTestRouter(&stubCartService{cart: guestCart()}, &stubCheckoutService{})

	body, _ := json.Marshal(UpdateOrderStatusRequest{Status: "paid"})

	// No token at all.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/order-1", bytes.NewReader(body))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A customer token.
	tokens, err := testJWTManager.GenerateTokenPair("user-1", "customer", "ana@example.com")
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/api/v1/orders/order-1", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateOrderStatus_Admin(t *testing.T) {
	router := newCartTestRouter(&stubCartService{cart: guestCart()}, &stubCheckoutService{})

	tokens, err := testJWTManager.GenerateTokenPair("admin-1", "admin", "admin@example.com")
	require.NoError(t, err)

	body, _ := json.Marshal(UpdateOrderStatusRequest{Status: "paid"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/orders/order-1", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPaymentInfo(t *testing.T) {
	router := newCartTestRouter(&stubCartService{cart: guestCart()},
		&stubCheckoutService{info: services.PaymentInfo{Phone: "04141234567", RIF: "J-12345678-9"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/payment-info", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var info services.PaymentInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "04141234567", info.Phone)
}

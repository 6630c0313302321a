package handlers

import (
	"context"

	"campus-market-backend/internal/models"
	"campus-market-backend/internal/services"
)

// CartServiceInterface defines the cart operations the handler layer needs
type CartServiceInterface interface {
	GetCart(ctx context.Context, userID string) *models.Cart
	AddItem(ctx context.Context, userID, productID string) (*models.Cart, error)
	SetQuantity(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error)
	Clear(ctx context.Context, userID string) (*models.Cart, error)
	Totals(lines []models.CartLine) models.CartTotals
}

// CheckoutServiceInterface defines the checkout operations the handler layer needs
type CheckoutServiceInterface interface {
	Checkout(ctx context.Context, userID string) (*services.CheckoutResponse, error)
	Orders(ctx context.Context, userID string, limit, offset int) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string) error
	MerchantPaymentInfo() services.PaymentInfo
}

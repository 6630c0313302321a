package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"campus-market-backend/internal/models"
	"campus-market-backend/internal/repositories"
	"campus-market-backend/pkg/messaging"
	"campus-market-backend/pkg/whatsapp"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	orderPlacedTopic   = "orders.placed"
	stockDepletedTopic = "inventory.depleted"
)

var (
	// ErrEmptyCart is returned when checkout is attempted with no lines.
	ErrEmptyCart = errors.New("cart is empty")

	ErrInvalidOrderID     = errors.New("invalid order ID")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

var orderStatuses = map[string]bool{
	"placed":    true,
	"paid":      true,
	"cancelled": true,
}

// EventPublisher is the checkout-facing slice of the Kafka producer.
type EventPublisher interface {
	SendMessage(ctx context.Context, topic, key string, value interface{}) error
}

// CheckoutService finalizes a cart: per-line stock decrements, an order
// record, an order event, the WhatsApp order link, and finally clearing the
// cart.
type CheckoutService struct {
	carts       *CartService
	productRepo repositories.ProductRepository
	orderRepo   repositories.OrderRepository
	publisher   EventPublisher
	links       *whatsapp.LinkBuilder

	merchantPhone string
	merchantRIF   string
}

func NewCheckoutService(
	carts *CartService,
	productRepo repositories.ProductRepository,
	orderRepo repositories.OrderRepository,
	publisher EventPublisher,
	links *whatsapp.LinkBuilder,
	merchantPhone, merchantRIF string,
) *CheckoutService {
	return &CheckoutService{
		carts:         carts,
		productRepo:   productRepo,
		orderRepo:     orderRepo,
		publisher:     publisher,
		links:         links,
		merchantPhone: merchantPhone,
		merchantRIF:   merchantRIF,
	}
}

type CheckoutResponse struct {
	OrderID     string  `json:"order_id"`
	TotalItems  int     `json:"total_items"`
	TotalAmount float64 `json:"total_amount"`
	WhatsAppURL string  `json:"whatsapp_url"`
}

// PaymentInfo is the merchant's mobile-payment data shown at checkout.
type PaymentInfo struct {
	Phone string `json:"phone"`
	RIF   string `json:"rif"`
}

func (s *CheckoutService) Checkout(ctx context.Context, userID string) (*CheckoutResponse, error) {
	cart := s.carts.GetCart(ctx, userID)
	if cart.Empty() {
		return nil, ErrEmptyCart
	}

	cartTotals := s.carts.Totals(cart.Lines)

	// Decrement stock per line before recording the order; a failure here
	// aborts the purchase with the cart intact.
	for _, line := range s.carts.CheckoutLines(cart.Lines) {
		if err := s.decrementStock(ctx, line); err != nil {
			return nil, err
		}
	}

	order := &models.Order{
		IdentityKey: cart.IdentityKey,
		TotalItems:  cartTotals.TotalItems,
		TotalAmount: cartTotals.TotalAmount,
		Status:      "placed",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	for _, line := range cart.Lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
		})
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.publishOrderPlaced(ctx, order)

	waLines := make([]whatsapp.Line, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		waLines = append(waLines, whatsapp.Line{
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.Price,
		})
	}
	link := s.links.OrderLink(waLines, cartTotals.TotalAmount)

	if _, err := s.carts.Clear(ctx, userID); err != nil {
		log.Printf("checkout: cart clear failed for %s: %v", cart.IdentityKey, err)
	}

	return &CheckoutResponse{
		OrderID:     order.ID.String(),
		TotalItems:  cartTotals.TotalItems,
		TotalAmount: cartTotals.TotalAmount,
		WhatsAppURL: link,
	}, nil
}

// Orders lists the identity's order history, newest first.
func (s *CheckoutService) Orders(ctx context.Context, userID string, limit, offset int) ([]models.Order, error) {
	if limit < 1 || limit > 50 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.orderRepo.GetByIdentityKey(ctx, s.carts.IdentityKey(userID), limit, offset)
}

// UpdateOrderStatus moves an order between placed, paid and cancelled.
func (s *CheckoutService) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return ErrInvalidOrderID
	}
	if !orderStatuses[status] {
		return ErrInvalidOrderStatus
	}
	return s.orderRepo.UpdateStatus(ctx, id, status)
}

// MerchantPaymentInfo returns the configured mobile-payment details.
func (s *CheckoutService) MerchantPaymentInfo() PaymentInfo {
	return PaymentInfo{Phone: s.merchantPhone, RIF: s.merchantRIF}
}

func (s *CheckoutService) decrementStock(ctx context.Context, line models.CheckoutLine) error {
	id, err := primitive.ObjectIDFromHex(line.ProductID)
	if err != nil {
		return ErrInvalidProductID
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load product %s: %w", line.ProductID, err)
	}

	newStock := product.Stock - line.Quantity
	if newStock < 0 {
		newStock = 0
	}

	if _, err := s.productRepo.UpdateStock(ctx, id, newStock); err != nil {
		return fmt.Errorf("failed to update stock for %s: %w", line.ProductID, err)
	}

	if newStock == 0 && s.publisher != nil {
		event := messaging.StockDepletedEvent{ProductID: line.ProductID, Name: product.Name}
		if err := s.publisher.SendMessage(ctx, stockDepletedTopic, line.ProductID, event); err != nil {
			log.Printf("checkout: stock depleted event failed for %s: %v", line.ProductID, err)
		}
	}
	return nil
}

func (s *CheckoutService) publishOrderPlaced(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		return
	}

	event := messaging.OrderPlacedEvent{
		OrderID:     order.ID.String(),
		IdentityKey: order.IdentityKey,
		TotalItems:  order.TotalItems,
		TotalAmount: order.TotalAmount,
	}
	for _, item := range order.Items {
		event.Lines = append(event.Lines, messaging.OrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	if err := s.publisher.SendMessage(ctx, orderPlacedTopic, order.ID.String(), event); err != nil {
		log.Printf("checkout: order event failed for %s: %v", order.ID, err)
	}
}

package services

import (
	"context"
	"errors"
	"log"

	"campus-market-backend/internal/models"
	"campus-market-backend/internal/repositories"
	"campus-market-backend/pkg/totals"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrOutOfStock is returned when adding a product whose stock is zero.
	ErrOutOfStock = errors.New("item out of stock")

	// ErrQuantityExceedsStock is returned when a mutation would push a line's
	// quantity beyond the product's current stock.
	ErrQuantityExceedsStock = errors.New("no more units available")

	ErrInvalidProductID = errors.New("invalid product ID")
	ErrProductNotFound  = errors.New("product not found")
)

// CartService owns cart state: merge and quantity rules, per-identity
// persistence, and total computation. Each mutation loads the cart for the
// identity key, applies fully, and writes the result back, so switching
// identities reloads the other partition instead of merging into it.
type CartService struct {
	store       repositories.CartStore
	productRepo repositories.ProductRepository
	calculator  totals.Calculator
	fallback    totals.Calculator

	// enforceStockLimits gates the stock checks on AddItem and SetQuantity.
	enforceStockLimits bool
	guestKey           string
}

func NewCartService(
	store repositories.CartStore,
	productRepo repositories.ProductRepository,
	calculator totals.Calculator,
	enforceStockLimits bool,
	guestKey string,
) *CartService {
	return &CartService{
		store:              store,
		productRepo:        productRepo,
		calculator:         calculator,
		fallback:           totals.NewDefaultCalculator(),
		enforceStockLimits: enforceStockLimits,
		guestKey:           guestKey,
	}
}

// IdentityKey maps the current identity to its persistence partition: the
// user id when signed in, the fixed guest key otherwise.
func (s *CartService) IdentityKey(userID string) string {
	if userID == "" {
		return s.guestKey
	}
	return userID
}

// GetCart returns the cart for the identity. A storage read failure degrades
// to an empty cart rather than surfacing an error.
func (s *CartService) GetCart(ctx context.Context, userID string) *models.Cart {
	key := s.IdentityKey(userID)
	return &models.Cart{IdentityKey: key, Lines: s.loadLines(ctx, key)}
}

// AddItem puts one unit of the product into the cart: an existing line gains
// quantity 1, otherwise a new line is appended with the product's name, price
// and image snapshotted at call time.
func (s *CartService) AddItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	product, err := s.lookupProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	key := s.IdentityKey(userID)
	cart := &models.Cart{IdentityKey: key, Lines: s.loadLines(ctx, key)}

	idx := cart.Find(productID)
	if s.enforceStockLimits {
		if product.Stock <= 0 {
			return nil, ErrOutOfStock
		}
		if idx >= 0 && cart.Lines[idx].Quantity+1 > product.Stock {
			return nil, ErrQuantityExceedsStock
		}
	}

	if idx >= 0 {
		cart.Lines[idx].Quantity++
	} else {
		cart.Lines = append(cart.Lines, models.CartLine{
			ProductID: productID,
			Name:      product.Name,
			Price:     product.Price,
			ImageURL:  product.ImageURL,
			Quantity:  1,
		})
	}

	s.persist(ctx, key, cart.Lines)
	return cart, nil
}

// SetQuantity sets the line's quantity, clamped to a minimum of 1. Removal
// goes through RemoveItem, never through a zero quantity. A missing line is
// a no-op.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	key := s.IdentityKey(userID)
	cart := &models.Cart{IdentityKey: key, Lines: s.loadLines(ctx, key)}

	idx := cart.Find(productID)
	if idx < 0 {
		return cart, nil
	}

	if quantity < 1 {
		quantity = 1
	}

	if s.enforceStockLimits {
		product, err := s.lookupProduct(ctx, productID)
		if err != nil {
			// The line may reference a product removed from the catalog;
			// keep the cart usable and skip the check.
			log.Printf("cart: stock check skipped for %s: %v", productID, err)
		} else if quantity > product.Stock {
			return nil, ErrQuantityExceedsStock
		}
	}

	cart.Lines[idx].Quantity = quantity
	s.persist(ctx, key, cart.Lines)
	return cart, nil
}

// RemoveItem drops the line for productID. Removing an absent product leaves
// the cart unchanged and reports no error.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	key := s.IdentityKey(userID)
	cart := &models.Cart{IdentityKey: key, Lines: s.loadLines(ctx, key)}

	idx := cart.Find(productID)
	if idx < 0 {
		return cart, nil
	}

	cart.Lines = append(cart.Lines[:idx], cart.Lines[idx+1:]...)
	s.persist(ctx, key, cart.Lines)
	return cart, nil
}

// Clear empties the cart for the identity.
func (s *CartService) Clear(ctx context.Context, userID string) (*models.Cart, error) {
	key := s.IdentityKey(userID)
	cart := &models.Cart{IdentityKey: key, Lines: []models.CartLine{}}
	s.persist(ctx, key, cart.Lines)
	return cart, nil
}

// Totals recomputes the derived aggregates from the lines alone. The amount
// goes through the configured calculator; any calculator failure substitutes
// the default routine, so the caller always gets the same logical result.
func (s *CartService) Totals(lines []models.CartLine) models.CartTotals {
	prices := make([]float64, len(lines))
	quantities := make([]int, len(lines))
	items := 0
	for i, line := range lines {
		prices[i] = line.Price
		quantities[i] = line.Quantity
		items += line.Quantity
	}

	amount, err := s.calculator.SumProducts(prices, quantities)
	if err != nil {
		log.Printf("cart: totals calculator failed, using default: %v", err)
		amount, _ = s.fallback.SumProducts(prices, quantities)
	}

	return models.CartTotals{TotalItems: items, TotalAmount: amount}
}

// CheckoutLines exposes the product id + quantity pairs a checkout
// collaborator needs for per-line stock decrements.
func (s *CartService) CheckoutLines(lines []models.CartLine) []models.CheckoutLine {
	out := make([]models.CheckoutLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, models.CheckoutLine{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return out
}

func (s *CartService) lookupProduct(ctx context.Context, productID string) (*models.Product, error) {
	id, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, ErrInvalidProductID
	}
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// loadLines reads the persisted cart. A corrupt or unreadable entry is
// treated as an empty cart; the error is logged, never propagated.
func (s *CartService) loadLines(ctx context.Context, identityKey string) []models.CartLine {
	lines, err := s.store.Load(ctx, identityKey)
	if err != nil {
		log.Printf("cart: load failed for %s, starting empty: %v", identityKey, err)
		return nil
	}
	return lines
}

// persist writes through after a mutation. On failure the in-memory cart
// stays authoritative; the next mutation re-attempts the write.
func (s *CartService) persist(ctx context.Context, identityKey string, lines []models.CartLine) {
	if err := s.store.Save(ctx, identityKey, lines); err != nil {
		log.Printf("cart: persist failed for %s, keeping in-memory state: %v", identityKey, err)
	}
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"campus-market-backend/internal/middleware"
	"campus-market-backend/internal/models"
	"campus-market-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	cartService     CartServiceInterface
	checkoutService CheckoutServiceInterface
}

func NewCartHandler(cartService CartServiceInterface, checkoutService CheckoutServiceInterface) *CartHandler {
	return &CartHandler{
		cartService:     cartService,
		checkoutService: checkoutService,
	}
}

// RegisterRoutes registers the routes for cart and checkout
func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	// Cart routes work for guests too; a valid token switches the identity
	// partition, nothing else.
	cart := router.Group("/cart", authMiddleware.IdentityOptional())
	{
		// Get the cart with totals
		cart.GET("", h.GetCart)
		// Add one unit of a product
		cart.POST("/items", h.AddItem)
		// Set a line's quantity
		cart.PUT("/items/:product_id", h.SetQuantity)
		// Remove a line
		cart.DELETE("/items/:product_id", h.RemoveItem)
		// Clear the cart
		cart.DELETE("", h.ClearCart)
		// Finalize the order
		cart.POST("/checkout", h.Checkout)
	}

	router.GET("/checkout/payment-info", h.PaymentInfo)

	router.GET("/orders", authMiddleware.IdentityOptional(), h.ListOrders)
	router.PUT("/orders/:id", authMiddleware.AuthRequired(), authMiddleware.AdminRequired(), h.UpdateOrderStatus)
}

// CartResponse carries the cart plus its derived totals
type CartResponse struct {
	Cart   *models.Cart      `json:"cart"`
	Totals models.CartTotals `json:"totals"`
}

func (h *CartHandler) respondWithCart(c *gin.Context, cart *models.Cart) {
	c.JSON(http.StatusOK, CartResponse{
		Cart:   cart,
		Totals: h.cartService.Totals(cart.Lines),
	})
}

func (h *CartHandler) respondWithError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrOutOfStock), errors.Is(err, services.ErrQuantityExceedsStock):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidProductID), errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrInvalidOrderID), errors.Is(err, services.ErrInvalidOrderStatus):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrProductNotFound):
		status = http.StatusNotFound
	}

	c.JSON(status, ErrorResponse{
		Error:   fallback,
		Message: err.Error(),
	})
}

// GetCart godoc
// @Summary Get the current cart
// @Description Get the cart for the current identity (guest or signed-in user)
// @Tags cart
// @Produce json
// @Success 200 {object} CartResponse
// @Router /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	cart := h.cartService.GetCart(c.Request.Context(), middleware.GetUserID(c))
	h.respondWithCart(c, cart)
}

type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// AddItem godoc
// @Summary Add a product to the cart
// @Description Add one unit; an existing line gains quantity instead of duplicating
// @Tags cart
// @Accept json
// @Produce json
// @Param item body AddItemRequest true "Product to add"
// @Success 200 {object} CartResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), middleware.GetUserID(c), req.ProductID)
	if err != nil {
		h.respondWithError(c, err, "Failed to add item to cart")
		return
	}

	h.respondWithCart(c, cart)
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetQuantity godoc
// @Summary Set a cart line's quantity
// @Description Quantities below 1 clamp to 1; removal goes through DELETE
// @Tags cart
// @Accept json
// @Produce json
// @Param product_id path string true "Product ID"
// @Param quantity body SetQuantityRequest true "New quantity"
// @Success 200 {object} CartResponse
// @Failure 409 {object} ErrorResponse
// @Router /cart/items/{product_id} [put]
func (h *CartHandler) SetQuantity(c *gin.Context) {
	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	cart, err := h.cartService.SetQuantity(c.Request.Context(), middleware.GetUserID(c), c.Param("product_id"), req.Quantity)
	if err != nil {
		h.respondWithError(c, err, "Failed to update cart item")
		return
	}

	h.respondWithCart(c, cart)
}

// RemoveItem godoc
// @Summary Remove a product from the cart
// @Description Removing a product that is not in the cart is a no-op
// @Tags cart
// @Produce json
// @Param product_id path string true "Product ID"
// @Success 200 {object} CartResponse
// @Router /cart/items/{product_id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	cart, err := h.cartService.RemoveItem(c.Request.Context(), middleware.GetUserID(c), c.Param("product_id"))
	if err != nil {
		h.respondWithError(c, err, "Failed to remove item from cart")
		return
	}

	h.respondWithCart(c, cart)
}

// ClearCart godoc
// @Summary Empty the cart
// @Tags cart
// @Produce json
// @Success 200 {object} CartResponse
// @Router /cart [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	cart, err := h.cartService.Clear(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondWithError(c, err, "Failed to clear cart")
		return
	}

	h.respondWithCart(c, cart)
}

// Checkout godoc
// @Summary Checkout the cart
// @Description Decrement stock per line, record the order, and build the WhatsApp order link
// @Tags cart
// @Produce json
// @Success 200 {object} services.CheckoutResponse
// @Failure 400 {object} ErrorResponse
// @Router /cart/checkout [post]
func (h *CartHandler) Checkout(c *gin.Context) {
	response, err := h.checkoutService.Checkout(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondWithError(c, err, "Failed to checkout")
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListOrders godoc
// @Summary List the identity's orders
// @Description Order history for the current identity, newest first
// @Tags orders
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} models.Order
// @Failure 500 {object} ErrorResponse
// @Router /orders [get]
func (h *CartHandler) ListOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	orders, err := h.checkoutService.Orders(c.Request.Context(), middleware.GetUserID(c), limit, offset)
	if err != nil {
		h.respondWithError(c, err, "Failed to list orders")
		return
	}

	c.JSON(http.StatusOK, orders)
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus godoc
// @Summary Update an order's status
// @Description Move an order between placed, paid and cancelled
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param status body UpdateOrderStatusRequest true "New status"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /orders/{id} [put]
func (h *CartHandler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	if err := h.checkoutService.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		h.respondWithError(c, err, "Failed to update order status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
}

// PaymentInfo godoc
// @Summary Get merchant mobile-payment data
// @Tags cart
// @Produce json
// @Success 200 {object} services.PaymentInfo
// @Router /checkout/payment-info [get]
func (h *CartHandler) PaymentInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.checkoutService.MerchantPaymentInfo())
}

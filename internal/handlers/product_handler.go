package handlers

import (
	"net/http"

	"campus-market-backend/internal/middleware"
	"campus-market-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type ProductHandler struct {
	productService ProductServiceInterface
}

func NewProductHandler(productService ProductServiceInterface) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// RegisterRoutes registers the routes for catalog management
func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	// Public storefront routes
	router.GET("/products", h.ListProducts)
	router.GET("/products/:id", h.GetProduct)
	router.GET("/categories", h.ListCategories)

	// Admin panel routes
	admin := router.Group("/", authMiddleware.AuthRequired(), authMiddleware.AdminRequired())
	{
		admin.POST("/products", h.CreateProduct)
		admin.PUT("/products/:id", h.UpdateStock)
		admin.DELETE("/products/:id", h.DeleteProduct)
	}
}

// ListProducts godoc
// @Summary List products
// @Description Get the catalog, optionally filtered by category
// @Tags products
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {array} models.Product
// @Failure 500 {object} ErrorResponse
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.productService.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to list products",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := http.StatusNotFound
		if err == services.ErrInvalidProductID {
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorResponse{
			Error:   "Product not found",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, product)
}

// ListCategories godoc
// @Summary List categories
// @Description Get the distinct category names present in the catalog
// @Tags products
// @Produce json
// @Success 200 {array} string
// @Failure 500 {object} ErrorResponse
// @Router /categories [get]
func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.productService.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to list categories",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// CreateProduct godoc
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Param product body services.CreateProductRequest true "Product data"
// @Success 201 {object} models.Product
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	product, err := h.productService.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Failed to create product",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, product)
}

type UpdateStockRequest struct {
	Stock int `json:"stock"`
}

// UpdateStock godoc
// @Summary Update product stock
// @Description Set a product's stock level; negative values clamp to zero
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param stock body UpdateStockRequest true "New stock level"
// @Success 200 {object} models.Product
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateStock(c *gin.Context) {
	var req UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	product, err := h.productService.UpdateStock(c.Request.Context(), c.Param("id"), req.Stock)
	if err != nil {
		status := http.StatusInternalServerError
		switch err {
		case services.ErrInvalidProductID:
			status = http.StatusBadRequest
		case services.ErrProductNotFound:
			status = http.StatusNotFound
		}
		c.JSON(status, ErrorResponse{
			Error:   "Failed to update stock",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.productService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		status := http.StatusInternalServerError
		if err == services.ErrInvalidProductID {
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorResponse{
			Error:   "Failed to delete product",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

package services

import (
	"context"
	"errors"
	"time"

	"campus-market-backend/internal/models"
	"campus-market-backend/internal/repositories"
	"campus-market-backend/pkg/cache"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	productListCacheKey       = "products:all"
	productCategoriesCacheKey = "products:categories"
	productCacheTTL           = 10 * time.Minute
)

// ProductService owns the catalog: product CRUD, the stock-update path used
// by checkout and the admin panel, and the derived category list.
type ProductService struct {
	productRepo repositories.ProductRepository
	cache       *cache.RedisCache
}

// NewProductService creates the service. A nil cache disables list caching.
func NewProductService(productRepo repositories.ProductRepository, cache *cache.RedisCache) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		cache:       cache,
	}
}

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
}

func (s *ProductService) List(ctx context.Context, category string) ([]models.Product, error) {
	if category != "" {
		return s.productRepo.GetByCategory(ctx, category)
	}

	if s.cache != nil {
		var cached []models.Product
		if err := s.cache.Get(ctx, productListCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, productListCacheKey, products, productCacheTTL)
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, productID string) (*models.Product, error) {
	id, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, ErrInvalidProductID
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Categories returns the distinct non-empty category names, the source of the
// storefront's filter chips.
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		var cached []string
		if err := s.cache.Get(ctx, productCategoriesCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	categories, err := s.productRepo.Categories(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, productCategoriesCacheKey, categories, productCacheTTL)
	}
	return categories, nil
}

func (s *ProductService) Create(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if req.Price < 0 {
		return nil, errors.New("price must not be negative")
	}
	if req.Stock < 0 {
		return nil, errors.New("stock must not be negative")
	}

	imageURL := req.ImageURL
	if imageURL == "" {
		imageURL = models.DefaultProductImage
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		ImageURL:    imageURL,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	return product, nil
}

// UpdateStock sets the product's stock level, clamped at zero so checkout
// decrements can never drive it negative.
func (s *ProductService) UpdateStock(ctx context.Context, productID string, stock int) (*models.Product, error) {
	id, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, ErrInvalidProductID
	}

	if stock < 0 {
		stock = 0
	}

	product, err := s.productRepo.UpdateStock(ctx, id, stock)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, productID string) error {
	id, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return ErrInvalidProductID
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	return nil
}

func (s *ProductService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.Delete(ctx, productListCacheKey)
	s.cache.Delete(ctx, productCategoriesCacheKey)
}

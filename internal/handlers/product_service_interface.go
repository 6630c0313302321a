package handlers

import (
	"context"

	"campus-market-backend/internal/models"
	"campus-market-backend/internal/services"
)

// ProductServiceInterface defines the catalog operations the handler layer needs
type ProductServiceInterface interface {
	List(ctx context.Context, category string) ([]models.Product, error)
	Get(ctx context.Context, productID string) (*models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, req *services.CreateProductRequest) (*models.Product, error)
	UpdateStock(ctx context.Context, productID string, stock int) (*models.Product, error)
	Delete(ctx context.Context, productID string) error
}

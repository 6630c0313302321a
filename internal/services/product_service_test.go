package services

import (
	"context"
	"testing"

	"campus-market-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProductService_CreateDefaultsImage(t *testing.T) {
	svc := NewProductService(newFakeProductRepo(), nil)

	product, err := svc.Create(context.Background(), &CreateProductRequest{
		Name:        "Café",
		Description: "Café grande",
		Price:       3.50,
		Stock:       10,
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultProductImage, product.ImageURL)
}

func TestProductService_CreateRejectsNegativeValues(t *testing.T) {
	svc := NewProductService(newFakeProductRepo(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreateProductRequest{Name: "Café", Description: "x", Price: -1})
	assert.Error(t, err)

	_, err = svc.Create(ctx, &CreateProductRequest{Name: "Café", Description: "x", Stock: -1})
	assert.Error(t, err)
}

func TestProductService_GetMapsNotFound(t *testing.T) {
	svc := NewProductService(newFakeProductRepo(), nil)
	ctx := context.Background()

	_, err := svc.Get(ctx, "bad-id")
	assert.ErrorIs(t, err, ErrInvalidProductID)

	_, err = svc.Get(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_UpdateStockClampsAtZero(t *testing.T) {
	product := testProduct("Café", 3.50, 10)
	svc := NewProductService(newFakeProductRepo(product), nil)

	updated, err := svc.UpdateStock(context.Background(), product.ID.Hex(), -5)
	require.NoError(t, err)
	assert.Zero(t, updated.Stock)
}

func TestProductService_ListByCategory(t *testing.T) {
	coffee := testProduct("Café", 3.50, 10)
	coffee.Category = "bebidas"
	cookie := testProduct("Galleta", 1.25, 10)
	cookie.Category = "dulces"
	svc := NewProductService(newFakeProductRepo(coffee, cookie), nil)

	products, err := svc.List(context.Background(), "bebidas")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Café", products[0].Name)
}

func TestProductService_Categories(t *testing.T) {
	coffee := testProduct("Café", 3.50, 10)
	coffee.Category = "bebidas"
	uncategorized := testProduct("Bolsa", 0.50, 10)
	svc := NewProductService(newFakeProductRepo(coffee, uncategorized), nil)

	categories, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"bebidas"}, categories)
}

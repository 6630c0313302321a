package repositories

import (
	"context"
	"campus-market-backend/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository interface for PostgreSQL user operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderRepository interface for PostgreSQL order operations
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByIdentityKey(ctx context.Context, identityKey string, limit, offset int) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// ProductRepository interface for MongoDB catalog operations
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByCategory(ctx context.Context, category string) ([]models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Update(ctx context.Context, product *models.Product) error
	UpdateStock(ctx context.Context, id primitive.ObjectID, stock int) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CartStore is the cart persistence boundary: a scoped key-value store
// holding one JSON line array per identity key under "cart:<identityKey>".
type CartStore interface {
	Load(ctx context.Context, identityKey string) ([]models.CartLine, error)
	Save(ctx context.Context, identityKey string, lines []models.CartLine) error
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// User model - PostgreSQL (strict, consistent data)
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"default:customer" json:"role"` // customer, admin
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Order model - PostgreSQL, one row per completed checkout
type Order struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	IdentityKey string      `gorm:"not null;index" json:"identity_key"` // user id or guest key
	TotalItems  int         `gorm:"not null" json:"total_items"`
	TotalAmount float64     `gorm:"not null" json:"total_amount"`
	Status      string      `gorm:"default:placed" json:"status"` // placed, paid, cancelled
	Items       []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// OrderItem model - PostgreSQL, snapshot of a cart line at checkout
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID string    `gorm:"not null" json:"product_id"`
	Name      string    `gorm:"not null" json:"name"`
	Price     float64   `gorm:"not null" json:"price"`
	Quantity  int       `gorm:"not null" json:"quantity"`
}

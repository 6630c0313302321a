package handlers

import (
	"context"

	"campus-market-backend/internal/services"
)

// AuthServiceInterface defines the identity operations the handler layer needs
type AuthServiceInterface interface {
	Register(ctx context.Context, req *services.RegisterRequest) (*services.AuthResponse, error)
	Login(ctx context.Context, req *services.LoginRequest) (*services.AuthResponse, error)
	Refresh(refreshToken string) (string, error)
}

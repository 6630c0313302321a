package middleware

import (
	"net/http"
	"strings"

	"campus-market-backend/pkg/auth"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
}

func NewAuthMiddleware(jwtManager *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// AuthRequired middleware validates the JWT token
func (a *AuthMiddleware) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := a.claimsFromHeader(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// IdentityOptional resolves the current identity when a valid token is
// present and otherwise leaves it empty, which downstream code maps to the
// guest partition. An invalid token is treated the same as no token.
func (a *AuthMiddleware) IdentityOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := a.claimsFromHeader(c); ok {
			c.Set("user_id", claims.UserID)
			c.Set("role", claims.Role)
		}
		c.Next()
	}
}

// AdminRequired middleware ensures the user is an admin
func (a *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role.(string) != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (a *AuthMiddleware) claimsFromHeader(c *gin.Context) (*auth.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return nil, false
	}

	claims, err := a.jwtManager.ValidateToken(tokenParts[1])
	if err != nil || claims.TokenType != auth.AccessToken {
		return nil, false
	}
	return claims, true
}

// GetUserID helper function to extract the user ID from context; empty means guest
func GetUserID(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		return userID.(string)
	}
	return ""
}

package middleware

import (
	"strings"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/nemanja/arhiva-api/internal/services"
)

const (
	UserIDKey      = "user_id"
	IdentityKeyKey = "identity_key"
	UserEmailKey   = "user_email"
)

func Auth(jwtService *services.JWTService) drift.HandlerFunc {
	return func(c *drift.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Unauthorized("missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.Unauthorized("invalid authorization header format")
			return
		}

		claims, err := jwtService.ValidateAccessToken(parts[1])
		if err != nil {
			c.Unauthorized("invalid or expired token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(IdentityKeyKey, claims.IdentityKey)
		c.Set(UserEmailKey, claims.Email)

		c.Next()
	}
}

func GetUserID(c *drift.Context) uuid.UUID {
	if id, ok := c.Get(UserIDKey); ok {
		if uid, ok := id.(uuid.UUID); ok {
			return uid
		}
	}
	return uuid.Nil
}

func GetIdentityKey(c *drift.Context) string {
	if key, ok := c.Get(IdentityKeyKey); ok {
		if k, ok := key.(string); ok {
			return k
		}
	}
	return ""
}

func GetUserEmail(c *drift.Context) string {
	if email, ok := c.Get(UserEmailKey); ok {
		if e, ok := email.(string); ok {
			return e
		}
	}
	return ""
}

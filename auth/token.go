// Package auth verifies identity tokens issued by the external provider and
// answers every authorization question through a single policy function.
package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"digital-ledger/models"
)

var (
	ErrNoToken      = errors.New("no token provided")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims carried by the provider's tokens.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is the resolved caller. A zero Identity is an anonymous request.
type Identity struct {
	UserID uint
	Email  string
	Name   string
	Role   string
}

func (id Identity) Anonymous() bool {
	return id.UserID == 0
}

// ParseToken verifies an HMAC-signed token and resolves the caller identity.
// Unknown roles collapse to subscriber so a stale token can never escalate.
func ParseToken(tokenString, secret string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, ErrNoToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrExpiredToken
		}
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	role := claims.Role
	if !models.ValidRole(role) {
		role = models.RoleSubscriber
	}
	return Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   role,
	}, nil
}

package service

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"gradeledger/internal/config"
	"gradeledger/internal/domain"
)

// Claims are the access-token claims issued by the identity provider.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID       `json:"user_id"`
	Email  string          `json:"email"`
	Role   domain.UserRole `json:"role"`
}

// TokenVerifier validates externally issued access tokens. Tokens are never issued here.
type TokenVerifier interface {
	ValidateToken(tokenString string) (*Claims, error)
}

type tokenVerifier struct {
	cfg config.JWTConfig
}

// NewTokenVerifier creates an HMAC TokenVerifier. When cfg.Issuer is set the
// iss claim must match it.
func NewTokenVerifier(cfg config.JWTConfig) TokenVerifier {
	return &tokenVerifier{cfg: cfg}
}

func (v *tokenVerifier) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if v.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.cfg.Issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(v.cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w: %w", domain.ErrUnauthorized, err)
	}
	if !token.Valid || claims.UserID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}
	switch claims.Role {
	case domain.RoleAdmin, domain.RoleStaff, domain.RoleStudent:
	default:
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

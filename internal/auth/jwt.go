package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"userhub/internal/model"
)

// TokenExpiry is the fixed lifetime of issued tokens. Verification is
// stateless, so the expiry is the only bound on a leaked token.
const TokenExpiry = 30 * 24 * time.Hour

// ErrInvalidToken is returned when a token fails signature, structure or
// expiry checks.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the identity attached to authenticated requests.
type Claims struct {
	UserID   string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName,omitempty"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService issues and validates bearer tokens.
type JWTService struct {
	secret []byte
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret)}
}

// IssueToken signs a token carrying the user's identity claims.
func (s *JWTService) IssueToken(user *model.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID.String(),
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken validates a signed token and returns its claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Package auth handles credential verification and JWT session tokens.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hostelsmart/portal/internal/domain"
)

// Claims represents JWT claims carried by portal session tokens. The
// block claim is the warden's jurisdiction root for admins and the full
// hostel block for students.
type Claims struct {
	Sub   string      `json:"sub"`
	Name  string      `json:"name"`
	Role  domain.Role `json:"role"`
	Block string      `json:"block"`
	Room  string      `json:"room,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager handles JWT token generation and validation
type JWTManager struct {
	secret     []byte
	expiration time.Duration
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secret string, expiration time.Duration) *JWTManager {
	return &JWTManager{
		secret:     []byte(secret),
		expiration: expiration,
	}
}

// GenerateToken generates a session token for the given user.
func (m *JWTManager) GenerateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Sub:   user.ID,
		Name:  user.Name,
		Role:  user.Role,
		Block: user.HostelBlock,
		Room:  user.RoomNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken validates a JWT token and returns the claims
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return m.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// User reconstructs the authenticated identity carried by the claims.
func (c *Claims) User() domain.User {
	return domain.User{
		ID:          c.Sub,
		Name:        c.Name,
		Role:        c.Role,
		HostelBlock: c.Block,
		RoomNumber:  c.Room,
	}
}

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents the JWT claims. RegisteredClaims.ID carries the session id.
type Claims struct {
	MonkeyID string `json:"monkey_id"`
	Phone    string `json:"phone"`
	jwt.RegisteredClaims
}

// generateToken signs a session token for a monkey
func (m *Manager) generateToken(monkeyID uuid.UUID, phone, sessionID string, issuedAt, expiresAt time.Time) (string, error) {
	claims := &Claims{
		MonkeyID: monkeyID.String(),
		Phone:    phone,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   monkeyID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// validateToken validates a JWT token and returns the claims
func (m *Manager) validateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims.ID == "" {
		return nil, fmt.Errorf("token has no session id")
	}

	return claims, nil
}

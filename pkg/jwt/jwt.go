package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "gptading"

// Claims identifies a browser session. It carries no user identity.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionTokenManager signs and verifies session cookies
type SessionTokenManager struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewSessionTokenManager creates a manager issuing tokens valid for ttl
func NewSessionTokenManager(secretKey string, ttl time.Duration) *SessionTokenManager {
	return &SessionTokenManager{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		now:       time.Now,
	}
}

// TTL is the lifetime of issued tokens
func (m *SessionTokenManager) TTL() time.Duration {
	return m.ttl
}

// Generate signs a token for sessionID
func (m *SessionTokenManager) Generate(sessionID string) (string, error) {
	if sessionID == "" {
		return "", errors.New("empty session id")
	}
	now := m.now()
	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// Validate verifies signature and expiry and returns the claims
func (m *SessionTokenManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return m.secretKey, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// NeedsRefresh reports whether claims are past half their lifetime
func (m *SessionTokenManager) NeedsRefresh(claims *Claims) bool {
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return true
	}
	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	return claims.ExpiresAt.Sub(m.now()) < lifetime/2
}

package service

import (
	"errors"
	"fmt"
	"time"

	"myflix/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 7 * 24 * time.Hour

type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Claims carries the username in the standard "sub" claim.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 tokens with a single shared secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(cfg TokenConfig) *TokenManager {
	m := &TokenManager{secret: cfg.Secret, ttl: cfg.TTL, now: cfg.Now}
	if m.ttl <= 0 {
		m.ttl = defaultTokenTTL
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

func (m *TokenManager) Issue(u *models.User) (string, error) {
	if u == nil || u.Username == "" {
		return "", errors.New("issue token: empty subject")
	}
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature, algorithm and expiry. Every failure wraps
// ErrInvalidToken.
func (m *TokenManager) Parse(accessToken string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

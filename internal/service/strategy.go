package service

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"myflix/internal/models"
	"myflix/internal/repository"
)

// Strategy resolves the caller of a request to a stored user.
type Strategy interface {
	Authenticate(ctx context.Context, r *http.Request) (*models.User, error)
}

// CredentialStrategy is a Strategy that can also check a username/password
// pair the caller has already read from the request.
type CredentialStrategy interface {
	Strategy
	Verify(ctx context.Context, username, password string) (*models.User, error)
}

type TokenParser interface {
	Parse(accessToken string) (*Claims, error)
}

// LocalStrategy checks a username/password pair against the credential store.
type LocalStrategy struct {
	users   repository.UserRepo
	hasher  PasswordHasher
	timeout time.Duration
}

func NewLocalStrategy(users repository.UserRepo, hasher PasswordHasher, timeout time.Duration) *LocalStrategy {
	return &LocalStrategy{users: users, hasher: hasher, timeout: timeout}
}

type credentials struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
}

// Authenticate reads Username and Password from a JSON body, or else from
// the query string and form body.
func (s *LocalStrategy) Authenticate(ctx context.Context, r *http.Request) (*models.User, error) {
	creds := credentials{}
	if isJSON(r) && r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&creds)
	}
	if creds.Username == "" {
		creds.Username = r.FormValue("Username")
	}
	if creds.Password == "" {
		creds.Password = r.FormValue("Password")
	}
	return s.Verify(ctx, creds.Username, creds.Password)
}

func (s *LocalStrategy) Verify(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrAuthenticationFailed
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil || !s.hasher.Verify(password, u.PasswordHash) {
		return nil, ErrAuthenticationFailed
	}
	return u, nil
}

// BearerStrategy resolves "Authorization: Bearer <token>" to the token's
// subject. A token whose user no longer exists is rejected like a bad one.
type BearerStrategy struct {
	tokens  TokenParser
	users   repository.UserRepo
	timeout time.Duration
}

func NewBearerStrategy(tokens TokenParser, users repository.UserRepo, timeout time.Duration) *BearerStrategy {
	return &BearerStrategy{tokens: tokens, users: users, timeout: timeout}
}

func (s *BearerStrategy) Authenticate(ctx context.Context, r *http.Request) (*models.User, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, ErrMissingAuthHeader
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, ErrInvalidAuthHeader
	}

	claims, err := s.tokens.Parse(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	u, err := s.users.GetByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}
	if u == nil {
		return nil, ErrInvalidToken
	}
	return u, nil
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// withTimeout bounds a single store call; d <= 0 leaves ctx unbounded.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

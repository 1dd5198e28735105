package service

import (
	"context"
	"time"

	"myflix/internal/models"
	"myflix/internal/repository"
)

// Users manages accounts and their favorites lists.
type Users interface {
	Register(ctx context.Context, in UserInput) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, username string, in UserInput) (*models.User, error)
	AddFavorite(ctx context.Context, username, movieID string) (*models.User, error)
	RemoveFavorite(ctx context.Context, username, movieID string) (*models.User, error)
	Delete(ctx context.Context, username string) error
}

// Movies is the read-only catalog.
type Movies interface {
	List(ctx context.Context) ([]models.Movie, error)
	ByTitle(ctx context.Context, title string) (*models.Movie, error)
	ByGenre(ctx context.Context, name string) (*models.Movie, error)
	ByDirector(ctx context.Context, name string) (*models.Movie, error)
	Seed(ctx context.Context, movies []models.Movie) (int, error)
}

type TokenIssuer interface {
	Issue(u *models.User) (string, error)
}

// Service aggregates everything the HTTP layer needs. Local and Bearer are
// the two authentication strategies, picked per route.
type Service struct {
	Users  Users
	Movies Movies
	Tokens TokenIssuer
	Local  CredentialStrategy
	Bearer Strategy
}

type Options struct {
	Hasher          PasswordHasher
	Token           TokenConfig
	StoreTimeout    time.Duration
	UniqueFavorites bool
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, opts Options) *Service {
	hasher := opts.Hasher
	if hasher == nil {
		hasher = NewBcryptHasher(0)
	}
	tokens := NewTokenManager(opts.Token)

	return &Service{
		Users:  NewUserService(repos.Users, hasher, opts.StoreTimeout, opts.UniqueFavorites),
		Movies: NewMovieService(repos.Movies, opts.StoreTimeout),
		Tokens: tokens,
		Local:  NewLocalStrategy(repos.Users, hasher, opts.StoreTimeout),
		Bearer: NewBearerStrategy(tokens, repos.Users, opts.StoreTimeout),
	}
}

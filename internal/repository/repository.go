package repository

import (
	"context"
	"database/sql"
	"errors"

	"myflix/internal/models"
)

// ErrDuplicateUsername is returned when a write would break username uniqueness.
var ErrDuplicateUsername = errors.New("duplicate username")

// UserRepo is the credential store. Lookups return (nil, nil) when no
// document matches; every mutation is a single-document atomic operation
// that returns the document as it is after the change.
type UserRepo interface {
	Create(ctx context.Context, u models.User) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, username string, upd models.UserUpdate) (*models.User, error)
	PushFavorite(ctx context.Context, username, movieID string) (*models.User, error)
	AddFavoriteToSet(ctx context.Context, username, movieID string) (*models.User, error)
	PullFavorite(ctx context.Context, username, movieID string) (*models.User, error)
	Delete(ctx context.Context, username string) (bool, error)
}

// MovieRepo is the read side of the catalog plus bulk insert for seeding.
type MovieRepo interface {
	List(ctx context.Context) ([]models.Movie, error)
	GetByTitle(ctx context.Context, title string) (*models.Movie, error)
	GetByGenre(ctx context.Context, name string) (*models.Movie, error)
	GetByDirector(ctx context.Context, name string) (*models.Movie, error)
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, movies []models.Movie) (int, error)
}

type Repository struct {
	Users  UserRepo
	Movies MovieRepo
}

// NewRepository wires the sqlite implementations.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:  NewUserSQLite(db),
		Movies: NewMovieSQLite(db),
	}
}

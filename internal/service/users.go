package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"myflix/internal/models"
	"myflix/internal/repository"
)

type UserService struct {
	repo            repository.UserRepo
	hasher          PasswordHasher
	timeout         time.Duration
	uniqueFavorites bool
}

func NewUserService(repo repository.UserRepo, hasher PasswordHasher, timeout time.Duration, uniqueFavorites bool) *UserService {
	return &UserService{repo: repo, hasher: hasher, timeout: timeout, uniqueFavorites: uniqueFavorites}
}

// Register validates the input, rejects a taken username and stores the
// user with a freshly hashed password.
func (s *UserService) Register(ctx context.Context, in UserInput) (*models.User, error) {
	birthday, err := in.Validate()
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	existing, err := s.repo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, conflict(in.Username)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.Create(ctx, models.User{
		Username:       in.Username,
		PasswordHash:   hash,
		Email:          in.Email,
		Birthday:       birthday,
		FavoriteMovies: []string{},
	})
	if err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, conflict(in.Username)
		}
		return nil, err
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.repo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, userNotFound(username)
	}
	return u, nil
}

// Update replaces the profile fields of username. The password is always
// re-hashed, so the input must carry it.
func (s *UserService) Update(ctx context.Context, username string, in UserInput) (*models.User, error) {
	birthday, err := in.Validate()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	u, err := s.repo.Update(ctx, username, models.UserUpdate{
		Username:     in.Username,
		PasswordHash: hash,
		Email:        in.Email,
		Birthday:     birthday,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, conflict(in.Username)
		}
		return nil, err
	}
	if u == nil {
		return nil, userNotFound(username)
	}
	return u, nil
}

func (s *UserService) AddFavorite(ctx context.Context, username, movieID string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	add := s.repo.PushFavorite
	if s.uniqueFavorites {
		add = s.repo.AddFavoriteToSet
	}
	u, err := add(ctx, username, movieID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, userNotFound(username)
	}
	return u, nil
}

// RemoveFavorite drops every occurrence of movieID. Removing an id that is
// not in the list leaves it unchanged.
func (s *UserService) RemoveFavorite(ctx context.Context, username, movieID string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	u, err := s.repo.PullFavorite(ctx, username, movieID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, userNotFound(username)
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, username string) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	deleted, err := s.repo.Delete(ctx, username)
	if err != nil {
		return err
	}
	if !deleted {
		return userNotFound(username)
	}
	return nil
}

func conflict(username string) error {
	return fmt.Errorf("%s %w", username, ErrConflict)
}

func userNotFound(username string) error {
	return fmt.Errorf("user %s %w", username, ErrNotFound)
}

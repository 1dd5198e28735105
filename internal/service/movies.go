package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"myflix/internal/models"
	"myflix/internal/repository"
)

type MovieService struct {
	repo    repository.MovieRepo
	timeout time.Duration
}

func NewMovieService(repo repository.MovieRepo, timeout time.Duration) *MovieService {
	return &MovieService{repo: repo, timeout: timeout}
}

func (s *MovieService) List(ctx context.Context) ([]models.Movie, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	return s.repo.List(ctx)
}

func (s *MovieService) ByTitle(ctx context.Context, title string) (*models.Movie, error) {
	return s.one(ctx, s.repo.GetByTitle, "title", title)
}

// ByGenre returns the first movie whose genre name matches.
func (s *MovieService) ByGenre(ctx context.Context, name string) (*models.Movie, error) {
	return s.one(ctx, s.repo.GetByGenre, "genre", name)
}

// ByDirector returns the first movie whose director name matches.
func (s *MovieService) ByDirector(ctx context.Context, name string) (*models.Movie, error) {
	return s.one(ctx, s.repo.GetByDirector, "director", name)
}

func (s *MovieService) one(
	ctx context.Context,
	get func(context.Context, string) (*models.Movie, error),
	field, value string,
) (*models.Movie, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	m, err := get(ctx, value)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("movie with %s %q %w", field, value, ErrNotFound)
	}
	return m, nil
}

// Seed inserts movies only when the catalog is empty and reports how many
// were written.
func (s *MovieService) Seed(ctx context.Context, movies []models.Movie) (int, error) {
	if len(movies) == 0 {
		return 0, nil
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	return s.repo.Insert(ctx, movies)
}

// LoadSeedFile reads a JSON array of movies in the API's wire shape.
func LoadSeedFile(path string) ([]models.Movie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var movies []models.Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, fmt.Errorf("decode seed file %q: %w", path, err)
	}
	return movies, nil
}

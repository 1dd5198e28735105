package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"myflix/internal/models"

	"github.com/google/uuid"
)

type MovieSQLite struct {
	db *sql.DB
}

func NewMovieSQLite(db *sql.DB) *MovieSQLite {
	return &MovieSQLite{db: db}
}

var _ MovieRepo = (*MovieSQLite)(nil)

const (
	movieColumns = `id, title, description, genre_name, genre_description, director_name, director_bio,
		director_birth_year, year, rating, actors, image_path, featured`

	selectMoviesSQL          = `SELECT ` + movieColumns + ` FROM movies ORDER BY rowid`
	selectMovieByTitleSQL    = `SELECT ` + movieColumns + ` FROM movies WHERE title = ? LIMIT 1`
	selectMovieByGenreSQL    = `SELECT ` + movieColumns + ` FROM movies WHERE genre_name = ? LIMIT 1`
	selectMovieByDirectorSQL = `SELECT ` + movieColumns + ` FROM movies WHERE director_name = ? LIMIT 1`
	countMoviesSQL           = `SELECT COUNT(*) FROM movies`
	insertMovieSQL           = `INSERT INTO movies (` + movieColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
)

func scanMovie(row rowScanner) (*models.Movie, error) {
	var (
		m      models.Movie
		actors string
	)
	if err := row.Scan(
		&m.ID,
		&m.Title,
		&m.Description,
		&m.Genre.Name,
		&m.Genre.Description,
		&m.Director.Name,
		&m.Director.Bio,
		&m.Director.BirthYear,
		&m.Year,
		&m.Rating,
		&actors,
		&m.ImagePath,
		&m.Featured,
	); err != nil {
		return nil, err
	}
	m.Actors = []string{}
	if actors != "" {
		if err := json.Unmarshal([]byte(actors), &m.Actors); err != nil {
			return nil, fmt.Errorf("decode actors of %q: %w", m.Title, err)
		}
	}
	return &m, nil
}

func (r *MovieSQLite) List(ctx context.Context) ([]models.Movie, error) {
	rows, err := r.db.QueryContext(ctx, selectMoviesSQL)
	if err != nil {
		return nil, fmt.Errorf("select movies: %w", err)
	}
	defer rows.Close()

	out := make([]models.Movie, 0, 64)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return out, nil
}

func (r *MovieSQLite) GetByTitle(ctx context.Context, title string) (*models.Movie, error) {
	return r.getOne(ctx, selectMovieByTitleSQL, "title", title)
}

func (r *MovieSQLite) GetByGenre(ctx context.Context, name string) (*models.Movie, error) {
	return r.getOne(ctx, selectMovieByGenreSQL, "genre", name)
}

func (r *MovieSQLite) GetByDirector(ctx context.Context, name string) (*models.Movie, error) {
	return r.getOne(ctx, selectMovieByDirectorSQL, "director", name)
}

// getOne returns (nil, nil) when nothing matches.
func (r *MovieSQLite) getOne(ctx context.Context, query, field, value string) (*models.Movie, error) {
	m, err := scanMovie(r.db.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select movie by %s %q: %w", field, value, err)
	}
	return m, nil
}

func (r *MovieSQLite) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, countMoviesSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return n, nil
}

// Insert adds all movies in one transaction and returns how many were written.
func (r *MovieSQLite) Insert(ctx context.Context, movies []models.Movie) (int, error) {
	if len(movies) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert movies: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, m := range movies {
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if m.Actors == nil {
			m.Actors = []string{}
		}
		actors, err := json.Marshal(m.Actors)
		if err != nil {
			return 0, fmt.Errorf("encode actors of %q: %w", m.Title, err)
		}
		if _, err := tx.ExecContext(ctx, insertMovieSQL,
			m.ID,
			m.Title,
			m.Description,
			m.Genre.Name,
			m.Genre.Description,
			m.Director.Name,
			m.Director.Bio,
			m.Director.BirthYear,
			m.Year,
			m.Rating,
			string(actors),
			m.ImagePath,
			m.Featured,
		); err != nil {
			return 0, fmt.Errorf("insert movie %q: %w", m.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert movies: %w", err)
	}
	return len(movies), nil
}

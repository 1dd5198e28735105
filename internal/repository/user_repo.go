package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"myflix/internal/models"

	"github.com/google/uuid"
)

type UserSQLite struct {
	db *sql.DB
}

func NewUserSQLite(db *sql.DB) *UserSQLite {
	return &UserSQLite{db: db}
}

// Ensure implementation of UserRepo interface at compile time.
var _ UserRepo = (*UserSQLite)(nil)

const (
	insertUserSQL = `INSERT INTO users (id, username, password_hash, email, birthday, favorite_movies) VALUES (?, ?, ?, ?, ?, ?)`

	selectUsersSQL = `SELECT id, username, password_hash, email, birthday, favorite_movies FROM users ORDER BY rowid`

	selectUserByUsernameSQL = `SELECT id, username, password_hash, email, birthday, favorite_movies FROM users WHERE username = ?`

	updateUserSQL = `UPDATE users SET username = ?, password_hash = ?, email = ?, birthday = ? WHERE username = ?
		RETURNING id, username, password_hash, email, birthday, favorite_movies`

	// favorite_movies is a JSON array; each statement rewrites it in place so
	// concurrent push/pull on the same row cannot interleave.
	pushFavoriteSQL = `UPDATE users SET favorite_movies = json_insert(favorite_movies, '$[#]', ?) WHERE username = ?
		RETURNING id, username, password_hash, email, birthday, favorite_movies`

	addFavoriteToSetSQL = `UPDATE users SET favorite_movies = CASE
			WHEN EXISTS (SELECT 1 FROM json_each(users.favorite_movies) WHERE value = ?) THEN favorite_movies
			ELSE json_insert(favorite_movies, '$[#]', ?)
		END WHERE username = ?
		RETURNING id, username, password_hash, email, birthday, favorite_movies`

	pullFavoriteSQL = `UPDATE users SET favorite_movies = (
			SELECT json_group_array(value) FROM json_each(users.favorite_movies) WHERE value <> ?
		) WHERE username = ?
		RETURNING id, username, password_hash, email, birthday, favorite_movies`

	deleteUserSQL = `DELETE FROM users WHERE username = ?`
)

type rowScanner interface {
	Scan(dest ...any) error
}

// marshalMovieIDs converts the favorites slice to a JSON string.
func marshalMovieIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// unmarshalMovieIDs parses a JSON string into a non-nil slice.
func unmarshalMovieIDs(s string) ([]string, error) {
	ids := []string{}
	if s == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(s), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// birthdayValue renders the optional birthday as a date-only TEXT value.
func birthdayValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(models.BirthdayLayout)
}

func parseBirthday(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(models.BirthdayLayout, s.String)
	if err != nil {
		return nil, fmt.Errorf("parse birthday %q: %w", s.String, err)
	}
	return &t, nil
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u         models.User
		birthday  sql.NullString
		favorites string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &birthday, &favorites); err != nil {
		return nil, err
	}
	var err error
	if u.Birthday, err = parseBirthday(birthday); err != nil {
		return nil, err
	}
	if u.FavoriteMovies, err = unmarshalMovieIDs(favorites); err != nil {
		return nil, fmt.Errorf("decode favorite_movies of %q: %w", u.Username, err)
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Create inserts a new user document, assigning an id when the caller did not.
func (r *UserSQLite) Create(ctx context.Context, u models.User) (*models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.FavoriteMovies == nil {
		u.FavoriteMovies = []string{}
	}
	favorites, err := marshalMovieIDs(u.FavoriteMovies)
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx, insertUserSQL,
		u.ID, u.Username, u.PasswordHash, u.Email, birthdayValue(u.Birthday), favorites)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("insert user %q: %w", u.Username, ErrDuplicateUsername)
		}
		return nil, fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	return &u, nil
}

func (r *UserSQLite) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUsersSQL)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	out := make([]models.User, 0, 16)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByUsernameSQL, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return u, nil
}

func (r *UserSQLite) Update(ctx context.Context, username string, upd models.UserUpdate) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, updateUserSQL,
		upd.Username, upd.PasswordHash, upd.Email, birthdayValue(upd.Birthday), username)
	return r.returning(row, "update user", username)
}

func (r *UserSQLite) PushFavorite(ctx context.Context, username, movieID string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, pushFavoriteSQL, movieID, username)
	return r.returning(row, "push favorite", username)
}

func (r *UserSQLite) AddFavoriteToSet(ctx context.Context, username, movieID string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, addFavoriteToSetSQL, movieID, movieID, username)
	return r.returning(row, "add favorite", username)
}

func (r *UserSQLite) PullFavorite(ctx context.Context, username, movieID string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, pullFavoriteSQL, movieID, username)
	return r.returning(row, "pull favorite", username)
}

// returning scans the row produced by an UPDATE ... RETURNING statement.
// No row means no user matched.
func (r *UserSQLite) returning(row *sql.Row, op, username string) (*models.User, error) {
	u, err := scanUser(row)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, nil
		case isUniqueViolation(err):
			return nil, fmt.Errorf("%s %q: %w", op, username, ErrDuplicateUsername)
		default:
			return nil, fmt.Errorf("%s %q: %w", op, username, err)
		}
	}
	return u, nil
}

// Delete removes the user and reports whether a row existed.
func (r *UserSQLite) Delete(ctx context.Context, username string) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteUserSQL, username)
	if err != nil {
		return false, fmt.Errorf("delete user %q: %w", username, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for user %q: %w", username, err)
	}
	return n > 0, nil
}

package service

import (
	"context"
	"time"

	"myflix/internal/models"
)

// mockUserRepo is a lightweight in-test mock for repository.UserRepo.
type mockUserRepo struct {
	CreateFn           func(u models.User) (*models.User, error)
	ListFn             func() ([]models.User, error)
	GetByUsernameFn    func(username string) (*models.User, error)
	UpdateFn           func(username string, upd models.UserUpdate) (*models.User, error)
	PushFavoriteFn     func(username, movieID string) (*models.User, error)
	AddFavoriteToSetFn func(username, movieID string) (*models.User, error)
	PullFavoriteFn     func(username, movieID string) (*models.User, error)
	DeleteFn           func(username string) (bool, error)

	createCalls []models.User
	updateCalls []models.UserUpdate
	getCalls    []string
	deadlines   []bool
}

func (m *mockUserRepo) record(ctx context.Context) {
	_, ok := ctx.Deadline()
	m.deadlines = append(m.deadlines, ok)
}

func (m *mockUserRepo) Create(ctx context.Context, u models.User) (*models.User, error) {
	m.record(ctx)
	m.createCalls = append(m.createCalls, u)
	return m.CreateFn(u)
}

func (m *mockUserRepo) List(ctx context.Context) ([]models.User, error) {
	m.record(ctx)
	return m.ListFn()
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.record(ctx)
	m.getCalls = append(m.getCalls, username)
	return m.GetByUsernameFn(username)
}

func (m *mockUserRepo) Update(ctx context.Context, username string, upd models.UserUpdate) (*models.User, error) {
	m.record(ctx)
	m.updateCalls = append(m.updateCalls, upd)
	return m.UpdateFn(username, upd)
}

func (m *mockUserRepo) PushFavorite(ctx context.Context, username, movieID string) (*models.User, error) {
	m.record(ctx)
	return m.PushFavoriteFn(username, movieID)
}

func (m *mockUserRepo) AddFavoriteToSet(ctx context.Context, username, movieID string) (*models.User, error) {
	m.record(ctx)
	return m.AddFavoriteToSetFn(username, movieID)
}

func (m *mockUserRepo) PullFavorite(ctx context.Context, username, movieID string) (*models.User, error) {
	m.record(ctx)
	return m.PullFavoriteFn(username, movieID)
}

func (m *mockUserRepo) Delete(ctx context.Context, username string) (bool, error) {
	m.record(ctx)
	return m.DeleteFn(username)
}

type mockMovieRepo struct {
	movies    []models.Movie
	count     int64
	err       error
	inserted  []models.Movie
	lastQuery string
}

func (m *mockMovieRepo) List(ctx context.Context) ([]models.Movie, error) {
	return m.movies, m.err
}

func (m *mockMovieRepo) find(match func(models.Movie) bool) (*models.Movie, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.movies {
		if match(m.movies[i]) {
			return &m.movies[i], nil
		}
	}
	return nil, nil
}

func (m *mockMovieRepo) GetByTitle(ctx context.Context, title string) (*models.Movie, error) {
	m.lastQuery = "title:" + title
	return m.find(func(mv models.Movie) bool { return mv.Title == title })
}

func (m *mockMovieRepo) GetByGenre(ctx context.Context, name string) (*models.Movie, error) {
	m.lastQuery = "genre:" + name
	return m.find(func(mv models.Movie) bool { return mv.Genre.Name == name })
}

func (m *mockMovieRepo) GetByDirector(ctx context.Context, name string) (*models.Movie, error) {
	m.lastQuery = "director:" + name
	return m.find(func(mv models.Movie) bool { return mv.Director.Name == name })
}

func (m *mockMovieRepo) Count(ctx context.Context) (int64, error) {
	return m.count, m.err
}

func (m *mockMovieRepo) Insert(ctx context.Context, movies []models.Movie) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.inserted = append(m.inserted, movies...)
	return len(movies), nil
}

// fixedClock returns a clock frozen at t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// testHasher keeps tests fast while still going through bcrypt.
var testHasher = NewBcryptHasher(4)

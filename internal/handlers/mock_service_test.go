package handlers

import (
	"context"
	"net/http"

	"myflix/internal/models"
	"myflix/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockUsers struct {
	registerUser *models.User
	registerErr  error
	lastRegister service.UserInput

	listResp []models.User
	listErr  error

	getFn func(username string) (*models.User, error)

	updateUser         *models.User
	updateErr          error
	lastUpdateUsername string
	lastUpdate         service.UserInput

	favUser      *models.User
	favErr       error
	lastFavUser  string
	lastFavMovie string
	addCalls     int
	removeCalls  int

	deleteErr  error
	lastDelete string
}

func (m *mockUsers) Register(ctx context.Context, in service.UserInput) (*models.User, error) {
	m.lastRegister = in
	return m.registerUser, m.registerErr
}

func (m *mockUsers) List(ctx context.Context) ([]models.User, error) {
	return m.listResp, m.listErr
}

func (m *mockUsers) Get(ctx context.Context, username string) (*models.User, error) {
	return m.getFn(username)
}

func (m *mockUsers) Update(ctx context.Context, username string, in service.UserInput) (*models.User, error) {
	m.lastUpdateUsername = username
	m.lastUpdate = in
	return m.updateUser, m.updateErr
}

func (m *mockUsers) AddFavorite(ctx context.Context, username, movieID string) (*models.User, error) {
	m.addCalls++
	m.lastFavUser, m.lastFavMovie = username, movieID
	return m.favUser, m.favErr
}

func (m *mockUsers) RemoveFavorite(ctx context.Context, username, movieID string) (*models.User, error) {
	m.removeCalls++
	m.lastFavUser, m.lastFavMovie = username, movieID
	return m.favUser, m.favErr
}

func (m *mockUsers) Delete(ctx context.Context, username string) error {
	m.lastDelete = username
	return m.deleteErr
}

type mockMovies struct {
	list      []models.Movie
	listErr   error
	one       *models.Movie
	oneErr    error
	lastQuery string
}

func (m *mockMovies) List(ctx context.Context) ([]models.Movie, error) {
	return m.list, m.listErr
}

func (m *mockMovies) ByTitle(ctx context.Context, title string) (*models.Movie, error) {
	m.lastQuery = "title:" + title
	return m.one, m.oneErr
}

func (m *mockMovies) ByGenre(ctx context.Context, name string) (*models.Movie, error) {
	m.lastQuery = "genre:" + name
	return m.one, m.oneErr
}

func (m *mockMovies) ByDirector(ctx context.Context, name string) (*models.Movie, error) {
	m.lastQuery = "director:" + name
	return m.one, m.oneErr
}

func (m *mockMovies) Seed(ctx context.Context, movies []models.Movie) (int, error) {
	return 0, nil
}

type mockTokens struct {
	token string
	err   error
}

func (m *mockTokens) Issue(u *models.User) (string, error) {
	return m.token, m.err
}

type mockStrategy struct {
	user  *models.User
	err   error
	calls int

	verifyFn      func(username, password string) (*models.User, error)
	verifiedNames []string
}

func (m *mockStrategy) Authenticate(ctx context.Context, r *http.Request) (*models.User, error) {
	m.calls++
	return m.user, m.err
}

func (m *mockStrategy) Verify(ctx context.Context, username, password string) (*models.User, error) {
	m.calls++
	m.verifiedNames = append(m.verifiedNames, username)
	if m.verifyFn != nil {
		return m.verifyFn(username, password)
	}
	return m.user, m.err
}

// ---- Shared Test Helpers ----

// authedAs returns a bearer strategy that always resolves to username.
func authedAs(username string) *mockStrategy {
	return &mockStrategy{user: &models.User{ID: "u-1", Username: username, FavoriteMovies: []string{}}}
}

func newTestRouter(s *service.Service, opts ...Option) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, opts...)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

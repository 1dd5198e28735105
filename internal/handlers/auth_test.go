package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"myflix/internal/models"
	"myflix/internal/service"

	"github.com/gin-gonic/gin"
)

func TestRegister(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		body        string
		users       *mockUsers
		wantCode    int
		wantBody    string
	}{
		{
			name:        "created from json",
			contentType: "application/json",
			body:        `{"Username":"alice123","Password":"secretpw","Email":"a@b.com","Birthday":"1990-05-17"}`,
			users:       &mockUsers{registerUser: &models.User{ID: "u-1", Username: "alice123", PasswordHash: "$2a$10$x"}},
			wantCode:    http.StatusCreated,
			wantBody:    `"passwordHash":"$2a$10$x"`,
		},
		{
			name:        "created from form",
			contentType: "application/x-www-form-urlencoded",
			body:        url.Values{"Username": {"alice123"}, "Password": {"secretpw"}, "Email": {"a@b.com"}}.Encode(),
			users:       &mockUsers{registerUser: &models.User{ID: "u-1", Username: "alice123"}},
			wantCode:    http.StatusCreated,
		},
		{
			name:        "validation errors",
			contentType: "application/json",
			body:        `{"Username":"ab","Password":"","Email":"x"}`,
			users: &mockUsers{registerErr: &service.ValidationError{Errors: []service.FieldError{
				{Field: "Username", Message: "Username is required"},
				{Field: "Password", Message: "Password is required"},
			}}},
			wantCode: http.StatusUnprocessableEntity,
			wantBody: `{"errors":[{"field":"Username","message":"Username is required"},{"field":"Password","message":"Password is required"}]}`,
		},
		{
			name:        "duplicate username",
			contentType: "application/json",
			body:        `{"Username":"alice123","Password":"secretpw","Email":"a@b.com"}`,
			users:       &mockUsers{registerErr: fmt.Errorf("alice123 %w", service.ErrConflict)},
			wantCode:    http.StatusBadRequest,
			wantBody:    `{"error":"alice123 already exists"}`,
		},
		{
			name:        "store failure",
			contentType: "application/json",
			body:        `{"Username":"alice123","Password":"secretpw","Email":"a@b.com"}`,
			users:       &mockUsers{registerErr: errors.New("connection refused")},
			wantCode:    http.StatusInternalServerError,
			wantBody:    `{"error":"Error: connection refused"}`,
		},
		{
			name:        "malformed json",
			contentType: "application/json",
			body:        `{"Username":`,
			users:       &mockUsers{},
			wantCode:    http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&service.Service{Users: tc.users, Bearer: &mockStrategy{}})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", tc.contentType)
			r.ServeHTTP(w, req)

			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.wantBody != "" && !strings.Contains(w.Body.String(), tc.wantBody) {
				t.Fatalf("body %s does not contain %s", w.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestRegister_PassesFieldsThrough(t *testing.T) {
	users := &mockUsers{registerUser: &models.User{Username: "alice123"}}
	r := newTestRouter(&service.Service{Users: users, Bearer: &mockStrategy{}})

	body := bytes.NewBufferString(`{"Username":"alice123","Password":"secretpw","Email":"a@b.com","Birthday":"1990-05-17"}`)
	req := httptest.NewRequest(http.MethodPost, "/users", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(httptest.NewRecorder(), req)

	want := service.UserInput{Username: "alice123", Password: "secretpw", Email: "a@b.com", Birthday: "1990-05-17"}
	if users.lastRegister != want {
		t.Fatalf("Register got %+v, want %+v", users.lastRegister, want)
	}
}

func TestLogin(t *testing.T) {
	alice := &models.User{ID: "u-1", Username: "alice123", PasswordHash: "$2a$10$x", FavoriteMovies: []string{}}

	t.Run("success returns user and token", func(t *testing.T) {
		local := &mockStrategy{user: alice}
		r := newTestRouter(&service.Service{Local: local, Tokens: &mockTokens{token: "tok123"}, Bearer: &mockStrategy{}})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login?Username=alice123&Password=secretpw", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
		}
		var resp struct {
			User  models.User `json:"user"`
			Token string      `json:"token"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if resp.Token != "tok123" || resp.User.Username != "alice123" {
			t.Fatalf("unexpected response: %+v", resp)
		}
		if local.calls != 1 {
			t.Fatalf("expected Local strategy to run once, got %d", local.calls)
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		r := newTestRouter(&service.Service{Local: &mockStrategy{err: service.ErrAuthenticationFailed}, Bearer: &mockStrategy{}})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login?Username=alice123&Password=nope", nil))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "invalid username or password") {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("token issue failure", func(t *testing.T) {
		r := newTestRouter(&service.Service{
			Local:  &mockStrategy{user: alice},
			Tokens: &mockTokens{err: errors.New("sign token: key is invalid")},
			Bearer: &mockStrategy{},
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login?Username=alice123&Password=secretpw", nil))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
		}
	})
}

func TestLogin_RateLimited(t *testing.T) {
	limiter := NewLoginLimiter(LoginLimiterConfig{MaxAttempts: 2})
	defer limiter.Stop()

	r := newTestRouter(
		&service.Service{Local: &mockStrategy{err: service.ErrAuthenticationFailed}, Bearer: &mockStrategy{}},
		WithLoginLimiter(limiter),
	)

	codes := make([]int, 0, 3)
	retryAfter := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login?Username=alice123&Password=nope", nil))
		codes = append(codes, w.Code)
		retryAfter = append(retryAfter, w.Header().Get("Retry-After"))
	}

	want := []int{http.StatusBadRequest, http.StatusBadRequest, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("attempt %d: status=%d, want %d (all=%v)", i+1, codes[i], want[i], codes)
		}
	}
	if len(retryAfter) != 3 || retryAfter[2] != strconv.Itoa(int((30*time.Minute).Seconds())) {
		t.Fatalf("Retry-After = %q, want delta-seconds 1800", retryAfter)
	}

	// a different username from the same address is unaffected
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login?Username=bobby12&Password=nope", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for other user, got %d", w.Code)
	}
}

func postJSONLogin(r http.Handler, username, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"Username": username, "Password": password})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogin_JSONBodyCountsPerUsername(t *testing.T) {
	limiter := NewLoginLimiter(LoginLimiterConfig{MaxAttempts: 3})
	defer limiter.Stop()

	local := &mockStrategy{verifyFn: func(username, password string) (*models.User, error) {
		if username == "mallory1" && password == "mallorypw" {
			return &models.User{Username: "mallory1"}, nil
		}
		return nil, service.ErrAuthenticationFailed
	}}
	r := newTestRouter(
		&service.Service{Local: local, Tokens: &mockTokens{token: "tok"}, Bearer: &mockStrategy{}},
		WithLoginLimiter(limiter),
	)

	steps := []struct {
		username, password string
		want               int
	}{
		{"alice123", "guess001", http.StatusBadRequest},
		{"alice123", "guess002", http.StatusBadRequest},
		// a good login to another account must not reset alice123's count
		{"mallory1", "mallorypw", http.StatusOK},
		{"alice123", "guess003", http.StatusBadRequest},
		{"alice123", "guess004", http.StatusTooManyRequests},
		// other accounts behind the same address keep working
		{"mallory1", "mallorypw", http.StatusOK},
	}
	for i, st := range steps {
		w := postJSONLogin(r, st.username, st.password)
		if w.Code != st.want {
			t.Fatalf("step %d (%s): status=%d, want %d, body=%s", i+1, st.username, w.Code, st.want, w.Body.String())
		}
	}

	want := []string{"alice123", "alice123", "mallory1", "alice123", "mallory1"}
	if strings.Join(local.verifiedNames, ",") != strings.Join(want, ",") {
		t.Fatalf("verified %v, want %v", local.verifiedNames, want)
	}
}

func TestLoginCredentials_Sources(t *testing.T) {
	cases := []struct {
		name        string
		target      string
		contentType string
		body        string
		want        loginForm
	}{
		{"query", "/login?Username=alice123&Password=secretpw", "", "", loginForm{"alice123", "secretpw"}},
		{"form", "/login", "application/x-www-form-urlencoded", "Username=alice123&Password=secretpw", loginForm{"alice123", "secretpw"}},
		{"json", "/login", "application/json", `{"Username":"alice123","Password":"secretpw"}`, loginForm{"alice123", "secretpw"}},
		{"json with query fallback", "/login?Password=secretpw", "application/json", `{"Username":"alice123"}`, loginForm{"alice123", "secretpw"}},
		{"malformed json", "/login", "application/json", `{"Username":`, loginForm{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, tc.target, strings.NewReader(tc.body))
			if tc.contentType != "" {
				c.Request.Header.Set("Content-Type", tc.contentType)
			}

			if got := loginCredentials(c); got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
			// second read comes from the context, not the drained body
			if got := loginCredentials(c); got != tc.want {
				t.Fatalf("cached read got %+v, want %+v", got, tc.want)
			}
		})
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"myflix/internal/models"
	"myflix/internal/repository"
)

var aliceInput = UserInput{Username: "alice123", Password: "secretpw", Email: "a@b.com", Birthday: "1990-05-17"}

func TestUserService_Register_StoresHashNotRawPassword(t *testing.T) {
	repo := &mockUserRepo{
		GetByUsernameFn: func(string) (*models.User, error) { return nil, nil },
		CreateFn: func(u models.User) (*models.User, error) {
			u.ID = "u-1"
			return &u, nil
		},
	}
	svc := NewUserService(repo, testHasher, time.Second, false)

	u, err := svc.Register(context.Background(), aliceInput)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if len(repo.createCalls) != 1 {
		t.Fatalf("expected 1 Create call, got %d", len(repo.createCalls))
	}

	stored := repo.createCalls[0]
	if stored.PasswordHash == "secretpw" {
		t.Fatalf("raw password reached the store")
	}
	if !testHasher.Verify("secretpw", stored.PasswordHash) {
		t.Fatalf("stored hash does not verify with the raw password")
	}
	if stored.Birthday == nil || stored.Birthday.Format(models.BirthdayLayout) != "1990-05-17" {
		t.Fatalf("unexpected birthday: %v", stored.Birthday)
	}
	if stored.FavoriteMovies == nil || len(stored.FavoriteMovies) != 0 {
		t.Fatalf("expected empty favorites, got %#v", stored.FavoriteMovies)
	}
	if u.ID != "u-1" {
		t.Fatalf("expected created user to be returned, got %+v", u)
	}
	for i, ok := range repo.deadlines {
		if !ok {
			t.Fatalf("store call %d ran without a deadline", i)
		}
	}
}

func TestUserService_Register_DuplicateUsernameLeavesStoreUnchanged(t *testing.T) {
	repo := &mockUserRepo{
		GetByUsernameFn: func(username string) (*models.User, error) {
			return &models.User{Username: username}, nil
		},
		CreateFn: func(models.User) (*models.User, error) {
			t.Fatal("Create should not be called for a taken username")
			return nil, nil
		},
	}
	svc := NewUserService(repo, testHasher, time.Second, false)

	_, err := svc.Register(context.Background(), aliceInput)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err.Error() != "alice123 already exists" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestUserService_Register_RaceOnCreateIsConflict(t *testing.T) {
	repo := &mockUserRepo{
		GetByUsernameFn: func(string) (*models.User, error) { return nil, nil },
		CreateFn: func(models.User) (*models.User, error) {
			return nil, fmt.Errorf("insert user: %w", repository.ErrDuplicateUsername)
		},
	}
	svc := NewUserService(repo, testHasher, time.Second, false)

	if _, err := svc.Register(context.Background(), aliceInput); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUserService_Register_InvalidInputSkipsStore(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewUserService(repo, testHasher, time.Second, false)

	_, err := svc.Register(context.Background(), UserInput{Username: "ab", Password: "x", Email: "nope"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(repo.getCalls) != 0 || len(repo.createCalls) != 0 {
		t.Fatalf("store touched on invalid input")
	}
}

func TestUserService_Get(t *testing.T) {
	repo := &mockUserRepo{
		GetByUsernameFn: func(username string) (*models.User, error) {
			if username == "alice123" {
				return &models.User{Username: username}, nil
			}
			return nil, nil
		},
	}
	svc := NewUserService(repo, testHasher, time.Second, false)

	if _, err := svc.Get(context.Background(), "alice123"); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if _, err := svc.Get(context.Background(), "ghost12"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserService_Update(t *testing.T) {
	tests := []struct {
		name     string
		updateFn func(string, models.UserUpdate) (*models.User, error)
		wantErr  error
	}{
		{
			name: "success",
			updateFn: func(_ string, upd models.UserUpdate) (*models.User, error) {
				return &models.User{Username: upd.Username, PasswordHash: upd.PasswordHash}, nil
			},
		},
		{
			name:     "unknown user",
			updateFn: func(string, models.UserUpdate) (*models.User, error) { return nil, nil },
			wantErr:  ErrNotFound,
		},
		{
			name: "rename onto taken username",
			updateFn: func(string, models.UserUpdate) (*models.User, error) {
				return nil, repository.ErrDuplicateUsername
			},
			wantErr: ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockUserRepo{UpdateFn: tt.updateFn}
			svc := NewUserService(repo, testHasher, time.Second, false)

			u, err := svc.Update(context.Background(), "alice123", aliceInput)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if u.PasswordHash == "secretpw" || !testHasher.Verify("secretpw", repo.updateCalls[0].PasswordHash) {
				t.Fatalf("password was not re-hashed")
			}
		})
	}
}

func TestUserService_AddFavorite_Policy(t *testing.T) {
	var pushed, setAdded int
	newRepo := func() *mockUserRepo {
		return &mockUserRepo{
			PushFavoriteFn: func(username, movieID string) (*models.User, error) {
				pushed++
				return &models.User{Username: username, FavoriteMovies: []string{movieID}}, nil
			},
			AddFavoriteToSetFn: func(username, movieID string) (*models.User, error) {
				setAdded++
				return &models.User{Username: username, FavoriteMovies: []string{movieID}}, nil
			},
		}
	}

	if _, err := NewUserService(newRepo(), testHasher, time.Second, false).AddFavorite(context.Background(), "alice123", "64abc"); err != nil {
		t.Fatalf("AddFavorite returned error: %v", err)
	}
	if _, err := NewUserService(newRepo(), testHasher, time.Second, true).AddFavorite(context.Background(), "alice123", "64abc"); err != nil {
		t.Fatalf("AddFavorite returned error: %v", err)
	}
	if pushed != 1 || setAdded != 1 {
		t.Fatalf("pushed=%d setAdded=%d, want 1 and 1", pushed, setAdded)
	}
}

func TestUserService_Favorites_UnknownUser(t *testing.T) {
	repo := &mockUserRepo{
		PushFavoriteFn: func(string, string) (*models.User, error) { return nil, nil },
		PullFavoriteFn: func(string, string) (*models.User, error) { return nil, nil },
	}
	svc := NewUserService(repo, testHasher, time.Second, false)

	if _, err := svc.AddFavorite(context.Background(), "ghost12", "m1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from AddFavorite, got %v", err)
	}
	if _, err := svc.RemoveFavorite(context.Background(), "ghost12", "m1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from RemoveFavorite, got %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	tests := []struct {
		name    string
		deleted bool
		repoErr error
		wantErr error
	}{
		{name: "deleted", deleted: true},
		{name: "unknown user", wantErr: ErrNotFound},
		{name: "store error", repoErr: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockUserRepo{
				DeleteFn: func(string) (bool, error) { return tt.deleted, tt.repoErr },
			}
			err := NewUserService(repo, testHasher, time.Second, false).Delete(context.Background(), "alice123")

			switch {
			case tt.repoErr != nil:
				if !errors.Is(err, tt.repoErr) {
					t.Fatalf("expected store error, got %v", err)
				}
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestUserService_NoTimeoutLeavesContextUnbounded(t *testing.T) {
	repo := &mockUserRepo{ListFn: func() ([]models.User, error) { return nil, nil }}
	if _, err := NewUserService(repo, testHasher, 0, false).List(context.Background()); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(repo.deadlines) != 1 || repo.deadlines[0] {
		t.Fatalf("expected no deadline with zero timeout")
	}
}

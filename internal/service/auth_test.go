package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ketsia/linklet/internal/apperror"
	"github.com/ketsia/linklet/internal/auth"
)

func newTestAuthService(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()
	repo := newMockUserRepo()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceWithCost(4)
	return NewAuthService(repo, tokens, passwords, testLogger()), repo
}

func TestRegister_Success(t *testing.T) {
	svc, _ := newTestAuthService(t)

	res, err := svc.Register(context.Background(), "alice", "alice@x.com", "pw123456")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if res.Token == "" {
		t.Error("Register() did not issue a token")
	}
	u := res.User
	if u.ID == "" {
		t.Error("Register() did not assign an ID")
	}
	if u.PostsCount != 0 {
		t.Errorf("PostsCount = %d, want 0", u.PostsCount)
	}
	if len(u.Followers) != 0 || len(u.Following) != 0 {
		t.Error("new user should have empty follower/following sets")
	}
	if u.ProfilePic != DefaultProfilePic || u.Bio != DefaultBio {
		t.Error("new user missing default profile picture or bio")
	}
	if u.PasswordHash == "pw123456" || u.PasswordHash == "" {
		t.Error("password was not hashed")
	}
}

func TestRegister_TokenIsValid(t *testing.T) {
	svc, _ := newTestAuthService(t)

	res, err := svc.Register(context.Background(), "alice", "alice@x.com", "pw123456")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Registration auto-authenticates: the returned token must verify.
	claims, err := svc.ValidateToken(res.Token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != res.User.ID || claims.Username != "alice" {
		t.Errorf("claims = %+v, want %s/alice", claims, res.User.ID)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _ := newTestAuthService(t)

	cases := []struct {
		name                      string
		username, email, password string
	}{
		{"no username", "", "a@x.com", "pw"},
		{"no email", "alice", "", "pw"},
		{"no password", "alice", "a@x.com", ""},
		{"whitespace username", "   ", "a@x.com", "pw"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.username, tc.email, tc.password)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Register() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := newTestAuthService(t)
	registerTestUser(t, svc, "alice")

	_, err := svc.Register(context.Background(), "alice", "other@x.com", "pw123456")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Register() error = %v, want ErrConflict", err)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Field != "username" {
		t.Errorf("conflict field = %v, want username", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)
	registerTestUser(t, svc, "alice")

	_, err := svc.Register(context.Background(), "alice2", "alice@example.com", "pw123456")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Register() error = %v, want ErrConflict", err)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Field != "email" {
		t.Errorf("conflict field = %v, want email", err)
	}
}

func TestLogin_ByUsernameAndByEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)
	created := registerTestUser(t, svc, "alice")

	for _, identifier := range []string{"alice", "alice@example.com"} {
		res, err := svc.Login(context.Background(), identifier, "pw123456")
		if err != nil {
			t.Fatalf("Login(%s) error = %v", identifier, err)
		}
		if res.User.ID != created.ID {
			t.Errorf("Login(%s) user = %s, want %s", identifier, res.User.ID, created.ID)
		}
		if res.Token == "" {
			t.Errorf("Login(%s) did not issue a token", identifier)
		}
	}
}

func TestLogin_UnknownIdentifier(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), "nobody", "pw123456")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Login() error = %v, want ErrNotFound", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)
	registerTestUser(t, svc, "alice")

	_, err := svc.Login(context.Background(), "alice", "wrong-password")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("Login() error = %v, want ErrUnauthorized", err)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.Login(context.Background(), "", "pw"); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Login() with empty identifier = %v, want ErrValidation", err)
	}
	if _, err := svc.Login(context.Background(), "alice", ""); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Login() with empty password = %v, want ErrValidation", err)
	}
}

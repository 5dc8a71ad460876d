package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/climate-hub/internal/auth"
	"github.com/sakif/climate-hub/internal/model"
	"github.com/sakif/climate-hub/internal/repository/memory"
)

// failingUserRepo simulates a database that rejects every write.
type failingUserRepo struct{}

func (failingUserRepo) Upsert(context.Context, *model.User) error {
	return errors.New("database is on fire")
}

func (failingUserRepo) GetUserByID(context.Context, string) (*model.User, error) {
	return nil, errors.New("database is on fire")
}

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return NewAuthService(memory.New(), ts, testLogger())
}

func TestLoginOrRegisterGitHub_NewMember(t *testing.T) {
	svc := newTestAuthService(t)

	result, err := svc.LoginOrRegisterGitHub(context.Background(), &auth.GitHubUser{
		ID: 42, Login: "octocat", AvatarURL: "https://avatars.githubusercontent.com/u/42",
	})
	if err != nil {
		t.Fatalf("LoginOrRegisterGitHub() error = %v", err)
	}
	if result.User.ID == "" {
		t.Error("User.ID should be set after upsert")
	}
	if result.Token == "" {
		t.Error("Token should be issued")
	}

	userID, err := svc.tokens.Validate(result.Token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if userID != result.User.ID {
		t.Errorf("token subject = %q, want %q", userID, result.User.ID)
	}
}

func TestLoginOrRegisterGitHub_ReturningMemberKeepsID(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	first, err := svc.LoginOrRegisterGitHub(ctx, &auth.GitHubUser{ID: 99, Login: "old-login"})
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, err := svc.LoginOrRegisterGitHub(ctx, &auth.GitHubUser{ID: 99, Login: "new-login"})
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	if second.User.ID != first.User.ID {
		t.Errorf("ID changed: %q -> %q", first.User.ID, second.User.ID)
	}
	if second.User.Login != "new-login" {
		t.Errorf("Login = %q, want new-login", second.User.Login)
	}
}

func TestLoginOrRegisterGitHub_Errors(t *testing.T) {
	svc := newTestAuthService(t)
	if _, err := svc.LoginOrRegisterGitHub(context.Background(), nil); err == nil {
		t.Error("nil GitHub user should fail")
	}

	ts, _ := auth.NewTokenService("test-secret-at-least-16-chars!!")
	broken := NewAuthService(failingUserRepo{}, ts, testLogger())
	if _, err := broken.LoginOrRegisterGitHub(context.Background(), &auth.GitHubUser{ID: 1, Login: "x"}); err == nil {
		t.Error("repository errors should propagate")
	}
}

func TestGetUserByID(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	result, _ := svc.LoginOrRegisterGitHub(ctx, &auth.GitHubUser{ID: 7, Login: "findme"})

	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "known", id: result.User.ID},
		{name: "empty", id: "", wantErr: true},
		{name: "unknown", id: "no-such-member", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := svc.GetUserByID(ctx, tt.id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetUserByID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && u.Login != "findme" {
				t.Errorf("Login = %q, want findme", u.Login)
			}
		})
	}
}

func TestCurrentUser(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	result, _ := svc.LoginOrRegisterGitHub(ctx, &auth.GitHubUser{ID: 3, Login: "treehugger"})

	if u := svc.CurrentUser(ctx); u != nil {
		t.Errorf("anonymous context resolved to %+v", u)
	}
	if u := svc.CurrentUser(auth.WithUserID(ctx, "deleted-member")); u != nil {
		t.Errorf("unknown member resolved to %+v", u)
	}
	u := svc.CurrentUser(auth.WithUserID(ctx, result.User.ID))
	if u == nil || u.Login != "treehugger" {
		t.Errorf("CurrentUser() = %+v, want treehugger", u)
	}

	var disabled *AuthService
	if disabled.CurrentUser(ctx) != nil {
		t.Error("nil AuthService should treat everyone as anonymous")
	}
}

func TestCurrentUser_StoreFailure(t *testing.T) {
	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	svc := NewAuthService(failingUserRepo{}, ts, testLogger())

	if u := svc.CurrentUser(auth.WithUserID(context.Background(), "someone")); u != nil {
		t.Errorf("CurrentUser() = %+v, want nil when the store fails", u)
	}
}

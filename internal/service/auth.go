package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/climate-hub/internal/apperror"
	"github.com/sakif/climate-hub/internal/auth"
	"github.com/sakif/climate-hub/internal/model"
	"github.com/sakif/climate-hub/internal/repository"
)

// AuthService signs members in with GitHub and resolves session tokens back
// to users.
//
//	AuthHandler (HTTP) → AuthService → UserRepository
//	                                 ↘ TokenService (JWT)
//
// The forum never requires a session. It only uses the member's login as
// the author name when one is present.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
	logger *slog.Logger
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// AuthResult bundles the member record and the issued JWT so the handler can
// set the cookie and redirect in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// LoginOrRegisterGitHub handles the end of the OAuth flow: upsert the member
// keyed on their GitHub id, then issue a token for our own id.
//
// It sets no cookies and reads no requests; both are the handler's job.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	user := &model.User{
		GitHubID:  ghUser.ID,
		Login:     ghUser.Login,
		Email:     ghUser.Email,
		AvatarURL: ghUser.AvatarURL,
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting user (githubID=%d): %w", ghUser.ID, err)
	}

	s.logger.Info("member signed in via GitHub",
		slog.String("userID", user.ID),
		slog.String("login", user.Login),
	)

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}
	return user, nil
}

// CurrentUser resolves the signed-in member from the request context, or
// returns nil for anonymous visitors. A token naming a member who no longer
// exists is treated as anonymous.
func (s *AuthService) CurrentUser(ctx context.Context) *model.User {
	if s == nil {
		return nil
	}
	id, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil
	}
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Debug("session names unknown member", slog.String("userID", id))
		} else {
			s.logger.Error("resolving signed-in member", slog.String("error", err.Error()))
		}
		return nil
	}
	return user
}

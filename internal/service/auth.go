package service

import (
	"context"

	"github.com/deppfellow/user-api/internal/config"
	"github.com/deppfellow/user-api/internal/errs"
	"github.com/deppfellow/user-api/internal/lib/session"
	"github.com/deppfellow/user-api/internal/lib/token"
	"github.com/deppfellow/user-api/internal/model"
	"github.com/deppfellow/user-api/internal/model/user"
	"github.com/deppfellow/user-api/internal/repository"
	"github.com/pkg/errors"
)

// AuthService issues and revokes bearer tokens.
type AuthService struct {
	repo     *repository.UserRepository
	sessions session.Store
	cfg      config.AuthConfig
}

func NewAuthService(repo *repository.UserRepository, sessions session.Store, cfg config.AuthConfig) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = config.DefaultTokenTTL
	}
	return &AuthService{
		repo:     repo,
		sessions: sessions,
		cfg:      cfg,
	}
}

// Login checks the credentials and starts a session. Unknown emails and
// wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, req *user.LoginRequest) (*user.LoginResponse, error) {
	stored, err := s.repo.GetUserLogin(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if !CheckPassword(stored.Password, req.Password) {
		return nil, errs.NewInvalidCredentialsError()
	}

	tok, err := token.Generate(s.cfg.SecretKey, stored.User, s.cfg.TokenTTL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign token")
	}

	if s.sessions != nil {
		if err := s.sessions.Set(ctx, stored.ID, tok, s.cfg.TokenTTL); err != nil {
			return nil, errors.Wrap(err, "failed to store session")
		}
	}

	return &user.LoginResponse{Token: tok, User: stored.User}, nil
}

// Logout ends the principal's session.
func (s *AuthService) Logout(ctx context.Context, principal user.User) (*model.MessageResponse, error) {
	if s.sessions != nil {
		if err := s.sessions.Delete(ctx, principal.ID); err != nil {
			return nil, errors.Wrap(err, "failed to delete session")
		}
	}

	return &model.MessageResponse{Message: "Logged out successfully"}, nil
}

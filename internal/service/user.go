package service

import (
	"context"

	"github.com/deppfellow/user-api/internal/errs"
	"github.com/deppfellow/user-api/internal/lib/job"
	"github.com/deppfellow/user-api/internal/lib/session"
	"github.com/deppfellow/user-api/internal/model"
	"github.com/deppfellow/user-api/internal/model/user"
	"github.com/deppfellow/user-api/internal/repository"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Enqueuer is the part of *asynq.Client used to schedule background tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// UserService implements the user account operations.
type UserService struct {
	repo     *repository.UserRepository
	sessions session.Store
	jobs     Enqueuer
	logger   *zerolog.Logger
}

// NewUserService builds a UserService. sessions and jobs may be nil, which
// disables session revocation and welcome emails respectively.
func NewUserService(repo *repository.UserRepository, sessions session.Store, jobs Enqueuer, logger *zerolog.Logger) *UserService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &UserService{
		repo:     repo,
		sessions: sessions,
		jobs:     jobs,
		logger:   logger,
	}
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]user.User, error) {
	return s.repo.GetAllUsers(ctx)
}

// Get returns the user with the given id.
func (s *UserService) Get(ctx context.Context, id int) (*user.User, error) {
	return s.repo.GetUser(ctx, id)
}

// Create registers a new account. principal is the authenticated caller, or
// nil for anonymous sign-up; only an admin principal may create admins.
func (s *UserService) Create(ctx context.Context, principal *user.User, req *user.CreateUserRequest) (*model.MessageResponse, error) {
	role := req.Role
	if role == "" {
		role = user.DefaultRole
	}
	if role == user.RoleAdmin && (principal == nil || !principal.IsAdmin()) {
		return nil, errs.NewForbiddenError("Only admins can create admin users", true)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.AddUser(ctx, user.NewUser{
		UserName: req.UserName,
		Email:    req.Email,
		Password: hash,
		Role:     role,
	})
	if err != nil {
		return nil, err
	}

	s.enqueueWelcome(ctx, req.Email, req.UserName)

	return &model.MessageResponse{Message: "User added successfully", UserID: id}, nil
}

// enqueueWelcome schedules the welcome email. Failures are logged only.
func (s *UserService) enqueueWelcome(ctx context.Context, email, userName string) {
	if s.jobs == nil {
		return
	}

	task, err := job.NewWelcomeEmailTask(email, userName)
	if err != nil {
		s.log(ctx).Error().Err(err).Msg("failed to build welcome email task")
		return
	}

	if _, err := s.jobs.EnqueueContext(ctx, task); err != nil {
		s.log(ctx).Error().Err(err).Str("email", email).Msg("failed to enqueue welcome email")
	}
}

// UpdateByAdmin applies fields to the user with the given id and revokes
// their session. principal must be an admin.
func (s *UserService) UpdateByAdmin(ctx context.Context, principal user.User, id int, fields user.Fields) (*model.MessageResponse, error) {
	if !principal.IsAdmin() {
		return nil, errs.NewForbiddenError("Admin role required", true)
	}

	if err := s.update(ctx, id, fields, user.MutableColumns); err != nil {
		return nil, err
	}

	return &model.MessageResponse{Message: "User updated successfully"}, nil
}

// UpdateCurrent applies fields to the principal's own account and revokes
// the principal's session. The role column cannot be changed this way.
func (s *UserService) UpdateCurrent(ctx context.Context, principal user.User, fields user.Fields) (*model.MessageResponse, error) {
	if principal.ID <= 0 {
		return nil, errs.NewBadRequestError("User ID is required", true, nil, nil, nil)
	}

	if err := s.update(ctx, principal.ID, fields, user.SelfMutableColumns); err != nil {
		return nil, err
	}

	return &model.MessageResponse{Message: "User updated successfully"}, nil
}

func (s *UserService) update(ctx context.Context, id int, fields user.Fields, allowed []user.Column) error {
	if len(fields) == 0 {
		return errs.NewBadRequestError("No fields to update", true, nil, nil, nil)
	}
	if err := fields.Restrict(allowed); err != nil {
		return errs.NewBadRequestError(err.Error(), true, nil, nil, nil)
	}

	if password, ok := fields[user.ColumnPassword].(string); ok {
		hash, err := HashPassword(password)
		if err != nil {
			return err
		}
		fields[user.ColumnPassword] = hash
	}

	if err := s.repo.UpdateUser(ctx, fields, id); err != nil {
		return err
	}

	// Tokens carry name, email and role, so any change makes them stale.
	s.revokeSession(ctx, id, "failed to revoke session of updated user")
	return nil
}

// DeleteByAdmin removes the user with the given id and revokes their
// session. principal must be an admin.
func (s *UserService) DeleteByAdmin(ctx context.Context, principal user.User, id int) (*model.MessageResponse, error) {
	if !principal.IsAdmin() {
		return nil, errs.NewForbiddenError("Admin role required", true)
	}

	if err := s.delete(ctx, id); err != nil {
		return nil, err
	}

	return &model.MessageResponse{Message: "User deleted successfully"}, nil
}

// DeleteCurrent removes the principal's own account.
func (s *UserService) DeleteCurrent(ctx context.Context, principal user.User) (*model.MessageResponse, error) {
	if principal.ID <= 0 {
		return nil, errs.NewBadRequestError("User ID is required", true, nil, nil, nil)
	}

	if err := s.delete(ctx, principal.ID); err != nil {
		return nil, err
	}

	return &model.MessageResponse{Message: "User deleted successfully"}, nil
}

// log returns the request logger carried by ctx, falling back to the
// service logger.
func (s *UserService) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return s.logger
}

func (s *UserService) delete(ctx context.Context, id int) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}

	s.revokeSession(ctx, id, "failed to revoke session of deleted user")
	return nil
}

// revokeSession ends id's session. Failures are logged with msg and not
// returned; the write they follow has already happened.
func (s *UserService) revokeSession(ctx context.Context, id int, msg string) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		s.log(ctx).Error().Err(err).Int("user_id", id).Msg(msg)
	}
}

// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data
package service

import (
	"github.com/deppfellow/user-api/internal/lib/job"
	"github.com/deppfellow/user-api/internal/repository"
	"github.com/deppfellow/user-api/internal/server"
)

type Services struct {
	Auth *AuthService
	User *UserService
	Job  *job.JobService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var jobs Enqueuer
	if s.Job != nil {
		jobs = s.Job.Client
	}

	return &Services{
		Job:  s.Job,
		Auth: NewAuthService(repos.User, s.Sessions, s.Config.Auth),
		User: NewUserService(repos.User, s.Sessions, jobs, s.Logger),
	}, nil
}

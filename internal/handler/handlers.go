// Package handler is the HTTP layer: the first entry point after the
// router.
//
// Handlers receive payloads already bound and validated by Handle, call
// the service layer and return the response body. Errors are returned to
// the global error handler, never written here.
package handler

import (
	"github.com/deppfellow/user-api/internal/server"
	"github.com/deppfellow/user-api/internal/service"
)

// Handlers groups all HTTP handlers.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	User    *UserHandler
	Auth    *AuthHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		User:    NewUserHandler(s, services.User),
		Auth:    NewAuthHandler(s, services.Auth),
	}
}

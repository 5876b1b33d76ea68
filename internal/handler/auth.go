package handler

import (
	"github.com/deppfellow/user-api/internal/middleware"
	"github.com/deppfellow/user-api/internal/model"
	"github.com/deppfellow/user-api/internal/model/user"
	"github.com/deppfellow/user-api/internal/server"
	"github.com/deppfellow/user-api/internal/service"
	"github.com/labstack/echo/v4"
)

// AuthHandler serves /auth/login and /auth/logout.
type AuthHandler struct {
	Handler
	authService *service.AuthService
}

func NewAuthHandler(s *server.Server, authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		Handler:     NewHandler(s),
		authService: authService,
	}
}

func (h *AuthHandler) Login(c echo.Context, req *user.LoginRequest) (*user.LoginResponse, error) {
	return h.authService.Login(c.Request().Context(), req)
}

func (h *AuthHandler) Logout(c echo.Context, _ *user.CurrentUserRequest) (*model.MessageResponse, error) {
	principal, _ := middleware.GetPrincipal(c)
	return h.authService.Logout(c.Request().Context(), principal)
}

package handler

import (
	"github.com/deppfellow/user-api/internal/errs"
	"github.com/deppfellow/user-api/internal/middleware"
	"github.com/deppfellow/user-api/internal/model"
	"github.com/deppfellow/user-api/internal/model/user"
	"github.com/deppfellow/user-api/internal/server"
	"github.com/deppfellow/user-api/internal/service"
	"github.com/labstack/echo/v4"
)

// UserHandler serves the /users routes.
type UserHandler struct {
	Handler
	userService *service.UserService
}

func NewUserHandler(s *server.Server, userService *service.UserService) *UserHandler {
	return &UserHandler{
		Handler:     NewHandler(s),
		userService: userService,
	}
}

func (h *UserHandler) ListUsers(c echo.Context, _ *user.ListUsersRequest) ([]user.User, error) {
	return h.userService.List(c.Request().Context())
}

func (h *UserHandler) GetUser(c echo.Context, req *user.GetUserRequest) (*user.User, error) {
	return h.userService.Get(c.Request().Context(), req.ID)
}

// CreateUser registers an account. The route authenticates optionally so
// that admins can create other admins.
func (h *UserHandler) CreateUser(c echo.Context, req *user.CreateUserRequest) (*model.MessageResponse, error) {
	var principal *user.User
	if p, ok := middleware.GetPrincipal(c); ok {
		principal = &p
	}

	return h.userService.Create(c.Request().Context(), principal, req)
}

func (h *UserHandler) UpdateUser(c echo.Context, req *user.UpdateUserRequest) (*model.MessageResponse, error) {
	principal, _ := middleware.GetPrincipal(c)
	return h.userService.UpdateByAdmin(c.Request().Context(), principal, req.ID, req.Fields())
}

func (h *UserHandler) UpdateCurrentUser(c echo.Context, req *user.UpdateCurrentUserRequest) (*model.MessageResponse, error) {
	principal, _ := middleware.GetPrincipal(c)
	return h.userService.UpdateCurrent(c.Request().Context(), principal, req.Fields())
}

func (h *UserHandler) DeleteUser(c echo.Context, req *user.DeleteUserRequest) (*model.MessageResponse, error) {
	principal, _ := middleware.GetPrincipal(c)
	return h.userService.DeleteByAdmin(c.Request().Context(), principal, req.ID)
}

func (h *UserHandler) DeleteCurrentUser(c echo.Context, _ *user.CurrentUserRequest) (*model.MessageResponse, error) {
	principal, _ := middleware.GetPrincipal(c)
	return h.userService.DeleteCurrent(c.Request().Context(), principal)
}

// CheckToken returns the user the bearer token belongs to.
func (h *UserHandler) CheckToken(c echo.Context, _ *user.CurrentUserRequest) (*user.User, error) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return nil, errs.NewForbiddenError("token not valid", true)
	}
	return &principal, nil
}

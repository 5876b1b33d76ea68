package router

import (
	"net/http"

	"github.com/deppfellow/user-api/internal/handler"
	"github.com/deppfellow/user-api/internal/middleware"
	"github.com/deppfellow/user-api/internal/model/user"
	"github.com/labstack/echo/v4"
)

func registerUserRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	users := r.Group("/users")
	requireAdmin := middleware.RequireRole(user.RoleAdmin)

	users.GET("", handler.Handle(h.User.Handler, h.User.ListUsers, http.StatusOK, &user.ListUsersRequest{}))
	users.POST("", handler.Handle(h.User.Handler, h.User.CreateUser, http.StatusOK, &user.CreateUserRequest{}), m.Auth.OptionalAuth)
	users.PUT("", handler.Handle(h.User.Handler, h.User.UpdateCurrentUser, http.StatusOK, &user.UpdateCurrentUserRequest{}), m.Auth.RequireAuth)
	users.DELETE("", handler.Handle(h.User.Handler, h.User.DeleteCurrentUser, http.StatusOK, &user.CurrentUserRequest{}), m.Auth.RequireAuth)

	// Static segment; registered alongside /:id, echo prefers it.
	users.GET("/token", handler.Handle(h.User.Handler, h.User.CheckToken, http.StatusOK, &user.CurrentUserRequest{}), m.Auth.RequireAuth)

	users.GET("/:id", handler.Handle(h.User.Handler, h.User.GetUser, http.StatusOK, &user.GetUserRequest{}))
	users.PUT("/:id", handler.Handle(h.User.Handler, h.User.UpdateUser, http.StatusOK, &user.UpdateUserRequest{}), m.Auth.RequireAuth, requireAdmin)
	users.DELETE("/:id", handler.Handle(h.User.Handler, h.User.DeleteUser, http.StatusOK, &user.DeleteUserRequest{}), m.Auth.RequireAuth, requireAdmin)
}

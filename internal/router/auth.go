package router

import (
	"net/http"

	"github.com/deppfellow/user-api/internal/handler"
	"github.com/deppfellow/user-api/internal/middleware"
	"github.com/deppfellow/user-api/internal/model/user"
	"github.com/labstack/echo/v4"
)

func registerAuthRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	auth := r.Group("/auth")

	auth.POST("/login",
		handler.Handle(h.Auth.Handler, h.Auth.Login, http.StatusOK, &user.LoginRequest{}),
		m.RateLimit.Limit(middleware.LoginRateLimit, middleware.LoginBurst),
	)
	auth.POST("/logout",
		handler.Handle(h.Auth.Handler, h.Auth.Logout, http.StatusOK, &user.CurrentUserRequest{}),
		m.Auth.RequireAuth,
	)
}

package middleware

import (
	"github.com/deppfellow/user-api/internal/logger"
	"github.com/deppfellow/user-api/internal/model/user"
	"github.com/deppfellow/user-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

const (
	// UserIDKey and UserRoleKey hold the authenticated user's id (int) and
	// role (string) on the echo context.
	UserIDKey   = "user_id"
	UserRoleKey = "user_role"

	// PrincipalKey holds the authenticated user.User.
	PrincipalKey = "principal"

	// LoggerKey holds the request-scoped *zerolog.Logger.
	LoggerKey = "logger"
)

// ContextEnhancer builds the request-scoped logger.
type ContextEnhancer struct {
	server *server.Server
}

// NewContextEnhancer creates a new ContextEnhancer using the app Server container.
func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext returns middleware that attaches a logger carrying the
// request id, method, route, client ip and, when available, the New Relic
// trace ids. The logger is stored on the echo context and, for code that
// only sees a context.Context, on the request context via zerolog.Ctx.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextLogger := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			setLogger(c, &contextLogger)

			return next(c)
		}
	}
}

func setLogger(c echo.Context, l *zerolog.Logger) {
	c.Set(LoggerKey, l)
	c.SetRequest(c.Request().WithContext(l.WithContext(c.Request().Context())))
}

// setPrincipal stores the authenticated user and adds it to the request logger.
func setPrincipal(c echo.Context, principal user.User) {
	c.Set(PrincipalKey, principal)
	c.Set(UserIDKey, principal.ID)
	c.Set(UserRoleKey, string(principal.Role))

	enriched := GetLogger(c).With().
		Int("user_id", principal.ID).
		Str("user_role", string(principal.Role)).
		Logger()
	setLogger(c, &enriched)
}

// GetPrincipal returns the authenticated user, if any.
func GetPrincipal(c echo.Context) (user.User, bool) {
	principal, ok := c.Get(PrincipalKey).(user.User)
	return principal, ok
}

// GetUserID returns the authenticated user's id, or 0.
func GetUserID(c echo.Context) int {
	if userID, ok := c.Get(UserIDKey).(int); ok {
		return userID
	}
	return 0
}

// GetLogger retrieves the request-scoped logger from Echo context.
//
// If EnhanceContext middleware didn't run, it returns a no-op logger.
func GetLogger(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return logger
	}

	logger := zerolog.Nop()
	return &logger
}

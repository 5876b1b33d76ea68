package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/deppfellow/user-api/internal/errs"
	"github.com/deppfellow/user-api/internal/lib/session"
	"github.com/deppfellow/user-api/internal/lib/token"
	"github.com/deppfellow/user-api/internal/model/user"
	"github.com/deppfellow/user-api/internal/server"
	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// AuthMiddleware authenticates requests carrying a bearer token.
type AuthMiddleware struct {
	server *server.Server
}

// NewAuthMiddleware constructs an AuthMiddleware.
func NewAuthMiddleware(s *server.Server) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
	}
}

// RequireAuth rejects requests without a valid bearer token with 401.
//
// A token is valid when its signature and expiry check out and it is the
// token of the user's current session. A genuine token whose session is
// gone gets a 401 telling the client to log in again. On success the
// principal is stored on the echo context and added to the request logger.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		principal, err := auth.authenticate(c)
		if err != nil {
			GetLogger(c).Warn().
				Err(err).
				Str("function", "RequireAuth").
				Dur("duration", time.Since(start)).
				Msg("authentication failed")

			if errors.Is(err, session.ErrNoSession) {
				return errs.NewSessionEndedError()
			}
			return errs.NewUnauthorizedError("Unauthorized", false)
		}

		setPrincipal(c, principal)

		GetLogger(c).Debug().
			Str("function", "RequireAuth").
			Dur("duration", time.Since(start)).
			Msg("user authenticated successfully")

		return next(c)
	}
}

// OptionalAuth sets the principal when a valid token is present and lets
// the request through unauthenticated otherwise.
func (auth *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
			return next(c)
		}

		principal, err := auth.authenticate(c)
		if err != nil {
			GetLogger(c).Debug().Err(err).Msg("ignoring invalid bearer token")
			return next(c)
		}

		setPrincipal(c, principal)
		return next(c)
	}
}

// RequireRole rejects requests whose principal has none of roles with 403.
// It must run after RequireAuth, and before the request body is read, so
// that the role decides the outcome whatever the payload.
func RequireRole(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := GetPrincipal(c)
			if !ok {
				return errs.NewForbiddenError("Forbidden", false)
			}

			for _, role := range roles {
				if principal.Role == role {
					return next(c)
				}
			}

			GetLogger(c).Warn().
				Str("function", "RequireRole").
				Msg("principal lacks required role")

			return errs.NewForbiddenError("You do not have permission to perform this action", true)
		}
	}
}

func (auth *AuthMiddleware) authenticate(c echo.Context) (user.User, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, bearerPrefix) {
		return user.User{}, errors.New("missing bearer token")
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))

	claims, err := token.Parse(auth.server.Config.Auth.SecretKey, raw)
	if err != nil {
		return user.User{}, err
	}

	// Without a session store tokens are trusted until they expire.
	if auth.server.Sessions != nil {
		current, err := auth.server.Sessions.Get(c.Request().Context(), claims.UserID)
		if err != nil {
			return user.User{}, err
		}
		if current != raw {
			return user.User{}, session.ErrNoSession
		}
	}

	return claims.Principal(), nil
}

package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/user-api/internal/errs"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalErrorHandler(t *testing.T) {
	global := NewGlobalMiddlewares(newTestServer(nil))

	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "http error",
			err:     errs.NewDeleteFailedError("No user deleted"),
			status:  http.StatusNotFound,
			code:    errs.CodeDeleteFailed,
			message: "No user deleted",
		},
		{
			name:    "echo route not found",
			err:     echo.ErrNotFound,
			status:  http.StatusNotFound,
			code:    "NOT_FOUND",
			message: "Route not found",
		},
		{
			name:    "echo method not allowed",
			err:     echo.ErrMethodNotAllowed,
			status:  http.StatusMethodNotAllowed,
			code:    "METHOD_NOT_ALLOWED",
			message: "Method Not Allowed",
		},
		{
			name: "wrapped unique violation",
			err: fmt.Errorf("failed to update user 1: %w", &pgconn.PgError{
				Code:           "23505",
				TableName:      "users",
				ConstraintName: "users_email_key",
			}),
			status:  http.StatusBadRequest,
			code:    "USER_ALREADY_EXISTS",
			message: "A User with this Email already exists",
		},
		{
			name:    "unknown error hides details",
			err:     fmt.Errorf("dial tcp 10.0.0.1:5432: connection refused"),
			status:  http.StatusInternalServerError,
			code:    "INTERNAL_SERVER_ERROR",
			message: "Internal Server Error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newContext("")
			global.GlobalErrorHandler(tc.err, c)

			require.Equal(t, tc.status, rec.Code)

			var body errs.HTTPError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Code)
			assert.Equal(t, tc.message, body.Message)
			assert.Equal(t, tc.status, body.Status)
		})
	}
}

func TestRequestID(t *testing.T) {
	c, rec := newContext("")
	require.NoError(t, RequestID()(ok)(c))

	id := GetRequestID(c)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	c, _ = newContext("")
	c.Request().Header.Set(RequestIDHeader, "abc-123")
	require.NoError(t, RequestID()(ok)(c))
	assert.Equal(t, "abc-123", GetRequestID(c))
}

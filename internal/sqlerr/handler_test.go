package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/user-api/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "unique email",
			err:     &pgconn.PgError{Code: "23505", TableName: "users", ConstraintName: "users_email_key"},
			status:  http.StatusBadRequest,
			code:    "USER_ALREADY_EXISTS",
			message: "A User with this Email already exists",
		},
		{
			name:    "not null",
			err:     &pgconn.PgError{Code: "23502", TableName: "users", ColumnName: "user_name"},
			status:  http.StatusBadRequest,
			code:    "USER_REQUIRED",
			message: "The User Name is required",
		},
		{
			name:    "check",
			err:     &pgconn.PgError{Code: "23514", TableName: "users", ColumnName: "role"},
			status:  http.StatusBadRequest,
			code:    "USER_INVALID",
			message: "The Role value does not meet required conditions",
		},
		{
			name:    "other pg error",
			err:     &pgconn.PgError{Code: "53300"},
			status:  http.StatusInternalServerError,
			code:    "INTERNAL_SERVER_ERROR",
			message: "Internal Server Error",
		},
		{
			name:   "pgx no rows",
			err:    fmt.Errorf("get: %w", pgx.ErrNoRows),
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
		},
		{
			name:   "sql no rows",
			err:    sql.ErrNoRows,
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
		},
		{
			name:    "plain error",
			err:     errors.New("boom"),
			status:  http.StatusInternalServerError,
			code:    "INTERNAL_SERVER_ERROR",
			message: "Internal Server Error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			httpErr := asHTTPError(t, HandleError(tc.err))
			assert.Equal(t, tc.status, httpErr.Status)
			assert.Equal(t, tc.code, httpErr.Code)
			if tc.message != "" {
				assert.Equal(t, tc.message, httpErr.Message)
			}
		})
	}
}

func TestHandleError_PassesHTTPErrorThrough(t *testing.T) {
	original := errs.NewUpdateFailedError("No users updated")
	assert.Same(t, original, HandleError(original))
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "email", extractColumnForUniqueViolation("users_email_key"))
	assert.Equal(t, "email", extractColumnForUniqueViolation("unique_users_email"))
	assert.Equal(t, "", extractColumnForUniqueViolation(""))
	assert.Equal(t, "", extractColumnForUniqueViolation("pk"))
}

func TestErrCode(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", ConvertPgError(&pgconn.PgError{Code: "23505"}))
	assert.Equal(t, UniqueViolation, ErrCode(wrapped))
	assert.Equal(t, Other, ErrCode(errors.New("x")))
}

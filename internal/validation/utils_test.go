package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/user-api/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupPayload struct {
	UserName string `json:"user_name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

func (p *signupPayload) Validate() error {
	return Struct(p)
}

type pathPayload struct {
	ID int `param:"id" json:"-" validate:"required,min=1"`
}

func (p *pathPayload) Validate() error {
	return Struct(p)
}

type customPayload struct{}

func (p *customPayload) Validate() error {
	return CustomValidationErrors{{Field: "role", Message: "cannot be changed"}}
}

func bindJSON(t *testing.T, body string, payload Validatable) error {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := echo.New().NewContext(req, httptest.NewRecorder())
	return BindAndValidate(c, payload)
}

func requireHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestBindAndValidate_CombinesAllViolations(t *testing.T) {
	err := bindJSON(t, `{"user_name":"ab","email":"nope","role":"root"}`, &signupPayload{})

	httpErr := requireHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, errs.CodeValidation, httpErr.Code)
	assert.Equal(t,
		"must be at least 3 characters: user_name, must be a valid email address: email, must be one of: user admin: role",
		httpErr.Message)
	assert.Equal(t, []errs.FieldError{
		{Field: "user_name", Error: "must be at least 3 characters"},
		{Field: "email", Error: "must be a valid email address"},
		{Field: "role", Error: "must be one of: user admin"},
	}, httpErr.Errors)
}

func TestBindAndValidate_Required(t *testing.T) {
	err := bindJSON(t, `{}`, &signupPayload{})

	httpErr := requireHTTPError(t, err)
	assert.Equal(t, "is required: user_name, is required: email", httpErr.Message)
}

func TestBindAndValidate_Valid(t *testing.T) {
	payload := &signupPayload{}
	require.NoError(t, bindJSON(t, `{"user_name":"alice","email":"alice@example.com"}`, payload))
	assert.Equal(t, "alice", payload.UserName)
}

func TestBindAndValidate_BindError(t *testing.T) {
	err := bindJSON(t, `{"user_name": 5}`, &signupPayload{})

	httpErr := requireHTTPError(t, err)
	assert.Equal(t, "BAD_REQUEST", httpErr.Code)
	assert.NotEmpty(t, httpErr.Message)
}

func TestBindAndValidate_PathParamName(t *testing.T) {
	err := Struct(&pathPayload{ID: 0})
	require.Error(t, err)

	fieldErrors := extractValidationError(err)
	require.Len(t, fieldErrors, 1)
	assert.Equal(t, "id", fieldErrors[0].Field)
}

func TestBindAndValidate_CustomErrors(t *testing.T) {
	err := bindJSON(t, `{}`, &customPayload{})

	httpErr := requireHTTPError(t, err)
	assert.Equal(t, "cannot be changed: role", httpErr.Message)
}

func TestExtractValidationError_UnknownError(t *testing.T) {
	fieldErrors := extractValidationError(errors.New("odd"))
	assert.Equal(t, []errs.FieldError{{Field: "request", Error: "odd"}}, fieldErrors)
}

package errs

import (
	"errors"
	"net/http"
)

// Machine-readable codes for the error kinds the user API produces.
// Kinds that map 1:1 to a status reuse the status text (e.g. NOT_FOUND).
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUpdateFailed       = "UPDATE_FAILED"
	CodeDeleteFailed       = "DELETE_FAILED"
	CodeStorage            = "STORAGE_ERROR"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
)

// NewUnauthorizedError creates a 401 Unauthorized HTTPError.
//
// Parameters:
//   - message: text to send to client
//   - override: whether the message may be shown to end users as-is
func NewUnauthorizedError(message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusUnauthorized)),
		Message:  message,
		Status:   http.StatusUnauthorized,
		Override: override,
	}
}

// LoginRoute is where clients obtain a new token.
const LoginRoute = "/auth/login"

// NewSessionEndedError creates a 401 for a well-formed token whose session
// was revoked or replaced. The client is told to log in again.
func NewSessionEndedError() *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusUnauthorized)),
		Message:  "Your session has ended, please log in again",
		Status:   http.StatusUnauthorized,
		Override: true,
		Action: &Action{
			Type:    ActionTypeRedirect,
			Message: "Log in again",
			Value:   LoginRoute,
		},
	}
}

// NewForbiddenError creates a 403 Forbidden HTTPError.
func NewForbiddenError(message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusForbidden)),
		Message:  message,
		Status:   http.StatusForbidden,
		Override: override,
	}
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// This supports extra payload:
//   - code: optional custom code string (if nil, defaults to "BAD_REQUEST")
//   - errors: optional slice of field errors (validation errors)
//   - action: optional client instruction (e.g. redirect)
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
		Action:   action,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
//
// Supports optional custom code override similar to NewBadRequestError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is the generic status text, never the underlying driver error.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}

// NewValidationError creates a 400 carrying every field violation of one request.
//
// message is the combined "<message>: <field>" list, fieldErrors the same
// violations in structured form.
func NewValidationError(message string, fieldErrors []FieldError) *HTTPError {
	code := CodeValidation
	return NewBadRequestError(message, true, &code, fieldErrors, nil)
}

// NewUpdateFailedError is returned when an UPDATE affected no rows.
func NewUpdateFailedError(message string) *HTTPError {
	code := CodeUpdateFailed
	return NewBadRequestError(message, true, &code, nil, nil)
}

// NewDeleteFailedError is returned when a DELETE affected no rows.
func NewDeleteFailedError(message string) *HTTPError {
	code := CodeDeleteFailed
	return NewNotFoundError(message, true, &code)
}

// NewStorageError is a 500 for storage failures that are not otherwise classified.
//
// Unlike NewInternalServerError the message names the failed operation
// (e.g. "Error adding user"), which is safe because it carries no driver detail.
func NewStorageError(message string) *HTTPError {
	return &HTTPError{
		Code:     CodeStorage,
		Message:  message,
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}

// NewInvalidCredentialsError is a 401 for failed logins.
//
// The message must not reveal whether the email or the password was wrong.
func NewInvalidCredentialsError() *HTTPError {
	return &HTTPError{
		Code:     CodeInvalidCredentials,
		Message:  "Invalid username/password",
		Status:   http.StatusUnauthorized,
		Override: true,
	}
}

// NewTooManyRequestsError creates a 429 for rate-limited requests.
func NewTooManyRequestsError(message string) *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusTooManyRequests)),
		Message:  message,
		Status:   http.StatusTooManyRequests,
		Override: true,
	}
}

// HasCode reports whether err is an *HTTPError with the given code.
func HasCode(err error, code string) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code == code
	}
	return false
}

package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/user-api/internal/config"
	"github.com/deppfellow/user-api/internal/errs"
	"github.com/deppfellow/user-api/internal/handler"
	"github.com/deppfellow/user-api/internal/lib/session"
	"github.com/deppfellow/user-api/internal/lib/token"
	"github.com/deppfellow/user-api/internal/model"
	"github.com/deppfellow/user-api/internal/model/user"
	"github.com/deppfellow/user-api/internal/repository"
	"github.com/deppfellow/user-api/internal/server"
	"github.com/deppfellow/user-api/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123"

type testApp struct {
	echo     *echo.Echo
	mock     pgxmock.PgxPoolIface
	sessions *session.MemoryStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	logger := zerolog.Nop()
	sessions := session.NewMemoryStore()
	s := &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Server:        config.ServerConfig{CORSAllowedOrigins: []string{"*"}},
			Auth:          config.AuthConfig{SecretKey: testSecret, TokenTTL: time.Hour},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger:   &logger,
		Sessions: sessions,
	}

	repos := &repository.Repositories{User: repository.NewUserRepository(mock, &logger)}
	services, err := service.NewService(s, repos)
	require.NoError(t, err)

	return &testApp{
		echo:     NewRouter(s, handler.NewHandlers(s, services)),
		mock:     mock,
		sessions: sessions,
	}
}

// login issues a token for u and registers it as u's session.
func (a *testApp) login(t *testing.T, u user.User) string {
	t.Helper()

	tok, err := token.Generate(testSecret, u, time.Hour)
	require.NoError(t, err)
	require.NoError(t, a.sessions.Set(context.Background(), u.ID, tok, time.Hour))
	return tok
}

func (a *testApp) do(method, path, body, tok string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if tok != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	}

	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

var (
	adminUser   = user.User{ID: 1, UserName: "root", Email: "root@example.com", Role: user.RoleAdmin}
	regularUser = user.User{ID: 2, UserName: "bob", Email: "bob@example.com", Role: user.RoleUser}
)

func userRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"user_id", "user_name", "email", "role"})
}

func TestListUsers(t *testing.T) {
	app := newTestApp(t)

	app.mock.ExpectQuery("SELECT (.+) FROM users ORDER BY user_id").
		WillReturnRows(userRows().
			AddRow(1, "root", "root@example.com", user.RoleAdmin).
			AddRow(2, "bob", "bob@example.com", user.RoleUser))

	rec := app.do(http.MethodGet, "/users", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	var users []user.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 2)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestListUsers_EmptyTable(t *testing.T) {
	app := newTestApp(t)

	app.mock.ExpectQuery("SELECT (.+) FROM users").WillReturnRows(userRows())

	rec := app.do(http.MethodGet, "/users", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Code)
}

func TestGetUser_InvalidID(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/users/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodGet, "/users/0", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errs.CodeValidation, decodeError(t, rec).Code)

	assert.NoError(t, app.mock.ExpectationsWereMet())
}

func TestCreateThenGet_RoundTrip(t *testing.T) {
	app := newTestApp(t)

	app.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("carol", "carol@example.com", pgxmock.AnyArg(), "user").
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(12))

	rec := app.do(http.MethodPost, "/users", `{"user_name":"carol","email":"carol@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created model.MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, 12, created.UserID)

	app.mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE user_id = $1")).
		WithArgs(created.UserID).
		WillReturnRows(userRows().AddRow(12, "carol", "carol@example.com", user.RoleUser))

	rec = app.do(http.MethodGet, "/users/12", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	var got user.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, user.User{ID: 12, UserName: "carol", Email: "carol@example.com", Role: user.RoleUser}, got)
	assert.NoError(t, app.mock.ExpectationsWereMet())
}

func TestCreateUser_AdminRoleNeedsAdminCaller(t *testing.T) {
	app := newTestApp(t)

	app.mock.ExpectQuery("INSERT INTO users").
		WithArgs("carol", "carol@example.com", pgxmock.AnyArg(), "admin").
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(1))

	rec := app.do(http.MethodPost, "/users", `{"user_name":"carol","email":"carol@example.com","password":"secret1","role":"admin"}`, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	tok := app.login(t, adminUser)
	rec = app.do(http.MethodPost, "/users", `{"user_name":"carol","email":"carol@example.com","password":"secret1","role":"admin"}`, tok)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NoError(t, app.mock.ExpectationsWereMet())
}

func TestUpdateUserByAdmin_NonAdminForbiddenRegardlessOfPayload(t *testing.T) {
	app := newTestApp(t)
	tok := app.login(t, regularUser)

	rec := app.do(http.MethodPut, "/users/3", `{"user_name":"x","email":"nope"}`, tok)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decodeError(t, rec).Code)

	rec = app.do(http.MethodPut, "/users/3", `{"user_name":"valid name"}`, tok)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	assert.NoError(t, app.mock.ExpectationsWereMet())
}

func TestUpdateUserByAdmin_Unauthenticated(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPut, "/users/3", `{"user_name":"valid"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, rec).Code)
}

func TestUpdateUserByAdmin(t *testing.T) {
	app := newTestApp(t)
	tok := app.login(t, adminUser)

	app.mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET user_name = $1, role = $2 WHERE user_id = $3")).
		WithArgs("robert", "admin", 2).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	rec := app.do(http.MethodPut, "/users/2", `{"user_name":"robert","role":"admin"}`, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"message":"User updated successfully"}`, rec.Body.String())
}

func TestUpdateUserByAdmin_DemotedAdminLosesAccess(t *testing.T) {
	app := newTestApp(t)
	eve := user.User{ID: 3, UserName: "eve", Email: "eve@example.com", Role: user.RoleAdmin}
	rootTok := app.login(t, adminUser)
	eveTok := app.login(t, eve)

	app.mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET role = $1 WHERE user_id = $2")).
		WithArgs("user", eve.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	rec := app.do(http.MethodPut, "/users/3", `{"role":"user"}`, rootTok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Eve's old admin token is refused before any admin route runs.
	rec = app.do(http.MethodDelete, "/users/1", "", eveTok)
	require.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
	body := decodeError(t, rec)
	require.NotNil(t, body.Action)
	assert.Equal(t, errs.ActionTypeRedirect, body.Action.Type)
	assert.Equal(t, "/auth/login", body.Action.Value)

	rec = app.do(http.MethodGet, "/users/token", "", eveTok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// The admin who made the change keeps working.
	rec = app.do(http.MethodGet, "/users/token", "", rootTok)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.NoError(t, app.mock.ExpectationsWereMet())
}

func TestUpdateCurrentUser_RequiresFreshLogin(t *testing.T) {
	app := newTestApp(t)
	tok := app.login(t, regularUser)

	app.mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET user_name = $1 WHERE user_id = $2")).
		WithArgs("bobby", regularUser.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	rec := app.do(http.MethodPut, "/users", `{"user_name":"bobby"}`, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The token still names "bob", so it no longer authenticates.
	rec = app.do(http.MethodGet, "/users/token", "", tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateUserByAdmin_MissingUser(t *testing.T) {
	app := newTestApp(t)
	tok := app.login(t, adminUser)

	app.mock.ExpectExec("UPDATE users").
		WithArgs("robert", 404).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	rec := app.do(http.MethodPut, "/users/404", `{"user_name":"robert"}`, tok)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errs.CodeUpdateFailed, decodeError(t, rec).Code)
}

func TestUpdateCurrentUser(t *testing.T) {
	app := newTestApp(t)
	tok := app.login(t, regularUser)

	rec := app.do(http.MethodPut, "/users", `{}`, tok)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No fields to update", decodeError(t, rec).Message)

	rec = app.do(http.MethodPut, "/users", `{"role":"admin"}`, tok)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errs.CodeValidation, decodeError(t, rec).Code)

	app.mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET email = $1 WHERE user_id = $2")).
		WithArgs("bobby@example.com", regularUser.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	rec = app.do(http.MethodPut, "/users", `{"email":"bobby@example.com"}`, tok)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestDeleteUserByAdmin(t *testing.T) {
	app := newTestApp(t)
	tok := app.login(t, adminUser)
	victim := app.login(t, regularUser)

	app.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE user_id = $1")).
		WithArgs(regularUser.ID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	rec := app.do(http.MethodDelete, "/users/2", "", tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The deleted user's token no longer authenticates.
	rec = app.do(http.MethodGet, "/users/token", "", victim)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteUserByAdmin_Missing(t *testing.T) {
	app := newTestApp(t)
	tok := app.login(t, adminUser)

	app.mock.ExpectExec("DELETE FROM users").
		WithArgs(99).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	rec := app.do(http.MethodDelete, "/users/99", "", tok)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errs.CodeDeleteFailed, decodeError(t, rec).Code)
}

func TestDeleteCurrentUser(t *testing.T) {
	app := newTestApp(t)
	tok := app.login(t, regularUser)

	app.mock.ExpectExec("DELETE FROM users").
		WithArgs(regularUser.ID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	rec := app.do(http.MethodDelete, "/users", "", tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	_, err := app.sessions.Get(context.Background(), regularUser.ID)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestCheckToken(t *testing.T) {
	app := newTestApp(t)
	tok := app.login(t, regularUser)

	rec := app.do(http.MethodGet, "/users/token", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)

	var got user.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, regularUser, got)

	rec = app.do(http.MethodGet, "/users/token", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(http.MethodGet, "/users/token", "", "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_RevokesToken(t *testing.T) {
	app := newTestApp(t)
	tok := app.login(t, regularUser)

	rec := app.do(http.MethodPost, "/auth/logout", "", tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(http.MethodGet, "/users/token", "", tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_RateLimited(t *testing.T) {
	app := newTestApp(t)

	var last *httptest.ResponseRecorder
	for i := 0; i < 10; i++ {
		last = app.do(http.MethodPost, "/auth/login", `{}`, "")
	}

	require.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", decodeError(t, last).Code)
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/nope", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decodeError(t, rec).Message)
}

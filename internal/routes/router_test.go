package routes_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"tourism_system/internal/config"
	appdb "tourism_system/internal/db"
	"tourism_system/internal/domain"
	"tourism_system/internal/routes"
	"tourism_system/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "password123"

type testEnv struct {
	t   *testing.T
	r   *gin.Engine
	db  *gorm.DB
	rdb *redis.Client
}

// newTestEnv wires the full router against an in-memory SQLite database and a
// miniredis instance, with the real templates loaded.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // :memory: is per-connection

	require.NoError(t, appdb.Migrate(gdb))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{AppPort: "8080", SecretKey: "test-secret"}
	r := routes.SetupRouter(gdb, rdb, cfg, "../../templates/*")
	return &testEnv{t: t, r: r, db: gdb, rdb: rdb}
}

func (e *testEnv) createUser(username string, role domain.Role) *domain.User {
	e.t.Helper()
	hash, err := utils.HashPassword(testPassword)
	require.NoError(e.t, err)
	user := &domain.User{Username: username, Email: username + "@example.com", Password: hash, Role: role}
	require.NoError(e.t, e.db.Create(user).Error)
	return user
}

// login authenticates through the real login endpoint and returns the session cookie.
func (e *testEnv) login(username string) *http.Cookie {
	e.t.Helper()
	w := e.doForm(http.MethodPost, "/login", url.Values{
		"username": {username},
		"password": {testPassword},
	}, nil)
	require.Equal(e.t, http.StatusFound, w.Code)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "session" && ck.Value != "" {
			return ck
		}
	}
	e.t.Fatalf("no session cookie issued for %s", username)
	return nil
}

func (e *testEnv) doForm(method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	e.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(method, path string, payload any, cookie *http.Cookie) *httptest.ResponseRecorder {
	e.t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(e.t, err)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	w := e.doForm(http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeJSON(t, w)["status"])
}

func TestProtectedRoutesRedirectAnonymous(t *testing.T) {
	e := newTestEnv(t)
	for _, path := range []string{"/customer/dashboard", "/hotel/dashboard", "/manager/dashboard"} {
		w := e.doForm(http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/login", w.Header().Get("Location"), path)
	}
}

func TestBearerClientsGet401(t *testing.T) {
	e := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/customer/api/packages", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", decodeJSON(t, w)["error"])
}

func TestIndexRedirectsAuthenticatedToDashboard(t *testing.T) {
	e := newTestEnv(t)
	e.createUser("alice", domain.RoleCustomer)
	cookie := e.login("alice")

	w := e.doForm(http.MethodGet, "/", nil, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/customer/dashboard", w.Header().Get("Location"))
}

func TestLogoutRevokesSession(t *testing.T) {
	e := newTestEnv(t)
	e.createUser("alice", domain.RoleCustomer)
	cookie := e.login("alice")

	w := e.doForm(http.MethodGet, "/customer/dashboard", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.doForm(http.MethodGet, "/logout", nil, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	// The token still carries a valid signature, but its session record is gone
	w = e.doForm(http.MethodGet, "/customer/dashboard", nil, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestWriteGateRedirectsWrongRole(t *testing.T) {
	e := newTestEnv(t)
	e.createUser("alice", domain.RoleCustomer)
	cookie := e.login("alice")

	w := e.doForm(http.MethodPost, "/hotel/package", url.Values{"title": {"Sneaky"}}, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	var count int64
	e.db.Model(&domain.HotelPackage{}).Count(&count)
	assert.Zero(t, count)
}

func TestDashboardPagesRedirectWrongRole(t *testing.T) {
	e := newTestEnv(t)
	e.createUser("alice", domain.RoleCustomer)
	cookie := e.login("alice")

	w := e.doForm(http.MethodGet, "/manager/dashboard", nil, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/customer/dashboard", w.Header().Get("Location"))

	w = e.doForm(http.MethodGet, "/hotel/dashboard", nil, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/customer/dashboard", w.Header().Get("Location"))
}

package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	httpctx "github.com/dtroode/boogle-server/internal/api/http/context"
	"github.com/dtroode/boogle-server/internal/api/http/handler"
	"github.com/dtroode/boogle-server/internal/api/http/middleware"
	"github.com/dtroode/boogle-server/internal/metrics"
	"github.com/dtroode/boogle-server/internal/mocks"
	"github.com/dtroode/boogle-server/internal/model"
	"github.com/dtroode/boogle-server/internal/password"
	"github.com/dtroode/boogle-server/internal/ratelimit"
	"github.com/dtroode/boogle-server/internal/service"
	"github.com/dtroode/boogle-server/internal/testutil"
	"github.com/dtroode/boogle-server/internal/token"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testApp struct {
	t        *testing.T
	clock    *clock
	users    *testutil.UserStore
	contacts *mocks.ContactStore
	hasher   *password.Bcrypt
	handler  http.Handler
}

func newTestApp(t *testing.T, loginLimit int) *testApp {
	t.Helper()

	log := testutil.MakeNoopLogger()
	clk := &clock{now: time.Now().Truncate(time.Second)}
	users := testutil.NewUserStore()
	contacts := mocks.NewContactStore(t)
	hasher := password.NewBcrypt(bcrypt.MinCost)
	tokens := token.NewJWT([]byte("router-secret"), time.Hour, token.WithClock(clk.Now))
	m := metrics.New(prometheus.NewRegistry())

	authService := service.NewAuth(users, hasher, tokens, mocks.NewStorage(t), log)
	authService.SetClock(clk.Now)
	authenticator := service.NewAuthenticator(users, tokens, log)
	contactService := service.NewContact(contacts, log)

	ctxMgr := httpctx.NewManager()
	responder := handler.NewResponder(log, false)
	validator := handler.NewValidator()
	cookie := handler.CookieConfig{Name: "token"}

	var rateLimit *middleware.RateLimit
	if loginLimit > 0 {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		rateLimit = middleware.NewRateLimit(ratelimit.New(client, loginLimit, time.Minute, "test"), responder, m, false, log)
	}

	r := New(
		Handlers{
			Auth:      handler.NewAuth(authService, ctxMgr, responder, validator, m, cookie, log),
			User:      handler.NewUser(authService, responder, validator, log),
			Contact:   handler.NewContact(contactService, ctxMgr, responder, validator, false, log),
			Dashboard: handler.NewDashboard(ctxMgr, responder),
			Health:    handler.NewHealth(responder, nil),
			Metrics:   m.Handler(),
		},
		Middleware{
			Authenticate: middleware.NewAuthenticate(authenticator, ctxMgr, responder, m, cookie.Name, log),
			Authorize:    middleware.NewAuthorize(ctxMgr, responder, m),
			Logging:      middleware.NewLogging(log, m),
			RateLimit:    rateLimit,
		},
		responder,
		log,
	)

	return &testApp{
		t:        t,
		clock:    clk,
		users:    users,
		contacts: contacts,
		hasher:   hasher,
		handler:  r.Register(),
	}
}

type response struct {
	Code    int
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Cookies []*http.Cookie
}

func (a *testApp) do(method, path, token, body string) response {
	a.t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	resp := response{Code: rec.Code, Cookies: rec.Result().Cookies()}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return resp
}

type session struct {
	Token string `json:"token"`
	User  struct {
		ID   uuid.UUID  `json:"id"`
		Role model.Role `json:"role"`
	} `json:"user"`
}

func (a *testApp) session(resp response) session {
	a.t.Helper()
	var s session
	require.NoError(a.t, json.Unmarshal(resp.Data, &s))
	require.NotEmpty(a.t, s.Token)
	return s
}

func (a *testApp) addAdmin(email, pw string) {
	a.t.Helper()
	hash, err := a.hasher.Hash(pw)
	require.NoError(a.t, err)
	_, err = a.users.Create(context.Background(), model.User{
		ID:           uuid.New(),
		FullName:     "Admin",
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		IsActive:     true,
	})
	require.NoError(a.t, err)
}

func TestRouter_AuthenticationScenario(t *testing.T) {
	app := newTestApp(t, 0)

	resp := app.do(http.MethodPost, "/api/auth/register", "",
		`{"fullName":"Alice","email":"alice@example.com","password":"P@ssw0rd1","confirmPassword":"P@ssw0rd1"}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	alice := app.session(resp)
	assert.Equal(t, model.RoleStudent, alice.User.Role)

	app.clock.Advance(10 * time.Second)
	resp = app.do(http.MethodPost, "/api/auth/login", "", `{"email":"alice@example.com","password":"P@ssw0rd1"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	t1 := app.session(resp).Token

	resp = app.do(http.MethodGet, "/api/auth/me", t1, "")
	require.Equal(t, http.StatusOK, resp.Code)

	app.clock.Advance(1200 * time.Millisecond)
	resp = app.do(http.MethodPatch, "/api/auth/change-password", t1, `{"currentPassword":"P@ssw0rd1","newPassword":"N3wP@ss!"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	t2 := app.session(resp).Token

	resp = app.do(http.MethodGet, "/api/auth/me", t1, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "User recently changed password. Please log in again.", resp.Message)

	resp = app.do(http.MethodGet, "/api/auth/me", t2, "")
	assert.Equal(t, http.StatusOK, resp.Code)

	unknown := app.do(http.MethodPost, "/api/auth/login", "", `{"email":"nobody@example.com","password":"N3wP@ss!"}`)
	wrong := app.do(http.MethodPost, "/api/auth/login", "", `{"email":"alice@example.com","password":"P@ssw0rd1"}`)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, unknown.Code, wrong.Code)
	assert.Equal(t, unknown.Message, wrong.Message)

	resp = app.do(http.MethodGet, "/api/contact", t2, "")
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "You do not have permission to perform this action", resp.Message)

	app.addAdmin("admin@example.com", "Adm1n!pass")
	resp = app.do(http.MethodPost, "/api/auth/login", "", `{"email":"admin@example.com","password":"Adm1n!pass"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	admin := app.session(resp).Token

	app.contacts.On("Stats", mock.Anything).Return(model.ContactStats{}, nil)
	resp = app.do(http.MethodGet, "/api/contact/stats", admin, "")
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = app.do(http.MethodPatch, fmt.Sprintf("/api/users/%s/status", alice.User.ID), t2, `{"isActive":false}`)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = app.do(http.MethodPatch, fmt.Sprintf("/api/users/%s/status", alice.User.ID), admin, `{"isActive":false}`)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = app.do(http.MethodGet, "/api/auth/me", t2, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Your account has been deactivated. Please contact support.", resp.Message)

	resp = app.do(http.MethodPost, "/api/auth/login", "", `{"email":"alice@example.com","password":"N3wP@ss!"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Your account has been deactivated. Please contact support.", resp.Message)

	app.clock.Advance(2 * time.Hour)
	resp = app.do(http.MethodGet, "/api/auth/me", admin, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Your token has expired. Please log in again.", resp.Message)
}

func TestRouter_TokenSources(t *testing.T) {
	app := newTestApp(t, 0)

	resp := app.do(http.MethodPost, "/api/auth/register", "",
		`{"fullName":"Alice","email":"alice@example.com","password":"P@ssw0rd1","confirmPassword":"P@ssw0rd1"}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	require.NotEmpty(t, resp.Cookies)
	cookie := resp.Cookies[0]

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	resp = app.do(http.MethodGet, "/api/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "You are not logged in. Please log in to access this resource.", resp.Message)

	resp = app.do(http.MethodGet, "/api/auth/me", "not.a.token", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Invalid token. Please log in again.", resp.Message)

	resp = app.do(http.MethodPost, "/api/auth/logout", "", "")
	require.Equal(t, http.StatusOK, resp.Code)
	require.NotEmpty(t, resp.Cookies)
	assert.Equal(t, "loggedout", resp.Cookies[0].Value)
}

func TestRouter_ContactSubmitIsPublic(t *testing.T) {
	app := newTestApp(t, 0)

	app.contacts.On("Create", mock.Anything, mock.Anything).Return(func(_ context.Context, c model.Contact) (model.Contact, error) {
		return c, nil
	})

	resp := app.do(http.MethodPost, "/api/contact/submit", "",
		`{"name":"Bob","email":"bob@example.com","subject":"Enrollment","message":"How do I enroll in a course?"}`)
	assert.Equal(t, http.StatusCreated, resp.Code)

	resp = app.do(http.MethodPost, "/api/contact/submit", "garbage",
		`{"name":"Bob","email":"bob@example.com","subject":"Enrollment","message":"How do I enroll in a course?"}`)
	assert.Equal(t, http.StatusCreated, resp.Code)
}

func TestRouter_DashboardRequiresActiveSession(t *testing.T) {
	app := newTestApp(t, 0)
	app.addAdmin("root@example.com", "Adm1n!pass")

	resp := app.do(http.MethodGet, "/api/dashboard/stats", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "You are not logged in. Please log in to access this resource.", resp.Message)

	resp = app.do(http.MethodPost, "/api/auth/register", "",
		`{"fullName":"Dana","email":"dana@example.com","password":"P@ssw0rd1","confirmPassword":"P@ssw0rd1"}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	dana := app.session(resp)

	resp = app.do(http.MethodGet, "/api/dashboard/stats", dana.Token, "")
	require.Equal(t, http.StatusOK, resp.Code)
	var data struct {
		User struct {
			ID uuid.UUID `json:"id"`
		} `json:"user"`
		Stats struct {
			Role model.Role `json:"role"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, dana.User.ID, data.User.ID)
	assert.Equal(t, model.RoleStudent, data.Stats.Role)

	resp = app.do(http.MethodPost, "/api/auth/login", "", `{"email":"root@example.com","password":"Adm1n!pass"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	admin := app.session(resp)

	resp = app.do(http.MethodPatch, "/api/users/"+dana.User.ID.String()+"/status", admin.Token, `{"isActive":false}`)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = app.do(http.MethodGet, "/api/dashboard/stats", dana.Token, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "Your account has been deactivated. Please contact support.", resp.Message)
}

func TestRouter_LoginRateLimit(t *testing.T) {
	app := newTestApp(t, 2)

	body := `{"email":"nobody@example.com","password":"whatever"}`
	for i := 0; i < 2; i++ {
		resp := app.do(http.MethodPost, "/api/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	}

	resp := app.do(http.MethodPost, "/api/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "Too many requests. Please try again later.", resp.Message)
}

func TestRouter_LoginRateLimit_ForwardedHeadersIgnored(t *testing.T) {
	app := newTestApp(t, 2)

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"nobody@example.com","password":"whatever"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		rec := httptest.NewRecorder()
		app.handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{
		http.StatusUnauthorized,
		http.StatusUnauthorized,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
	}, codes)
}

func TestRouter_PublicEndpoints(t *testing.T) {
	app := newTestApp(t, 0)

	resp := app.do(http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = app.do(http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Route /api/nope not found", resp.Message)

	resp = app.do(http.MethodDelete, "/api/auth/me", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)

	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "boogle_http_requests_total")
}

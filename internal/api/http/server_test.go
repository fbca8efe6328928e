package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/ordering-service/internal/api/http/handlers"
	"github.com/spec-kit/ordering-service/internal/auth"
	"github.com/spec-kit/ordering-service/internal/events"
	"github.com/spec-kit/ordering-service/internal/observability"
	"github.com/spec-kit/ordering-service/internal/repository/memory"
	"github.com/spec-kit/ordering-service/internal/service"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testServer struct {
	app     *fiber.App
	clock   *testClock
	tokens  *auth.TokenManager
	metrics *observability.Metrics
	logs    *observer.ObservedLogs
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	clock := &testClock{now: time.Now().UTC().Truncate(time.Second)}
	tokens, err := auth.NewTokenManager("e2e-access-secret", "e2e-refresh-secret", 50*time.Minute, 24*time.Hour, auth.WithClock(clock.Now))
	require.NoError(t, err)

	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	metrics := observability.NewMetrics()
	store := memory.NewStore()

	authService := service.NewAuthService(store.Users(), auth.NewBcryptHasher(bcrypt.MinCost), tokens, logger)
	catalog := service.NewCatalogService(store.Categories(), store.Menus())
	orders := service.NewOrderService(service.OrderDependencies{
		OrderRepo:  store.Orders(),
		MenuRepo:   store.Menus(),
		Dispatcher: events.NewInMemoryDispatcher(logger),
		Logger:     logger,
	})
	authenticator := auth.NewSessionAuthenticator(tokens, store.Users(), logger, auth.WithMetrics(metrics))

	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(logger, metrics)})
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("ordering-service", "test", metrics, nil),
		Users:          handlers.NewUsersHandler(authService, auth.CookieOptions{}),
		Catalog:        handlers.NewCatalogHandler(catalog),
		Orders:         handlers.NewOrdersHandler(orders),
		AuthMiddleware: auth.NewAuthMiddleware(authenticator, auth.CookieOptions{}),
	})

	return &testServer{app: app, clock: clock, tokens: tokens, metrics: metrics, logs: logs}
}

// session holds the raw carrier cookies returned by sign-in.
type session struct {
	access  *nethttp.Cookie
	refresh *nethttp.Cookie
}

func (s *session) apply(req *nethttp.Request) {
	if s == nil {
		return
	}
	if s.access != nil {
		req.AddCookie(&nethttp.Cookie{Name: s.access.Name, Value: s.access.Value})
	}
	if s.refresh != nil {
		req.AddCookie(&nethttp.Cookie{Name: s.refresh.Name, Value: s.refresh.Value})
	}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, sess *session, headers ...string) *nethttp.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	sess.apply(req)
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (ts *testServer) signUp(t *testing.T, nickname, password, role string) {
	t.Helper()
	resp := ts.do(t, nethttp.MethodPost, "/api/sign-up", map[string]string{
		"nickname": nickname, "password": password, "role": role,
	}, nil)
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)
}

func (ts *testServer) signIn(t *testing.T, nickname, password string) *session {
	t.Helper()
	resp := ts.do(t, nethttp.MethodPost, "/api/sign-in", map[string]string{
		"nickname": nickname, "password": password,
	}, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	s := &session{
		access:  findCookie(resp, auth.AccessCarrier),
		refresh: findCookie(resp, auth.RefreshCarrier),
	}
	require.NotNil(t, s.access)
	require.NotNil(t, s.refresh)
	return s
}

func findCookie(resp *nethttp.Response, name string) *nethttp.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// bearerToken extracts the token from an escaped carrier cookie value.
func bearerToken(t *testing.T, c *nethttp.Cookie) string {
	t.Helper()
	raw, err := url.PathUnescape(c.Value)
	require.NoError(t, err)
	token, err := auth.ParseBearer(raw)
	require.NoError(t, err)
	return token
}

func flipSignatureBit(t *testing.T, token string) string {
	t.Helper()
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)
	sig[len(sig)-1] ^= 0x01
	parts[2] = base64.RawURLEncoding.EncodeToString(sig)
	return strings.Join(parts, ".")
}

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Status  int            `json:"status"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, resp *nethttp.Response) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func decodeData(t *testing.T, resp *nethttp.Response, out any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.NoError(t, json.Unmarshal(env.Data, out))
}

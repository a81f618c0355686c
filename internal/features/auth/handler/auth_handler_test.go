package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"shipment-dashboard/internal/core/httpclient"
	"shipment-dashboard/internal/core/session"
	"shipment-dashboard/internal/core/web"
	"shipment-dashboard/internal/features/auth/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthService is a mock implementation of ports.AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, store session.Store, req domain.LoginRequest) (*domain.User, error) {
	args := m.Called(ctx, store, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	u := args.Get(0).(*domain.User)
	store.SetTokens("a1", "r1")
	return u, args.Error(1)
}

func (m *MockAuthService) Register(ctx context.Context, store session.Store, req domain.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, store, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, store session.Store) error {
	args := m.Called(ctx, store)
	store.Clear()
	return args.Error(0)
}

func (m *MockAuthService) Profile(ctx context.Context, store session.Store) (*domain.User, error) {
	args := m.Called(ctx, store)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, store session.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

var ana = &domain.User{ID: "u1", Name: "Ana", Email: "ana@example.com", IsAdmin: true}

func setupApp(t *testing.T, svc *MockAuthService) *fiber.App {
	t.Helper()
	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	app := fiber.New()
	app.Use(session.Middleware(time.Hour, false))
	h := NewAuthHandler(svc, renderer)
	renderer.SetViewer(h.Viewer)

	app.Get("/", h.Home)
	app.Get("/login", h.LoginPage)
	app.Post("/login", h.Login)
	app.Get("/register", h.RegisterPage)
	app.Post("/register", h.Register)
	app.Post("/logout", h.Logout)
	app.Get("/profile", h.Profile)
	app.Post("/session/refresh", h.Refresh)
	app.Get("/private", h.RequireAuth, func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/admin", h.RequireAdmin, func(c *fiber.Ctx) error { return c.SendString("admin") })
	return app
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func cookieValue(resp *http.Response, name string) (string, bool) {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockAuthService)
		app := setupApp(t, svc)
		svc.On("Login", mock.Anything, mock.Anything, domain.LoginRequest{Email: "ana@example.com", Password: "secret"}).Return(ana, nil).Once()

		resp, err := app.Test(formRequest("/login", url.Values{"email": {"ana@example.com"}, "password": {"secret"}}))

		require.NoError(t, err)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
		access, ok := cookieValue(resp, session.AccessTokenCookie)
		assert.True(t, ok)
		assert.Equal(t, "a1", access)
		_, ok = cookieValue(resp, web.NoticeCookie)
		assert.True(t, ok)
		svc.AssertExpectations(t)
	})

	t.Run("BackendMessage", func(t *testing.T) {
		svc := new(MockAuthService)
		app := setupApp(t, svc)
		svc.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(nil, &httpclient.APIError{Status: 401, Message: "Invalid credentials"}).Once()

		resp, err := app.Test(formRequest("/login", url.Values{"email": {"ana@example.com"}, "password": {"bad"}}))

		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		html := readBody(t, resp)
		assert.Contains(t, html, "Oops!")
		assert.Contains(t, html, "Invalid credentials")
		assert.Contains(t, html, `value="ana@example.com"`)
		_, ok := cookieValue(resp, session.AccessTokenCookie)
		assert.False(t, ok)
	})

	t.Run("FallbackMessage", func(t *testing.T) {
		svc := new(MockAuthService)
		app := setupApp(t, svc)
		svc.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: refused")).Once()

		resp, err := app.Test(formRequest("/login", url.Values{"email": {"a@b.c"}}))

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "Login failed")
	})
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockAuthService)
		app := setupApp(t, svc)
		svc.On("Register", mock.Anything, mock.Anything, domain.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret"}).Return(ana, nil).Once()

		resp, err := app.Test(formRequest("/register", url.Values{"name": {"Ana"}, "email": {"ana@example.com"}, "password": {"secret"}}))

		require.NoError(t, err)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	})

	t.Run("Failure", func(t *testing.T) {
		svc := new(MockAuthService)
		app := setupApp(t, svc)
		svc.On("Register", mock.Anything, mock.Anything, mock.Anything).Return(nil, &httpclient.APIError{Status: 409}).Once()

		resp, err := app.Test(formRequest("/register", url.Values{"name": {"Ana"}}))

		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "Registration failed")
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	for name, backendErr := range map[string]error{"Success": nil, "Failure": errors.New("down")} {
		t.Run(name, func(t *testing.T) {
			svc := new(MockAuthService)
			app := setupApp(t, svc)
			svc.On("Logout", mock.Anything, mock.Anything).Return(backendErr).Once()

			req := httptest.NewRequest("POST", "/logout", nil)
			req.AddCookie(&http.Cookie{Name: session.AccessTokenCookie, Value: "a1"})
			resp, err := app.Test(req)

			require.NoError(t, err)
			assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
			var cleared bool
			for _, h := range resp.Header.Values("Set-Cookie") {
				if strings.HasPrefix(h, session.AccessTokenCookie+"=;") {
					cleared = true
				}
			}
			assert.True(t, cleared, "the access token cookie is expired either way")
		})
	}
}

func TestAuthHandler_Profile(t *testing.T) {
	t.Run("Signed in", func(t *testing.T) {
		svc := new(MockAuthService)
		app := setupApp(t, svc)
		svc.On("Profile", mock.Anything, mock.Anything).Return(ana, nil)

		req := httptest.NewRequest("GET", "/profile", nil)
		req.AddCookie(&http.Cookie{Name: session.AccessTokenCookie, Value: "a1"})
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		html := readBody(t, resp)
		assert.Contains(t, html, "ana@example.com")
		assert.Contains(t, html, "Admin Dashboard")
	})

	t.Run("NotAuthenticated", func(t *testing.T) {
		svc := new(MockAuthService)
		app := setupApp(t, svc)
		svc.On("Profile", mock.Anything, mock.Anything).Return(nil, domain.ErrNotAuthenticated)

		resp, err := app.Test(httptest.NewRequest("GET", "/profile", nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
	})

	t.Run("BackendError", func(t *testing.T) {
		svc := new(MockAuthService)
		app := setupApp(t, svc)
		svc.On("Profile", mock.Anything, mock.Anything).Return(nil, &httpclient.APIError{Status: 500, Message: "db down"})

		req := httptest.NewRequest("GET", "/profile", nil)
		req.AddCookie(&http.Cookie{Name: session.AccessTokenCookie, Value: "a1"})
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "db down")
	})
}

func TestAuthHandler_Refresh(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockAuthService)
		app := setupApp(t, svc)
		svc.On("Refresh", mock.Anything, mock.Anything).Return(nil).Once()

		resp, err := app.Test(httptest.NewRequest("POST", "/session/refresh", nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var out RefreshResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.True(t, out.Success)
	})

	t.Run("Failure", func(t *testing.T) {
		svc := new(MockAuthService)
		app := setupApp(t, svc)
		svc.On("Refresh", mock.Anything, mock.Anything).Return(domain.ErrRefreshFailed).Once()

		resp, err := app.Test(httptest.NewRequest("POST", "/session/refresh", nil))

		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		var out RefreshResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.False(t, out.Success)
	})
}

func TestAuthHandler_RequireAuth(t *testing.T) {
	svc := new(MockAuthService)
	app := setupApp(t, svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/private", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	req := httptest.NewRequest("GET", "/private", nil)
	req.AddCookie(&http.Cookie{Name: session.RefreshTokenCookie, Value: "r1"})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthHandler_HomeSignedOut(t *testing.T) {
	svc := new(MockAuthService)
	app := setupApp(t, svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Sign In")
	svc.AssertNotCalled(t, "Profile", mock.Anything, mock.Anything)
}

func TestAuthHandler_RequireAdmin(t *testing.T) {
	withToken := func() *http.Request {
		req := httptest.NewRequest("GET", "/admin", nil)
		req.AddCookie(&http.Cookie{Name: session.AccessTokenCookie, Value: "a1"})
		return req
	}

	t.Run("SignedOut", func(t *testing.T) {
		svc := new(MockAuthService)
		app := setupApp(t, svc)

		resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
	})

	t.Run("Admin", func(t *testing.T) {
		svc := new(MockAuthService)
		app := setupApp(t, svc)
		svc.On("Profile", mock.Anything, mock.Anything).Return(ana, nil)

		resp, err := app.Test(withToken())
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "admin", readBody(t, resp))
	})

	t.Run("NotAdmin", func(t *testing.T) {
		svc := new(MockAuthService)
		app := setupApp(t, svc)
		bruno := &domain.User{ID: "u2", Name: "Bruno", Email: "bruno@example.com"}
		svc.On("Profile", mock.Anything, mock.Anything).Return(bruno, nil)

		resp, err := app.Test(withToken())
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "only available to admins")
	})
}

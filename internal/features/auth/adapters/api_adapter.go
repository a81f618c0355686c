package adapters

import (
	"context"
	"net/http"

	"shipment-dashboard/internal/core/httpclient"
	"shipment-dashboard/internal/core/session"
	"shipment-dashboard/internal/features/auth/domain"
)

// AuthAPIAdapter implements ports.AuthProvider against the backend REST API.
type AuthAPIAdapter struct {
	api *httpclient.API
}

// NewAuthAPIAdapter creates a new AuthAPIAdapter.
func NewAuthAPIAdapter(api *httpclient.API) *AuthAPIAdapter {
	return &AuthAPIAdapter{api: api}
}

// Login calls POST /auth/login.
func (a *AuthAPIAdapter) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	if err := a.api.DoJSON(ctx, httpclient.Request{Method: http.MethodPost, Path: "/auth/login", Body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register calls POST /auth/register.
func (a *AuthAPIAdapter) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	if err := a.api.DoJSON(ctx, httpclient.Request{Method: http.MethodPost, Path: "/auth/register", Body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile calls GET /auth/profile.
func (a *AuthAPIAdapter) Profile(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := a.api.DoJSON(ctx, httpclient.Request{Method: http.MethodGet, Path: "/auth/profile"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout calls POST /auth/logout.
func (a *AuthAPIAdapter) Logout(ctx context.Context) error {
	_, err := a.api.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: "/auth/logout"})
	return err
}

// Refresh calls POST /auth/refresh with an empty JSON body, forwarding the
// refresh token as a cookie.
func (a *AuthAPIAdapter) Refresh(ctx context.Context, refreshToken string) (*domain.RefreshResponse, error) {
	req := httpclient.Request{
		Method: http.MethodPost,
		Path:   "/auth/refresh",
		Body:   struct{}{},
	}
	if refreshToken != "" {
		req.Cookies = []*http.Cookie{{Name: session.RefreshTokenCookie, Value: refreshToken}}
	}

	var out domain.RefreshResponse
	if err := a.api.DoJSON(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

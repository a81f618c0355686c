package domain

import "errors"

var (
	// ErrNotAuthenticated is returned when the session holds no usable token.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrRefreshFailed is returned when the tokens could not be renewed.
	ErrRefreshFailed = errors.New("refresh failed")
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the authenticated account.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

// RefreshResponse is returned by POST /auth/refresh. Anything but
// Success == true is a failed refresh.
type RefreshResponse struct {
	Success      bool   `json:"success"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

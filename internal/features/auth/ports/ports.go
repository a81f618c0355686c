package ports

import (
	"context"

	"shipment-dashboard/internal/core/session"
	"shipment-dashboard/internal/features/auth/domain"
)

// AuthProvider wraps the backend auth endpoints.
// This is a Secondary Port (Driven Port).
type AuthProvider interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error)
	// Profile fetches the user owning the bearer token of ctx.
	Profile(ctx context.Context) (*domain.User, error)
	Logout(ctx context.Context) error
	// Refresh exchanges refreshToken for a new token pair.
	Refresh(ctx context.Context, refreshToken string) (*domain.RefreshResponse, error)
}

// UserCache keeps the current user of each session.
type UserCache interface {
	// Get returns nil, nil when nothing is cached.
	Get(ctx context.Context, key string) (*domain.User, error)
	Set(ctx context.Context, key string, user *domain.User) error
	Delete(ctx context.Context, key string) error
}

// AuthService is the primary port used by the handlers.
type AuthService interface {
	Login(ctx context.Context, store session.Store, req domain.LoginRequest) (*domain.User, error)
	Register(ctx context.Context, store session.Store, req domain.RegisterRequest) (*domain.User, error)
	Logout(ctx context.Context, store session.Store) error
	Profile(ctx context.Context, store session.Store) (*domain.User, error)
	Refresh(ctx context.Context, store session.Store) error
}

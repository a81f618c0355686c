package service

import (
	"context"
	"fmt"
	"net/http"

	"shipment-dashboard/internal/core/httpclient"
	"shipment-dashboard/internal/core/logger"
	"shipment-dashboard/internal/core/metrics"
	"shipment-dashboard/internal/core/session"
	"shipment-dashboard/internal/features/auth/domain"
	"shipment-dashboard/internal/features/auth/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// AuthService orchestrates the auth calls, the session tokens and the user cache.
type AuthService struct {
	provider ports.AuthProvider
	users    ports.UserCache
	metrics  *metrics.Metrics
	// refreshes coalesces concurrent refreshes of one refresh token.
	refreshes singleflight.Group
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(provider ports.AuthProvider, users ports.UserCache, m *metrics.Metrics) *AuthService {
	return &AuthService{
		provider: provider,
		users:    users,
		metrics:  m,
	}
}

// Login signs in and stores the returned tokens and user.
func (s *AuthService) Login(ctx context.Context, store session.Store, req domain.LoginRequest) (*domain.User, error) {
	resp, err := s.provider.Login(session.WithStore(ctx, store), req)
	if err != nil {
		return nil, err
	}
	s.signIn(ctx, store, resp)
	return &resp.User, nil
}

// Register creates the account and signs it in.
func (s *AuthService) Register(ctx context.Context, store session.Store, req domain.RegisterRequest) (*domain.User, error) {
	resp, err := s.provider.Register(session.WithStore(ctx, store), req)
	if err != nil {
		return nil, err
	}
	s.signIn(ctx, store, resp)
	return &resp.User, nil
}

func (s *AuthService) signIn(ctx context.Context, store session.Store, resp *domain.AuthResponse) {
	store.SetTokens(resp.AccessToken, resp.RefreshToken)
	s.cacheUser(ctx, store.AccessToken(), &resp.User)
}

// Logout ends the session. Tokens and the cached user are cleared even when
// the backend call fails; its error is still returned.
func (s *AuthService) Logout(ctx context.Context, store session.Store) error {
	err := s.provider.Logout(session.WithStore(ctx, store))
	s.forgetUser(ctx, store.AccessToken())
	store.Clear()
	return err
}

// Profile returns the signed-in user, from the cache when possible. A 401
// from the backend triggers one refresh and one retry.
func (s *AuthService) Profile(ctx context.Context, store session.Store) (*domain.User, error) {
	if store.AccessToken() == "" && store.RefreshToken() == "" {
		return nil, domain.ErrNotAuthenticated
	}
	ctx = session.WithStore(ctx, store)

	if token := store.AccessToken(); token != "" {
		if user := s.cachedUser(ctx, token); user != nil {
			return user, nil
		}
	}

	var (
		user *domain.User
		err  error
	)
	if store.AccessToken() != "" {
		user, err = s.provider.Profile(ctx)
		if err == nil {
			s.cacheUser(ctx, store.AccessToken(), user)
			return user, nil
		}
		if !httpclient.IsStatus(err, http.StatusUnauthorized) {
			return nil, err
		}
	}

	if err := s.Refresh(ctx, store); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNotAuthenticated, err)
	}

	user, err = s.provider.Profile(ctx)
	if err != nil {
		if httpclient.IsStatus(err, http.StatusUnauthorized) {
			return nil, fmt.Errorf("%w: %w", domain.ErrNotAuthenticated, err)
		}
		return nil, err
	}
	s.cacheUser(ctx, store.AccessToken(), user)
	return user, nil
}

// Refresh renews both tokens. On failure the cached user is dropped and an
// error wrapping domain.ErrRefreshFailed is returned; the tokens are left
// as they were.
func (s *AuthService) Refresh(ctx context.Context, store session.Store) error {
	refreshToken := store.RefreshToken()
	oldAccess := store.AccessToken()
	if refreshToken == "" {
		s.metrics.Refresh(metrics.OutcomeFailure)
		s.forgetUser(ctx, oldAccess)
		return domain.ErrRefreshFailed
	}

	ctx = session.WithStore(ctx, store)
	v, err, shared := s.refreshes.Do(refreshToken, func() (interface{}, error) {
		return s.provider.Refresh(ctx, refreshToken)
	})
	if shared {
		logger.Get().Debug("Coalesced token refresh")
	}

	var resp *domain.RefreshResponse
	if err == nil {
		resp, _ = v.(*domain.RefreshResponse)
	}
	if err != nil || resp == nil || !resp.Success {
		s.metrics.Refresh(metrics.OutcomeFailure)
		s.forgetUser(ctx, oldAccess)
		logger.Get().Warn("Token refresh failed", zap.Error(err))
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrRefreshFailed, err)
		}
		return domain.ErrRefreshFailed
	}

	store.SetTokens(resp.AccessToken, resp.RefreshToken)
	s.metrics.Refresh(metrics.OutcomeSuccess)

	// the cached user follows the new access token
	if newAccess := store.AccessToken(); newAccess != oldAccess && oldAccess != "" {
		if user := s.cachedUser(ctx, oldAccess); user != nil {
			s.cacheUser(ctx, newAccess, user)
		}
		s.forgetUser(ctx, oldAccess)
	}
	return nil
}

func (s *AuthService) cachedUser(ctx context.Context, token string) *domain.User {
	key := session.CacheKey(token)
	if s.users == nil || key == "" {
		return nil
	}
	user, err := s.users.Get(ctx, key)
	if err != nil {
		logger.Get().Warn("Failed to read cached user", zap.Error(err))
		return nil
	}
	return user
}

func (s *AuthService) cacheUser(ctx context.Context, token string, user *domain.User) {
	key := session.CacheKey(token)
	if s.users == nil || key == "" || user == nil {
		return
	}
	if err := s.users.Set(ctx, key, user); err != nil {
		logger.Get().Warn("Failed to cache user", zap.Error(err))
	}
}

func (s *AuthService) forgetUser(ctx context.Context, token string) {
	key := session.CacheKey(token)
	if s.users == nil || key == "" {
		return
	}
	if err := s.users.Delete(ctx, key); err != nil {
		logger.Get().Warn("Failed to clear cached user", zap.Error(err))
	}
}

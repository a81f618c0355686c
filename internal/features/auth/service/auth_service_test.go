package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"shipment-dashboard/internal/core/cache"
	"shipment-dashboard/internal/core/httpclient"
	"shipment-dashboard/internal/core/metrics"
	"shipment-dashboard/internal/core/session"
	"shipment-dashboard/internal/features/auth/adapters"
	"shipment-dashboard/internal/features/auth/domain"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthProvider is a mock implementation of ports.AuthProvider
type MockAuthProvider struct {
	mock.Mock
}

func (m *MockAuthProvider) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResponse), args.Error(1)
}

func (m *MockAuthProvider) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResponse), args.Error(1)
}

func (m *MockAuthProvider) Profile(ctx context.Context) (*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthProvider) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAuthProvider) Refresh(ctx context.Context, refreshToken string) (*domain.RefreshResponse, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshResponse), args.Error(1)
}

var ana = domain.User{ID: "u1", Name: "Ana", Email: "ana@example.com"}

func newService(p *MockAuthProvider) (*AuthService, *adapters.CacheUserStore, *metrics.Metrics) {
	users := adapters.NewCacheUserStore(cache.NewMemoryAdapter(), time.Hour)
	m := metrics.New()
	return NewAuthService(p, users, m), users, m
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		p := new(MockAuthProvider)
		svc, users, _ := newService(p)
		store := session.NewMemoryStore("", "")
		req := domain.LoginRequest{Email: "ana@example.com", Password: "secret"}
		p.On("Login", mock.Anything, req).Return(&domain.AuthResponse{AccessToken: "a1", RefreshToken: "r1", User: ana}, nil).Once()

		user, err := svc.Login(ctx, store, req)

		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", user.Email)
		assert.Equal(t, "a1", store.AccessToken())
		assert.Equal(t, "r1", store.RefreshToken())
		cached, err := users.Get(ctx, session.CacheKey("a1"))
		require.NoError(t, err)
		assert.Equal(t, &ana, cached)
		p.AssertExpectations(t)
	})

	t.Run("EmptyTokensIgnored", func(t *testing.T) {
		p := new(MockAuthProvider)
		svc, _, _ := newService(p)
		store := session.NewMemoryStore("old-a", "old-r")
		p.On("Login", mock.Anything, mock.Anything).Return(&domain.AuthResponse{AccessToken: "a2", User: ana}, nil).Once()

		_, err := svc.Login(ctx, store, domain.LoginRequest{})

		require.NoError(t, err)
		assert.Equal(t, "a2", store.AccessToken())
		assert.Equal(t, "old-r", store.RefreshToken())
	})

	t.Run("Failure", func(t *testing.T) {
		p := new(MockAuthProvider)
		svc, _, _ := newService(p)
		store := session.NewMemoryStore("", "")
		p.On("Login", mock.Anything, mock.Anything).Return(nil, &httpclient.APIError{Status: 401, Message: "Invalid credentials"}).Once()

		user, err := svc.Login(ctx, store, domain.LoginRequest{})

		assert.Nil(t, user)
		assert.Equal(t, "Invalid credentials", httpclient.Message(err, "Login failed"))
		assert.Empty(t, store.AccessToken())
	})
}

func TestAuthService_Register(t *testing.T) {
	p := new(MockAuthProvider)
	svc, _, _ := newService(p)
	store := session.NewMemoryStore("", "")
	req := domain.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret"}
	p.On("Register", mock.Anything, req).Return(&domain.AuthResponse{AccessToken: "a1", RefreshToken: "r1", User: ana}, nil).Once()

	user, err := svc.Register(context.Background(), store, req)

	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, "a1", store.AccessToken())
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()

	for name, backendErr := range map[string]error{"Success": nil, "BackendFails": errors.New("down")} {
		t.Run(name, func(t *testing.T) {
			p := new(MockAuthProvider)
			svc, users, _ := newService(p)
			store := session.NewMemoryStore("a1", "r1")
			require.NoError(t, users.Set(ctx, session.CacheKey("a1"), &ana))
			p.On("Logout", mock.Anything).Return(backendErr).Once()

			err := svc.Logout(ctx, store)

			assert.Equal(t, backendErr, err)
			assert.Empty(t, store.AccessToken())
			assert.Empty(t, store.RefreshToken())
			cached, _ := users.Get(ctx, session.CacheKey("a1"))
			assert.Nil(t, cached)
		})
	}
}

func TestAuthService_Profile(t *testing.T) {
	ctx := context.Background()

	t.Run("NoTokens", func(t *testing.T) {
		p := new(MockAuthProvider)
		svc, _, _ := newService(p)

		_, err := svc.Profile(ctx, session.NewMemoryStore("", ""))

		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
		p.AssertNotCalled(t, "Profile", mock.Anything)
	})

	t.Run("Cached", func(t *testing.T) {
		p := new(MockAuthProvider)
		svc, users, _ := newService(p)
		require.NoError(t, users.Set(ctx, session.CacheKey("a1"), &ana))

		user, err := svc.Profile(ctx, session.NewMemoryStore("a1", "r1"))

		require.NoError(t, err)
		assert.Equal(t, &ana, user)
		p.AssertNotCalled(t, "Profile", mock.Anything)
	})

	t.Run("FetchedAndCached", func(t *testing.T) {
		p := new(MockAuthProvider)
		svc, users, _ := newService(p)
		p.On("Profile", mock.Anything).Return(&ana, nil).Once()

		user, err := svc.Profile(ctx, session.NewMemoryStore("a1", "r1"))

		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		cached, _ := users.Get(ctx, session.CacheKey("a1"))
		assert.Equal(t, &ana, cached)
	})

	t.Run("RetriesAfterRefresh", func(t *testing.T) {
		p := new(MockAuthProvider)
		svc, _, m := newService(p)
		store := session.NewMemoryStore("expired", "r1")

		var tokens []string
		p.On("Profile", mock.Anything).Run(func(args mock.Arguments) {
			tokens = append(tokens, session.AccessTokenFrom(args.Get(0).(context.Context)))
		}).Return(nil, &httpclient.APIError{Status: 401}).Once()
		p.On("Refresh", mock.Anything, "r1").Return(&domain.RefreshResponse{Success: true, AccessToken: "a2", RefreshToken: "r2"}, nil).Once()
		p.On("Profile", mock.Anything).Run(func(args mock.Arguments) {
			tokens = append(tokens, session.AccessTokenFrom(args.Get(0).(context.Context)))
		}).Return(&ana, nil).Once()

		user, err := svc.Profile(ctx, store)

		require.NoError(t, err)
		assert.Equal(t, &ana, user)
		assert.Equal(t, []string{"expired", "a2"}, tokens)
		assert.Equal(t, "r2", store.RefreshToken())
		assert.Equal(t, 1.0, testutil.ToFloat64(m.TokenRefreshes.WithLabelValues(metrics.OutcomeSuccess)))
		p.AssertExpectations(t)
	})

	t.Run("RefreshFails", func(t *testing.T) {
		p := new(MockAuthProvider)
		svc, _, m := newService(p)
		store := session.NewMemoryStore("expired", "r1")
		p.On("Profile", mock.Anything).Return(nil, &httpclient.APIError{Status: 401}).Once()
		p.On("Refresh", mock.Anything, "r1").Return(&domain.RefreshResponse{Success: false}, nil).Once()

		_, err := svc.Profile(ctx, store)

		assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
		assert.ErrorIs(t, err, domain.ErrRefreshFailed)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.TokenRefreshes.WithLabelValues(metrics.OutcomeFailure)))
		p.AssertNumberOfCalls(t, "Profile", 1)
	})

	t.Run("OtherErrorNoRefresh", func(t *testing.T) {
		p := new(MockAuthProvider)
		svc, _, _ := newService(p)
		p.On("Profile", mock.Anything).Return(nil, &httpclient.APIError{Status: 500}).Once()

		_, err := svc.Profile(ctx, session.NewMemoryStore("a1", "r1"))

		assert.True(t, httpclient.IsStatus(err, 500))
		p.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
	})

	t.Run("OnlyRefreshToken", func(t *testing.T) {
		p := new(MockAuthProvider)
		svc, _, _ := newService(p)
		store := session.NewMemoryStore("", "r1")
		p.On("Refresh", mock.Anything, "r1").Return(&domain.RefreshResponse{Success: true, AccessToken: "a2"}, nil).Once()
		p.On("Profile", mock.Anything).Return(&ana, nil).Once()

		user, err := svc.Profile(ctx, store)

		require.NoError(t, err)
		assert.Equal(t, &ana, user)
		assert.Equal(t, "a2", store.AccessToken())
		assert.Equal(t, "r1", store.RefreshToken())
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("FailureClearsCachedUser", func(t *testing.T) {
		p := new(MockAuthProvider)
		svc, users, _ := newService(p)
		require.NoError(t, users.Set(ctx, session.CacheKey("a1"), &ana))
		backendErr := &httpclient.APIError{Status: 401, Message: "Refresh token expired"}
		p.On("Refresh", mock.Anything, "r1").Return(nil, backendErr).Once()

		err := svc.Refresh(ctx, session.NewMemoryStore("a1", "r1"))

		assert.ErrorIs(t, err, domain.ErrRefreshFailed)
		var apiErr *httpclient.APIError
		assert.ErrorAs(t, err, &apiErr)
		cached, _ := users.Get(ctx, session.CacheKey("a1"))
		assert.Nil(t, cached)
	})

	t.Run("NoRefreshToken", func(t *testing.T) {
		p := new(MockAuthProvider)
		svc, _, _ := newService(p)

		err := svc.Refresh(ctx, session.NewMemoryStore("a1", ""))

		assert.ErrorIs(t, err, domain.ErrRefreshFailed)
		p.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
	})

	t.Run("SuccessMovesCachedUser", func(t *testing.T) {
		p := new(MockAuthProvider)
		svc, users, _ := newService(p)
		require.NoError(t, users.Set(ctx, session.CacheKey("a1"), &ana))
		p.On("Refresh", mock.Anything, "r1").Return(&domain.RefreshResponse{Success: true, AccessToken: "a2", RefreshToken: "r2"}, nil).Once()
		store := session.NewMemoryStore("a1", "r1")

		require.NoError(t, svc.Refresh(ctx, store))

		old, _ := users.Get(ctx, session.CacheKey("a1"))
		moved, _ := users.Get(ctx, session.CacheKey("a2"))
		assert.Nil(t, old)
		assert.Equal(t, &ana, moved)
	})
}

// slowProvider blocks Refresh until released and counts calls.
type slowProvider struct {
	MockAuthProvider
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (p *slowProvider) Refresh(ctx context.Context, refreshToken string) (*domain.RefreshResponse, error) {
	if p.calls.Add(1) == 1 {
		close(p.started)
	}
	<-p.release
	return &domain.RefreshResponse{Success: true, AccessToken: "a2", RefreshToken: "r2"}, nil
}

func TestAuthService_RefreshCoalesced(t *testing.T) {
	p := &slowProvider{started: make(chan struct{}), release: make(chan struct{})}
	svc := NewAuthService(p, nil, nil)

	stores := []*session.MemoryStore{
		session.NewMemoryStore("a1", "r1"),
		session.NewMemoryStore("a1", "r1"),
	}

	var wg sync.WaitGroup
	errs := make([]error, len(stores))
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[0] = svc.Refresh(context.Background(), stores[0])
	}()
	<-p.started

	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[1] = svc.Refresh(context.Background(), stores[1])
	}()
	time.Sleep(50 * time.Millisecond)
	close(p.release)
	wg.Wait()

	assert.Equal(t, int32(1), p.calls.Load())
	for i, s := range stores {
		assert.NoError(t, errs[i])
		assert.Equal(t, "a2", s.AccessToken())
		assert.Equal(t, "r2", s.RefreshToken())
	}
}

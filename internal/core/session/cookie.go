package session

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const localsKey = "session"

// CookieStore keeps tokens in the access_token and refresh_token cookies of
// the current request. Writes are visible to later reads in the same request.
type CookieStore struct {
	c       *fiber.Ctx
	maxAge  time.Duration
	secure  bool
	access  *string
	refresh *string
}

// NewCookieStore binds a store to the request.
func NewCookieStore(c *fiber.Ctx, maxAge time.Duration, secure bool) *CookieStore {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &CookieStore{c: c, maxAge: maxAge, secure: secure}
}

// AccessToken implements Store.
func (s *CookieStore) AccessToken() string {
	if s.access != nil {
		return *s.access
	}
	return s.read(AccessTokenCookie)
}

// RefreshToken implements Store.
func (s *CookieStore) RefreshToken() string {
	if s.refresh != nil {
		return *s.refresh
	}
	return s.read(RefreshTokenCookie)
}

// SetTokens implements Store.
func (s *CookieStore) SetTokens(accessToken, refreshToken string) {
	if accessToken != "" {
		s.write(AccessTokenCookie, accessToken)
		s.access = &accessToken
	}
	if refreshToken != "" {
		s.write(RefreshTokenCookie, refreshToken)
		s.refresh = &refreshToken
	}
}

// Clear implements Store.
func (s *CookieStore) Clear() {
	empty := ""
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		s.c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  fasthttp.CookieExpireDelete,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   s.secure,
			HTTPOnly: true,
		})
	}
	s.access = &empty
	s.refresh = &empty
}

func (s *CookieStore) read(name string) string {
	raw := s.c.Cookies(name)
	if raw == "" {
		return ""
	}
	v, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return v
}

func (s *CookieStore) write(name, value string) {
	s.c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    url.PathEscape(value),
		Path:     "/",
		MaxAge:   int(s.maxAge / time.Second),
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   s.secure,
		HTTPOnly: true,
	})
}

// Middleware attaches a CookieStore to every request, both as a Fiber local
// and on the user context passed to services.
func Middleware(maxAge time.Duration, secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		store := NewCookieStore(c, maxAge, secure)
		c.Locals(localsKey, store)
		c.SetUserContext(WithStore(c.UserContext(), store))
		return c.Next()
	}
}

// FromFiber returns the request's store. Outside the middleware it binds a
// default CookieStore so handlers never see nil.
func FromFiber(c *fiber.Ctx) Store {
	if s, ok := c.Locals(localsKey).(Store); ok {
		return s
	}
	return NewCookieStore(c, DefaultMaxAge, false)
}

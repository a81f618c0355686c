package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestRenderer_SignedOutHeader(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return r.Render(c, fiber.StatusOK, "home", Page{})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	html := body(t, resp)
	assert.Contains(t, html, "Sign In")
	assert.Contains(t, html, "Create account")
	assert.NotContains(t, html, "Sign Out")
}

func TestRenderer_ViewerMenu(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	r.SetViewer(func(c *fiber.Ctx) *Viewer {
		return &Viewer{Name: "Ana <admin>", IsAdmin: true}
	})

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return r.Render(c, fiber.StatusOK, "error", Page{Data: "broken"})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	html := body(t, resp)
	assert.Contains(t, html, "Ana &lt;admin&gt;")
	assert.Contains(t, html, "Admin Dashboard")
	assert.Contains(t, html, "Sign Out")
	assert.Contains(t, html, "broken")
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return r.Render(c, fiber.StatusOK, "nope", Page{})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestFlash_RoundTrip(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	app := fiber.New()
	app.Post("/go", func(c *fiber.Ctx) error {
		Flash(c, Failure("Oops!", "Login failed"))
		return c.Redirect("/", fiber.StatusSeeOther)
	})
	app.Get("/", func(c *fiber.Ctx) error {
		return r.Render(c, fiber.StatusOK, "home", Page{})
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/go", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	var cookie string
	for _, c := range resp.Cookies() {
		if c.Name == NoticeCookie {
			cookie = c.Value
		}
	}
	require.NotEmpty(t, cookie)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: NoticeCookie, Value: cookie})
	resp, err = app.Test(req)
	require.NoError(t, err)

	html := body(t, resp)
	assert.Contains(t, html, "notice destructive")
	assert.Contains(t, html, "Oops!")
	assert.Contains(t, html, "Login failed")
	assert.True(t, strings.Contains(resp.Header.Get("Set-Cookie"), NoticeCookie+"=;"), "the notice is cleared")
}

func TestPopFlash_Garbage(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		if PopFlash(c) != nil {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: NoticeCookie, Value: "%%%"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNotice_Variants(t *testing.T) {
	assert.False(t, Info("Signed out", "You have been signed out").Destructive())
	assert.True(t, Failure("Oops!", "x").Destructive())
	var n *Notice
	assert.False(t, n.Destructive())
}

func TestRenderer_Banner(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	r.SetBanner(func(c *fiber.Ctx) *Banner {
		return &Banner{Title: "Maintenance", Description: "Tonight at 22h", Variant: "warning"}
	})

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return r.Render(c, fiber.StatusOK, "home", Page{})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	html := body(t, resp)
	assert.Contains(t, html, `class="banner warning"`)
	assert.Contains(t, html, "Maintenance")
	assert.Contains(t, html, "Tonight at 22h")
}

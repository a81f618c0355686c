package web

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// NoticeCookie carries a notice across one redirect.
const NoticeCookie = "notice"

// Notice variants.
const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// Notice is a short message shown once at the top of the next page.
type Notice struct {
	Variant     string `json:"variant"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Info returns a default notice.
func Info(title, description string) *Notice {
	return &Notice{Variant: VariantDefault, Title: title, Description: description}
}

// Failure returns a destructive notice.
func Failure(title, description string) *Notice {
	return &Notice{Variant: VariantDestructive, Title: title, Description: description}
}

// Destructive reports whether the notice signals a failure.
func (n *Notice) Destructive() bool {
	return n != nil && n.Variant == VariantDestructive
}

// Flash stores n for the next request.
func Flash(c *fiber.Ctx, n *Notice) {
	if n == nil {
		return
	}
	data, err := json.Marshal(n)
	if err != nil {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     NoticeCookie,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// PopFlash returns the pending notice, if any, and clears it.
func PopFlash(c *fiber.Ctx) *Notice {
	raw := c.Cookies(NoticeCookie)
	if raw == "" {
		return nil
	}
	c.Cookie(&fiber.Cookie{
		Name:     NoticeCookie,
		Value:    "",
		Path:     "/",
		Expires:  fasthttp.CookieExpireDelete,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var n Notice
	if err := json.Unmarshal(data, &n); err != nil {
		return nil
	}
	return &n
}

package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages lists the templates rendered inside the layout.
var pages = []string{"home", "login", "register", "profile", "shipments", "payload", "announcement", "error"}

// Viewer is the signed-in user shown in the header.
type Viewer struct {
	Name    string
	Email   string
	IsAdmin bool
}

// Banner is the site-wide announcement shown above every page.
type Banner struct {
	Title       string
	Description string
	Variant     string
}

// BannerFunc resolves the active banner; nil means none.
type BannerFunc func(c *fiber.Ctx) *Banner

// ViewerFunc resolves the viewer of a request; nil means signed out.
type ViewerFunc func(c *fiber.Ctx) *Viewer

// Page is the data every template receives.
type Page struct {
	Title  string
	Viewer *Viewer
	Notice *Notice
	Banner *Banner
	// Data is the page-specific payload.
	Data interface{}
}

// Renderer executes the embedded templates.
type Renderer struct {
	templates map[string]*template.Template
	viewer    ViewerFunc
	banner    BannerFunc
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New("layout.html").ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// SetViewer installs the resolver used to fill Page.Viewer.
func (r *Renderer) SetViewer(fn ViewerFunc) {
	r.viewer = fn
}

// SetBanner installs the resolver used to fill Page.Banner.
func (r *Renderer) SetBanner(fn BannerFunc) {
	r.banner = fn
}

// Render writes page name with status. The viewer, the banner and any
// pending flash notice are filled in when unset.
func (r *Renderer) Render(c *fiber.Ctx, status int, name string, p Page) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}

	if p.Viewer == nil && r.viewer != nil {
		p.Viewer = r.viewer(c)
	}
	if p.Banner == nil && r.banner != nil {
		p.Banner = r.banner(c)
	}
	if p.Notice == nil {
		p.Notice = PopFlash(c)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", p); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

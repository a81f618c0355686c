package export

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"shipment-dashboard/internal/core/logger"
	"shipment-dashboard/internal/core/proxy"
	"shipment-dashboard/internal/core/session"
	"shipment-dashboard/internal/features/shipments/domain"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// Format is the output kind of an export.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

// DefaultTimeout bounds one export.
const DefaultTimeout = 60 * time.Second

// ParseFormat accepts "pdf" and "png" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatPNG:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// Options configures an Exporter.
type Options struct {
	// BaseURL is the root of a running dashboard, e.g. http://localhost:8080.
	BaseURL string
	Proxy   proxy.Settings
	Timeout time.Duration
	// Bin overrides the browser binary; empty lets the launcher pick one.
	Bin string
}

// Exporter renders the shipment page in headless Chromium.
type Exporter struct {
	base    *url.URL
	proxy   proxy.Settings
	timeout time.Duration
	bin     string
	logger  *zap.Logger
}

// New validates the base URL and returns an Exporter.
func New(opts Options) (*Exporter, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid dashboard url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid dashboard url %q", opts.BaseURL)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Exporter{
		base:    base,
		proxy:   opts.Proxy,
		timeout: timeout,
		bin:     opts.Bin,
		logger:  logger.Named("export"),
	}, nil
}

// PageURL returns the shipment page for the effective filters.
func (e *Exporter) PageURL(filters domain.Filters) string {
	u := *e.base
	u.Path = strings.TrimRight(u.Path, "/") + "/shipments"
	u.RawQuery = filters.Effective().Query().Encode()
	return u.String()
}

// Cookies returns the session cookies the browser sends to the dashboard.
func (e *Exporter) Cookies(store session.Store) []*proto.NetworkCookieParam {
	var cookies []*proto.NetworkCookieParam
	add := func(name, value string) {
		if value == "" {
			return
		}
		cookies = append(cookies, &proto.NetworkCookieParam{
			Name:     name,
			Value:    url.PathEscape(value),
			Domain:   e.base.Hostname(),
			Path:     "/",
			HTTPOnly: true,
			Secure:   e.base.Scheme == "https",
		})
	}
	add(session.AccessTokenCookie, store.AccessToken())
	add(session.RefreshTokenCookie, store.RefreshToken())
	return cookies
}

// Export writes the shipment page for filters to w.
func (e *Exporter) Export(ctx context.Context, store session.Store, filters domain.Filters, format Format, w io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	target := e.PageURL(filters)
	e.logger.Debug("Launching browser...",
		zap.String("url", target),
		zap.String("format", string(format)),
		zap.Bool("proxy_enabled", e.proxy.HasProxy()),
	)

	l := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true)
	if e.bin != "" {
		l = l.Bin(e.bin)
	}
	if e.proxy.HasProxy() {
		l = l.Proxy(e.proxy.HostPort())
	}

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().Context(ctx).ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer browser.Close()

	if e.proxy.HasProxy() && e.proxy.Username != "" && e.proxy.Password != "" {
		go browser.MustHandleAuth(e.proxy.Username, e.proxy.Password)()
	}

	if err := browser.SetCookies(e.Cookies(store)); err != nil {
		return fmt.Errorf("failed to set session cookies: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: target})
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", target, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("failed to load %s: %w", target, err)
	}

	info, err := page.Info()
	if err == nil && strings.HasSuffix(strings.SplitN(info.URL, "?", 2)[0], "/login") {
		return fmt.Errorf("dashboard rejected the session: redirected to %s", info.URL)
	}

	switch format {
	case FormatPNG:
		data, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
			Format: proto.PageCaptureScreenshotFormatPng,
		})
		if err != nil {
			return fmt.Errorf("failed to capture screenshot: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write screenshot: %w", err)
		}
	default:
		reader, err := page.PDF(&proto.PagePrintToPDF{
			Landscape:       true,
			PrintBackground: true,
		})
		if err != nil {
			return fmt.Errorf("failed to print pdf: %w", err)
		}
		defer reader.Close()
		if _, err := io.Copy(w, reader); err != nil {
			return fmt.Errorf("failed to write pdf: %w", err)
		}
	}

	e.logger.Info("Export finished", zap.String("url", target), zap.String("format", string(format)))
	return nil
}

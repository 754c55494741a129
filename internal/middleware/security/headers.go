package security

import (
	"fmt"
	"net/http"
	"strings"
)

// Directive is one Content-Security-Policy entry.
type Directive struct {
	Name    string
	Sources []string
}

// Policy renders directives in order.
type Policy []Directive

func (p Policy) String() string {
	parts := make([]string, 0, len(p))
	for _, d := range p {
		parts = append(parts, strings.TrimSpace(d.Name+" "+strings.Join(d.Sources, " ")))
	}
	return strings.Join(parts, "; ")
}

// ChartCDN serves the chart library used by the stats page.
const ChartCDN = "https://cdn.jsdelivr.net"

// HeadersConfig holds the headers set on every response.
type HeadersConfig struct {
	CSP Policy

	// Strict-Transport-Security, HTTPS only. Zero disables it.
	HSTSMaxAge int

	// Static is set as-is on every response.
	Static map[string]string

	// NoStorePrefixes lists paths whose responses carry uploaded figures and
	// must not be cached.
	NoStorePrefixes []string
}

// DefaultHeadersConfig returns the headers used by the upload server.
func DefaultHeadersConfig() HeadersConfig {
	return HeadersConfig{
		CSP: Policy{
			{"default-src", []string{"'self'"}},
			{"script-src", []string{"'self'", ChartCDN}},
			{"style-src", []string{"'self'", "'unsafe-inline'"}},
			{"img-src", []string{"'self'", "data:"}},
			{"connect-src", []string{"'self'"}},
			{"object-src", []string{"'none'"}},
			{"frame-ancestors", []string{"'none'"}},
			{"base-uri", []string{"'self'"}},
			{"form-action", []string{"'self'"}},
		},
		HSTSMaxAge: 31536000,
		Static: map[string]string{
			"X-Frame-Options":              "DENY",
			"X-Content-Type-Options":       "nosniff",
			"Referrer-Policy":              "no-referrer",
			"Permissions-Policy":           "geolocation=(), microphone=(), camera=(), payment=()",
			"Cross-Origin-Opener-Policy":   "same-origin",
			"Cross-Origin-Resource-Policy": "same-origin",
		},
		NoStorePrefixes: []string{"/upload", "/api/"},
	}
}

// HeadersMiddleware applies HeadersConfig to responses.
type HeadersMiddleware struct {
	config HeadersConfig
	csp    string
	hsts   string
}

func NewHeadersMiddleware(config HeadersConfig) *HeadersMiddleware {
	h := &HeadersMiddleware{config: config, csp: config.CSP.String()}
	if config.HSTSMaxAge > 0 {
		h.hsts = fmt.Sprintf("max-age=%d; includeSubDomains", config.HSTSMaxAge)
	}
	return h
}

func (h *HeadersMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers := w.Header()
		for k, v := range h.config.Static {
			headers.Set(k, v)
		}
		if h.csp != "" {
			headers.Set("Content-Security-Policy", h.csp)
		}
		if r.TLS != nil && h.hsts != "" {
			headers.Set("Strict-Transport-Security", h.hsts)
		}
		if h.noStore(r.URL.Path) {
			headers.Set("Cache-Control", "no-store")
		}
		next.ServeHTTP(w, r)
	})
}

func (h *HeadersMiddleware) noStore(path string) bool {
	for _, p := range h.config.NoStorePrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// StaticAssetMiddleware lets browsers cache embedded assets for maxAge seconds.
func StaticAssetMiddleware(maxAge int) func(http.Handler) http.Handler {
	value := fmt.Sprintf("public, max-age=%d", maxAge)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxAge > 0 {
				w.Header().Set("Cache-Control", value)
			}
			next.ServeHTTP(w, r)
		})
	}
}

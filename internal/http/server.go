package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"croracle/internal/log"
	"croracle/internal/middleware/ratelimit"
	"croracle/internal/middleware/security"
	"croracle/internal/middleware/trace"
	"croracle/internal/stats"
	appweb "croracle/web"
)

// Options configures the HTTP surface.
type Options struct {
	MaxUploadBytes     int64
	RateLimitPerMinute int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	Logger             *log.Logger
}

// DefaultOptions returns the limits used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MaxUploadBytes:     10 << 20,
		RateLimitPerMinute: 30,
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       30 * time.Second,
	}
}

type Server struct {
	http.Server
	templates *template.Template
	composer  *stats.Composer
	logger    *log.Logger
	maxUpload int64
	started   time.Time

	rateLimiter     *ratelimit.Limiter
	traceMiddleware *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run http.Server.
func NewServer(addr string, composer *stats.Composer, opts Options) *Server {
	defaults := DefaultOptions()
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if opts.RateLimitPerMinute <= 0 {
		opts.RateLimitPerMinute = defaults.RateLimitPerMinute
	}
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	if composer == nil {
		composer = stats.NewComposer(stats.DefaultOptions())
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadTimeout:       opts.ReadTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      opts.WriteTimeout,
		},
		composer:        composer,
		logger:          opts.Logger.WithComponent(log.ComponentHTTP),
		maxUpload:       opts.MaxUploadBytes,
		started:         time.Now(),
		rateLimiter:     ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		traceMiddleware: trace.NewMiddleware(security.ClientIP),
	}

	// Parse embedded templates at startup.
	t, err := template.New("").Funcs(templateFuncs(composer.Places())).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", log.FieldError, err)
	} else {
		s.templates = t
	}

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/upload", s.handleUpload)
	mux.HandleFunc("/api/stats", s.handleAPIStats)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(security.ClientIP, s.onRateLimit)(handler)
	handler = log.RequestIDMiddleware(trace.FromRequest)(handler)
	handler = log.Middleware(opts.Logger)(handler)
	handler = headers.Middleware(handler)
	handler = s.traceMiddleware.Middleware(handler)
	s.Handler = handler

	return s
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, security.ClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)

	msg := "Rate limit exceeded. Please try again later."
	if wantsJSON(r) {
		_ = ErrorJSON(http.StatusTooManyRequests, msg, "rate_limited").Write(w)
		return
	}
	http.Error(w, msg, http.StatusTooManyRequests)
}

// Shutdown stops the rate limiter and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
		slog.Debug("HTTP server shut down", log.FieldOperation, log.OpShutdown)
	})
	return shutdownErr
}

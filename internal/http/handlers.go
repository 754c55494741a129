package http

import (
	"net/http"
	"time"

	"croracle/internal/log"
)

// formPage is the data of upload_form.html.
type formPage struct {
	Error       string
	MaxUploadMB int64
	Field       string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		_ = MethodNotAllowed("GET, HEAD").Write(w)
		return
	}
	s.renderForm(w, r, http.StatusOK, "")
}

// renderForm shows the upload form, optionally with an error message.
func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, status int, message string) {
	if s.templates == nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	data := formPage{
		Error:       message,
		MaxUploadMB: s.maxUpload >> 20,
		Field:       UploadField,
	}
	if err := NewResponse().Status(status).HTML(s.templates, "upload_form.html", data).Write(w); err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentTemplate).ErrorContext(r.Context(), "Form template execution failed",
			log.FieldError, err, log.FieldOperation, log.OpRender)
	}
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = NewResponse().JSON(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).String(),
	}).Write(w)
}

// handleReady reports whether templates are loaded
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]any{}

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	limits := s.rateLimiter.GetMetrics()
	checks["rate_limiter"] = map[string]any{
		"active_clients": limits.ClientCount,
		"rejected":       limits.Rejected,
		"status":         "ok",
	}
	reqs := s.traceMiddleware.GetMetrics()
	checks["requests"] = map[string]any{
		"total":         reqs.Requests,
		"client_errors": reqs.ClientErrors,
		"server_errors": reqs.ServerErrors,
	}

	_ = NewResponse().Status(httpStatus).JSON(map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

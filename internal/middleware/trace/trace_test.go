package trace

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMiddlewareSetsRequestID(t *testing.T) {
	m := NewMiddleware(func(*http.Request) string { return "10.0.0.1" })

	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromRequest(r)
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.HasPrefix(seen, "req_") {
		t.Fatalf("request id = %q", seen)
	}
	if rr.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("header %q != context %q", rr.Header().Get(RequestIDHeader), seen)
	}
	if rr.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rr.Code)
	}
	m1 := m.GetMetrics()
	if m1.Requests != 1 || m1.ClientErrors != 1 || m1.ServerErrors != 0 {
		t.Fatalf("metrics = %+v", m1)
	}
}

func TestIncomingRequestID(t *testing.T) {
	h := NewMiddleware(nil).Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	ours := GenerateRequestID()
	for in, keep := range map[string]bool{
		ours:             true,
		"req_not-a-uuid": false,
		"anything":       false,
	} {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(RequestIDHeader, in)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, r)

		got := rr.Header().Get(RequestIDHeader)
		if keep != (got == in) {
			t.Errorf("incoming %q: response id %q", in, got)
		}
	}
}

func TestLevelFor(t *testing.T) {
	for status, want := range map[int]slog.Level{
		200: slog.LevelInfo,
		302: slog.LevelInfo,
		413: slog.LevelWarn,
		500: slog.LevelError,
	} {
		if got := levelFor(status); got != want {
			t.Errorf("levelFor(%d) = %v, want %v", status, got, want)
		}
	}
}

func TestGenerateRequestIDUnique(t *testing.T) {
	if GenerateRequestID() == GenerateRequestID() {
		t.Fatal("request ids must differ")
	}
}

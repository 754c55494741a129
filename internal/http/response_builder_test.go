package http

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestResponseBuilderJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	err := NewResponse().Status(http.StatusCreated).Header("X-Test", "1").JSON(map[string]int{"n": 1}).Write(rr)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if rr.Code != http.StatusCreated || rr.Header().Get("X-Test") != "1" {
		t.Fatalf("code=%d headers=%v", rr.Code, rr.Header())
	}
	if strings.TrimSpace(rr.Body.String()) != `{"n":1}` {
		t.Fatalf("body=%q", rr.Body.String())
	}
}

func TestResponseBuilderTemplateFailure(t *testing.T) {
	tmpl := template.Must(template.New("page").Parse(`{{.Missing.Field}}`))

	rr := httptest.NewRecorder()
	err := NewResponse().Header("X-Test", "1").HTML(tmpl, "page", struct{}{}).Write(rr)
	if err == nil {
		t.Fatal("expected template error")
	}
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("code=%d", rr.Code)
	}
	if rr.Header().Get("X-Test") != "" {
		t.Fatal("headers of a failed response must not be sent")
	}
}

func TestErrorJSONAndMethodNotAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	_ = ErrorJSON(http.StatusBadRequest, "wrong file format", "format_error").Write(rr)
	if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Body.String(), `"kind":"format_error"`) {
		t.Fatalf("code=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	_ = MethodNotAllowed("POST").Write(rr)
	if rr.Code != http.StatusMethodNotAllowed || rr.Header().Get("Allow") != "POST" {
		t.Fatalf("code=%d allow=%q", rr.Code, rr.Header().Get("Allow"))
	}
}

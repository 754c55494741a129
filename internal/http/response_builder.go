// Package http provides HTTP server and handler implementations.
//
// This file implements the Builder Pattern for constructing responses. Bodies
// are rendered into memory before anything is written, so a failing template
// never leaves a half-written 200 behind.

package http

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"
)

// ResponseBuilder provides a fluent API for building responses.
type ResponseBuilder struct {
	statusCode int
	body       []byte
	headers    map[string]string
	err        error
}

// NewResponse creates a new response builder with default 200 status.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// BodyString sets a plain text body.
func (b *ResponseBuilder) BodyString(content string) *ResponseBuilder {
	b.headers["Content-Type"] = "text/plain; charset=utf-8"
	b.body = []byte(content)
	return b
}

// JSON sets v, encoded, as the body.
func (b *ResponseBuilder) JSON(v any) *ResponseBuilder {
	data, err := json.Marshal(v)
	if err != nil {
		b.err = err
		return b
	}
	b.headers["Content-Type"] = "application/json"
	b.body = append(data, '\n')
	return b
}

// HTML renders the named template with data as the body.
func (b *ResponseBuilder) HTML(t *template.Template, name string, data any) *ResponseBuilder {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		b.err = err
		return b
	}
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = buf.Bytes()
	return b
}

// Write sends the built response. If building the body failed, a plain 500
// is sent instead and the build error is returned.
func (b *ResponseBuilder) Write(w http.ResponseWriter) error {
	if b.err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return b.err
	}
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, err := w.Write(b.body)
		return err
	}
	return nil
}

// ErrorJSON creates the {"error", "kind"} body of a failed API call.
func ErrorJSON(statusCode int, message, kind string) *ResponseBuilder {
	return NewResponse().
		Status(statusCode).
		JSON(map[string]string{"error": message, "kind": kind})
}

// MethodNotAllowed creates a 405 Method Not Allowed response.
func MethodNotAllowed(allowedMethods string) *ResponseBuilder {
	return NewResponse().
		Status(http.StatusMethodNotAllowed).
		Header("Allow", allowedMethods)
}

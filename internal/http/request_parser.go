// Package http provides HTTP server and handler implementations.
//
// This file implements reading the uploaded transaction export from a
// multipart request.

package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

// UploadField is the multipart field carrying the export.
const UploadField = "cdc_file"

var (
	ErrNoFile         = errors.New("no file uploaded")
	ErrWrongExtension = errors.New("only .csv files are accepted")
	ErrTooLarge       = errors.New("upload too large")
)

// Upload is a file read from a request.
type Upload struct {
	Name string
	Size int64
	Data []byte
}

// ParseUpload reads the UploadField file of r, bounded by maxBytes.
func ParseUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (*Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		if isTooLarge(err) {
			return nil, ErrTooLarge
		}
		return nil, fmt.Errorf("%w: %v", ErrNoFile, err)
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	f, hdr, err := r.FormFile(UploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, ErrNoFile
		}
		return nil, fmt.Errorf("read %s: %w", UploadField, err)
	}
	defer f.Close()

	name := sanitizeFilename(hdr.Filename)
	if name == "" {
		return nil, ErrNoFile
	}
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return nil, fmt.Errorf("%w: %q", ErrWrongExtension, name)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		if isTooLarge(err) {
			return nil, ErrTooLarge
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return &Upload{Name: name, Size: int64(len(data)), Data: data}, nil
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}

// wantsJSON reports whether the client asked for a JSON response.
func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

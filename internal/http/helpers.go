package http

import (
	"html/template"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
)

// sanitizeFilename keeps the base name of a client-supplied file name and
// drops control characters.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == "/" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, name)
}

// templateFuncs returns the helpers available to page templates.
func templateFuncs(places int32) template.FuncMap {
	return template.FuncMap{
		"amount": func(d decimal.Decimal) string {
			return d.StringFixed(places)
		},
	}
}

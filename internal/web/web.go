// Package web serves the static upload form page.
package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed index.html
var files embed.FS

var page = template.Must(template.ParseFS(files, "index.html"))

// PageData is what the form page displays in its configuration box. Only
// non-secret values belong here.
type PageData struct {
	Region     string
	Bucket     string
	AuthMethod string
}

// Handler renders the upload form.
type Handler struct {
	data PageData
}

// NewHandler creates the form page handler with the display-safe subset of
// the configuration.
func NewHandler(data PageData) *Handler {
	return &Handler{data: data}
}

// Index serves the upload form page.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(w, h.data); err != nil {
		slog.Error("rendering form page failed", "error", err)
	}
}

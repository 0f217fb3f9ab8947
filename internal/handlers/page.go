package handlers

import (
	"io/fs"
	"net/http"

	"github.com/tubefetch/server/internal/logging"
	"github.com/tubefetch/server/internal/ui"
)

// PageHandler serves the client page and its assets.
type PageHandler struct {
	Assets fs.FS
}

// Index serves the page at GET /.
func (h PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	if h.Assets == nil {
		http.NotFound(w, r)
		return
	}

	page, err := fs.ReadFile(h.Assets, ui.IndexFile)
	if err != nil {
		logging.FromContext(r.Context()).Error("read index page", "error", err)
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(page)
}

// Static serves page assets under /static/.
func (h PageHandler) Static() http.Handler {
	if h.Assets == nil {
		return http.NotFoundHandler()
	}
	return http.StripPrefix("/static/", http.FileServerFS(h.Assets))
}

package handlers

import (
	"io/fs"

	"github.com/go-chi/chi/v5"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Metadata  VideoMetadataProvider
	Streams   VideoStreamer
	Assets    fs.FS
	Extractor string
}

// RegisterRoutes wires HTTP handlers into the provided router.
func RegisterRoutes(r chi.Router, deps Dependencies) {
	health := HealthHandler{Extractor: deps.Extractor}
	page := PageHandler{Assets: deps.Assets}
	videos := VideoHandler{Metadata: deps.Metadata, Streams: deps.Streams}

	r.Get("/", page.Index)
	r.Handle("/static/*", page.Static())

	r.Get("/healthz", health.Handle)
	r.Head("/healthz", health.Handle)

	r.Route("/api", func(r chi.Router) {
		r.Post("/video-info", videos.Info)
		r.Get("/download", videos.Download)
	})
}

package handlers

import (
	"context"

	"github.com/tubefetch/server/internal/videos"
)

// VideoMetadataProvider resolves the metadata projection for a video URL.
type VideoMetadataProvider interface {
	Lookup(ctx context.Context, url string) (videos.Metadata, error)
}

// VideoStreamer opens the byte stream of one format of a video.
type VideoStreamer interface {
	Open(ctx context.Context, url, itag string) (*videos.Stream, error)
}

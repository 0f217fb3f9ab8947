package videos

import (
	"context"
	"io"
)

// Format kinds reported to clients.
const (
	KindVideo = "video"
	KindAudio = "audio"
)

// Unknown is reported for optional format fields the extractor did not supply.
const Unknown = "unknown"

// Format describes one downloadable encoding of a video.
type Format struct {
	Itag      int    `json:"itag"`
	Type      string `json:"type"`
	Quality   string `json:"quality"`
	Container string `json:"container"`
	Size      string `json:"size"`
	URL       string `json:"url"`

	MimeType string `json:"-"`
	Bytes    int64  `json:"-"`
}

// Metadata is the projection of a video returned by the metadata endpoint.
type Metadata struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Thumbnail    string   `json:"thumbnail"`
	Duration     int      `json:"duration"`
	DurationText string   `json:"durationText"`
	Channel      string   `json:"channel"`
	Formats      []Format `json:"formats"`
}

// Stream is an open byte stream for one format of a video. Callers must Close it.
type Stream struct {
	io.ReadCloser

	Title  string
	Format Format
	// Size is the number of bytes the extractor expects to send, or 0 when unknown.
	Size int64
}

// Filename returns "<title>.<container>" for the stream.
func (s *Stream) Filename() string {
	title := s.Title
	if title == "" {
		title = "video"
	}
	container := s.Format.Container
	if container == "" || container == Unknown {
		return title
	}
	return title + "." + container
}

// ContentType returns the MIME type of the stream's format.
func (s *Stream) ContentType() string {
	if s.Format.MimeType == "" {
		return "application/octet-stream"
	}
	return s.Format.MimeType
}

// Provider resolves metadata and format streams for video URLs. Both
// operations fetch fresh metadata from the extractor on every call.
type Provider interface {
	Lookup(ctx context.Context, url string) (Metadata, error)
	Open(ctx context.Context, url, itag string) (*Stream, error)
}

package videos

import "errors"

var (
	// ErrProviderUnavailable indicates the extraction backend is not configured.
	ErrProviderUnavailable = errors.New("video provider unavailable")
	// ErrInvalidURL indicates the input does not look like a supported video URL.
	ErrInvalidURL = errors.New("invalid video url")
	// ErrFormatNotFound indicates the requested itag is not offered for the video.
	ErrFormatNotFound = errors.New("video format not found")
)

package videos

import (
	"fmt"
	"mime"
	"strconv"
	"strings"
)

const mebibyte = 1024 * 1024

// formatSource is the extractor-neutral view of one upstream format that
// describeFormat turns into a Format.
type formatSource struct {
	Itag         int
	HasVideo     bool
	HasAudio     bool
	VideoQuality string
	AudioQuality string
	MimeType     string
	Container    string
	Bytes        int64
	URL          string
}

// describeFormat maps an upstream format to a Format. Formats carrying
// neither video nor audio are dropped.
func describeFormat(src formatSource) (Format, bool) {
	if !src.HasVideo && !src.HasAudio {
		return Format{}, false
	}

	kind := KindAudio
	if src.HasVideo {
		kind = KindVideo
	}

	quality := Unknown
	switch {
	case src.VideoQuality != "":
		quality = src.VideoQuality
	case src.AudioQuality != "":
		quality = src.AudioQuality
	}

	container := src.Container
	if container == "" {
		container = containerFromMime(src.MimeType)
	}

	return Format{
		Itag:      src.Itag,
		Type:      kind,
		Quality:   quality,
		Container: container,
		Size:      SizeLabel(src.Bytes),
		URL:       src.URL,
		MimeType:  baseMimeType(src.MimeType),
		Bytes:     src.Bytes,
	}, true
}

// SelectFormat returns the format whose itag equals the given identifier.
func SelectFormat(formats []Format, itag string) (Format, error) {
	n, err := strconv.Atoi(strings.TrimSpace(itag))
	if err != nil {
		return Format{}, fmt.Errorf("%w: itag %q", ErrFormatNotFound, itag)
	}
	for _, f := range formats {
		if f.Itag == n {
			return f, nil
		}
	}
	return Format{}, fmt.Errorf("%w: itag %d", ErrFormatNotFound, n)
}

// SizeLabel renders a byte count as megabytes with two decimals, or
// "unknown" when the size was not reported.
func SizeLabel(bytes int64) string {
	if bytes <= 0 {
		return Unknown
	}
	return fmt.Sprintf("%.2f MB", float64(bytes)/mebibyte)
}

// FormatDuration renders seconds as H:MM:SS, dropping the hour field when it
// is zero: 0 -> "0:00", 61 -> "1:01", 3661 -> "1:01:01".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := seconds % 3600 / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// containerFromMime returns the subtype of a MIME type such as
// `video/mp4; codecs="avc1"`.
func containerFromMime(mimeType string) string {
	base := baseMimeType(mimeType)
	if _, sub, ok := strings.Cut(base, "/"); ok && sub != "" {
		return sub
	}
	return Unknown
}

func baseMimeType(mimeType string) string {
	if mimeType == "" {
		return ""
	}
	if mediaType, _, err := mime.ParseMediaType(mimeType); err == nil {
		return mediaType
	}
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

package videos

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/kkdai/youtube/v2"
)

// YouTubeClient is the subset of *youtube.Client used by YouTubeProvider.
type YouTubeClient interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetStreamContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error)
}

// YouTubeProvider resolves metadata and streams in-process with kkdai/youtube.
type YouTubeProvider struct {
	Client YouTubeClient
}

// NewYouTubeProvider constructs a Provider backed by a kkdai/youtube client.
// A nil httpClient uses the library's default.
func NewYouTubeProvider(httpClient *http.Client) *YouTubeProvider {
	return &YouTubeProvider{
		Client: &youtube.Client{HTTPClient: httpClient},
	}
}

// Lookup fetches video details and projects them into Metadata.
func (p *YouTubeProvider) Lookup(ctx context.Context, url string) (Metadata, error) {
	video, err := p.fetch(ctx, url)
	if err != nil {
		return Metadata{}, err
	}
	return projectVideo(video), nil
}

// Open re-fetches the video, selects the format with the given itag and
// opens its byte stream.
func (p *YouTubeProvider) Open(ctx context.Context, url, itag string) (*Stream, error) {
	video, err := p.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	n, err := strconv.Atoi(strings.TrimSpace(itag))
	if err != nil {
		return nil, fmt.Errorf("%w: itag %q", ErrFormatNotFound, itag)
	}
	candidates := video.Formats.Itag(n)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: itag %d for video %s", ErrFormatNotFound, n, video.ID)
	}
	upstream := candidates[0]

	format, ok := describeFormat(youtubeFormatSource(upstream))
	if !ok {
		return nil, fmt.Errorf("%w: itag %d carries no media", ErrFormatNotFound, n)
	}

	body, size, err := p.Client.GetStreamContext(ctx, video, &upstream)
	if err != nil {
		return nil, fmt.Errorf("youtube stream %s itag %d: %w", video.ID, n, err)
	}
	if size <= 0 {
		size = upstream.ContentLength
	}

	return &Stream{
		ReadCloser: body,
		Title:      video.Title,
		Format:     format,
		Size:       size,
	}, nil
}

func (p *YouTubeProvider) fetch(ctx context.Context, url string) (*youtube.Video, error) {
	if p == nil || p.Client == nil {
		return nil, ErrProviderUnavailable
	}

	id, err := ParseURL(url)
	if err != nil {
		return nil, err
	}

	video, err := p.Client.GetVideoContext(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("youtube lookup %s: %w", id, err)
	}
	if video == nil {
		return nil, fmt.Errorf("youtube lookup %s: empty response", id)
	}
	return video, nil
}

func projectVideo(video *youtube.Video) Metadata {
	seconds := int(video.Duration.Seconds())

	formats := make([]Format, 0, len(video.Formats))
	for _, f := range video.Formats {
		if desc, ok := describeFormat(youtubeFormatSource(f)); ok {
			formats = append(formats, desc)
		}
	}

	var thumbnail string
	if n := len(video.Thumbnails); n > 0 {
		thumbnail = video.Thumbnails[n-1].URL
	}

	return Metadata{
		ID:           video.ID,
		Title:        video.Title,
		Thumbnail:    thumbnail,
		Duration:     seconds,
		DurationText: FormatDuration(seconds),
		Channel:      video.Author,
		Formats:      formats,
	}
}

func youtubeFormatSource(f youtube.Format) formatSource {
	return formatSource{
		Itag:         f.ItagNo,
		HasVideo:     f.QualityLabel != "" || f.Width > 0 || strings.HasPrefix(f.MimeType, "video/"),
		HasAudio:     f.AudioChannels > 0 || f.AudioQuality != "" || strings.HasPrefix(f.MimeType, "audio/"),
		VideoQuality: f.QualityLabel,
		AudioQuality: f.AudioQuality,
		MimeType:     f.MimeType,
		Bytes:        f.ContentLength,
		URL:          f.URL,
	}
}

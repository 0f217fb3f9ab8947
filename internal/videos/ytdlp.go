package videos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// CommandRunner executes external commands and returns stdout bytes.
type CommandRunner func(ctx context.Context, binary string, args ...string) ([]byte, error)

// StreamRunner starts an external command and returns its stdout as a stream.
// Closing the stream must release the process.
type StreamRunner func(ctx context.Context, binary string, args ...string) (io.ReadCloser, error)

// YTDLPProvider resolves metadata and streams by shelling out to yt-dlp.
type YTDLPProvider struct {
	Binary     string
	Args       []string
	StreamArgs []string
	Run        CommandRunner
	Stream     StreamRunner
}

// NewYTDLPProvider constructs a Provider that shells out to yt-dlp.
func NewYTDLPProvider(binary string) *YTDLPProvider {
	if strings.TrimSpace(binary) == "" {
		binary = "yt-dlp"
	}
	return &YTDLPProvider{
		Binary:     binary,
		Args:       []string{"--dump-single-json", "--no-warnings", "--no-playlist", "--skip-download"},
		StreamArgs: []string{"--no-warnings", "--no-playlist", "--quiet", "--no-part", "-o", "-"},
		Run:        defaultCommandRunner,
		Stream:     defaultStreamRunner,
	}
}

type ytdlpPayload struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Thumbnail  string  `json:"thumbnail"`
	Duration   float64 `json:"duration"`
	Channel    string  `json:"channel"`
	Uploader   string  `json:"uploader"`
	Thumbnails []struct {
		URL string `json:"url"`
	} `json:"thumbnails"`
	Formats []ytdlpFormat `json:"formats"`
}

type ytdlpFormat struct {
	FormatID       string  `json:"format_id"`
	Ext            string  `json:"ext"`
	URL            string  `json:"url"`
	VCodec         string  `json:"vcodec"`
	ACodec         string  `json:"acodec"`
	Height         int     `json:"height"`
	FormatNote     string  `json:"format_note"`
	Filesize       float64 `json:"filesize"`
	FilesizeApprox float64 `json:"filesize_approx"`
}

// Lookup executes yt-dlp for the provided URL and parses the JSON response.
func (p *YTDLPProvider) Lookup(ctx context.Context, url string) (Metadata, error) {
	payload, err := p.dump(ctx, url)
	if err != nil {
		return Metadata{}, err
	}
	return payload.metadata(), nil
}

// Open re-fetches metadata, selects the requested format and streams it from
// yt-dlp's stdout.
func (p *YTDLPProvider) Open(ctx context.Context, url, itag string) (*Stream, error) {
	payload, err := p.dump(ctx, url)
	if err != nil {
		return nil, err
	}

	meta := payload.metadata()
	format, err := SelectFormat(meta.Formats, itag)
	if err != nil {
		return nil, err
	}

	if p.Stream == nil {
		p.Stream = defaultStreamRunner
	}

	args := append([]string{}, p.StreamArgs...)
	args = append(args, "-f", strconv.Itoa(format.Itag), WatchURL(meta.ID))

	body, err := p.Stream(ctx, p.Binary, args...)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp stream %s itag %d: %w", meta.ID, format.Itag, err)
	}

	return &Stream{
		ReadCloser: body,
		Title:      meta.Title,
		Format:     format,
		Size:       payload.exactSize(format.Itag),
	}, nil
}

// exactSize returns the reported filesize for itag. filesize_approx is not
// used since it cannot back a Content-Length header.
func (p ytdlpPayload) exactSize(itag int) int64 {
	id := strconv.Itoa(itag)
	for _, f := range p.Formats {
		if f.FormatID == id && f.Filesize > 0 {
			return int64(f.Filesize)
		}
	}
	return 0
}

func (p *YTDLPProvider) dump(ctx context.Context, url string) (ytdlpPayload, error) {
	if p == nil {
		return ytdlpPayload{}, ErrProviderUnavailable
	}

	id, err := ParseURL(url)
	if err != nil {
		return ytdlpPayload{}, err
	}

	if p.Run == nil {
		p.Run = defaultCommandRunner
	}

	args := append([]string{}, p.Args...)
	args = append(args, WatchURL(id))

	out, err := p.Run(ctx, p.Binary, args...)
	if err != nil {
		return ytdlpPayload{}, fmt.Errorf("yt-dlp fetch %s: %w", id, err)
	}

	var payload ytdlpPayload
	if err := json.Unmarshal(out, &payload); err != nil {
		return ytdlpPayload{}, fmt.Errorf("parse yt-dlp response: %w", err)
	}
	if payload.Title == "" && len(payload.Formats) == 0 {
		return ytdlpPayload{}, errors.New("yt-dlp returned empty metadata")
	}
	if payload.ID == "" {
		payload.ID = id
	}
	return payload, nil
}

func (p ytdlpPayload) metadata() Metadata {
	seconds := int(math.Round(p.Duration))

	formats := make([]Format, 0, len(p.Formats))
	for _, f := range p.Formats {
		// Only numeric format ids are itags; storyboards and variants like
		// "251-drc" cannot be requested through the download endpoint.
		itag, err := strconv.Atoi(f.FormatID)
		if err != nil {
			continue
		}
		if desc, ok := describeFormat(f.source(itag)); ok {
			formats = append(formats, desc)
		}
	}

	thumbnail := p.Thumbnail
	if n := len(p.Thumbnails); thumbnail == "" && n > 0 {
		thumbnail = p.Thumbnails[n-1].URL
	}

	channel := p.Channel
	if channel == "" {
		channel = p.Uploader
	}

	return Metadata{
		ID:           p.ID,
		Title:        p.Title,
		Thumbnail:    thumbnail,
		Duration:     seconds,
		DurationText: FormatDuration(seconds),
		Channel:      channel,
		Formats:      formats,
	}
}

func (f ytdlpFormat) source(itag int) formatSource {
	hasVideo := f.VCodec != "" && f.VCodec != "none"
	hasAudio := f.ACodec != "" && f.ACodec != "none"

	src := formatSource{
		Itag:      itag,
		HasVideo:  hasVideo,
		HasAudio:  hasAudio,
		Container: f.Ext,
		URL:       f.URL,
	}
	if hasVideo {
		src.VideoQuality = f.FormatNote
	} else {
		src.AudioQuality = f.FormatNote
	}

	switch {
	case f.Filesize > 0:
		src.Bytes = int64(f.Filesize)
	case f.FilesizeApprox > 0:
		src.Bytes = int64(f.FilesizeApprox)
	}

	if f.Ext != "" {
		prefix := "audio/"
		if hasVideo {
			prefix = "video/"
		}
		src.MimeType = prefix + f.Ext
		if t := mime.TypeByExtension("." + f.Ext); strings.HasPrefix(t, prefix) {
			src.MimeType = t
		}
	}
	return src
}

func defaultCommandRunner(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	return cmd.Output()
}

func defaultStreamRunner(ctx context.Context, binary string, args ...string) (io.ReadCloser, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &commandStream{ReadCloser: stdout, cmd: cmd}, nil
}

// commandStream surfaces a non-zero exit of the streaming process as a read
// error so a failed download is not mistaken for a complete one.
type commandStream struct {
	io.ReadCloser
	cmd  *exec.Cmd
	once sync.Once
	err  error
}

func (s *commandStream) Read(b []byte) (int, error) {
	n, err := s.ReadCloser.Read(b)
	if errors.Is(err, io.EOF) {
		if waitErr := s.wait(); waitErr != nil {
			return n, fmt.Errorf("yt-dlp exited: %w", waitErr)
		}
	}
	return n, err
}

func (s *commandStream) Close() error {
	closeErr := s.ReadCloser.Close()
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.wait()
	return closeErr
}

func (s *commandStream) wait() error {
	s.once.Do(func() {
		s.err = s.cmd.Wait()
	})
	return s.err
}

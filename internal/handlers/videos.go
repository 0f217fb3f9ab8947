package handlers

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/tubefetch/server/internal/logging"
	"github.com/tubefetch/server/internal/videos"
)

const (
	maxInfoBodyBytes = 64 << 10
	streamBufferSize = 64 << 10

	msgInvalidURL    = "Invalid YouTube URL"
	msgInvalidBody   = "invalid request body"
	msgUnavailable   = "video services unavailable"
	msgInfoFailed    = "Failed to fetch video information"
	msgDownloadFailed = "Failed to download video"
)

// VideoHandler exposes the metadata and download endpoints.
type VideoHandler struct {
	Metadata VideoMetadataProvider
	Streams  VideoStreamer
}

type videoInfoRequest struct {
	URL string `json:"url"`
}

// Info handles POST /api/video-info.
func (h VideoHandler) Info(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Metadata == nil {
		logger.Error("video metadata provider unavailable")
		respondError(ctx, w, http.StatusInternalServerError, msgUnavailable)
		return
	}

	rawURL, err := decodeInfoRequest(w, r)
	if err != nil {
		logger.Warn("invalid video info payload", "error", err)
		respondError(ctx, w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if !videos.IsValidURL(rawURL) {
		logger.Warn("rejected video url", "url", rawURL)
		respondError(ctx, w, http.StatusBadRequest, msgInvalidURL)
		return
	}

	ctx, span := logging.StartSpan(ctx, "video.lookup", slog.String("video_url", rawURL))
	meta, err := h.Metadata.Lookup(ctx, rawURL)
	if err != nil {
		span.Fail(err)
		span.End()
		logging.FromContext(ctx).Error("fetch video info", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, msgInfoFailed)
		return
	}
	span.End()

	if meta.Formats == nil {
		meta.Formats = []videos.Format{}
	}
	respondJSON(ctx, w, http.StatusOK, meta)
}

// Download handles GET /api/download?url=...&itag=... by streaming the chosen
// format to the client as an attachment.
func (h VideoHandler) Download(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Streams == nil {
		logger.Error("video streamer unavailable")
		respondError(ctx, w, http.StatusInternalServerError, msgUnavailable)
		return
	}

	query := r.URL.Query()
	rawURL := strings.TrimSpace(query.Get("url"))
	itag := strings.TrimSpace(query.Get("itag"))

	if !videos.IsValidURL(rawURL) {
		logger.Warn("rejected video url", "url", rawURL)
		respondError(ctx, w, http.StatusBadRequest, msgInvalidURL)
		return
	}

	ctx, span := logging.StartSpan(ctx, "video.download",
		slog.String("video_url", rawURL),
		slog.String("itag", itag),
	)
	defer span.End()
	logger = logging.FromContext(ctx)

	stream, err := h.Streams.Open(ctx, rawURL, itag)
	if err != nil {
		span.Fail(err)
		logger.Error("open video stream", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, msgDownloadFailed)
		return
	}
	defer stream.Close()

	// Pull the first bytes before committing headers so an upstream that
	// fails immediately still produces a JSON error.
	body := bufio.NewReaderSize(stream, streamBufferSize)
	if _, err := body.Peek(1); err != nil && !errors.Is(err, io.EOF) {
		span.Fail(err)
		logger.Error("read video stream", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, msgDownloadFailed)
		return
	}

	header := w.Header()
	header.Set("Content-Type", stream.ContentType())
	header.Set("Content-Disposition", contentDisposition(stream.Filename()))
	header.Set("X-Content-Type-Options", "nosniff")
	if stream.Size > 0 {
		header.Set("Content-Length", strconv.FormatInt(stream.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	written, err := io.Copy(w, body)
	if err != nil {
		if ctx.Err() != nil {
			logger.Info("client went away during download", "bytes", written)
			return
		}
		span.Fail(err)
		logger.Error("stream video", "error", err, "bytes", written)
		panic(http.ErrAbortHandler)
	}
	logger.Debug("download finished", "bytes", written)
}

func decodeInfoRequest(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxInfoBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return "", err
		}
		return strings.TrimSpace(r.PostForm.Get("url")), nil
	}

	var req videoInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", err
	}
	return strings.TrimSpace(req.URL), nil
}

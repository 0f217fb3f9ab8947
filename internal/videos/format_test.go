package videos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	tests := map[int]string{
		0:     "0:00",
		9:     "0:09",
		59:    "0:59",
		61:    "1:01",
		600:   "10:00",
		3599:  "59:59",
		3600:  "1:00:00",
		3661:  "1:01:01",
		36000: "10:00:00",
		-5:    "0:00",
	}
	for seconds, want := range tests {
		assert.Equal(t, want, FormatDuration(seconds), "seconds=%d", seconds)
	}
}

func TestSizeLabel(t *testing.T) {
	assert.Equal(t, "unknown", SizeLabel(0))
	assert.Equal(t, "unknown", SizeLabel(-1))
	assert.Equal(t, "1.00 MB", SizeLabel(1024*1024))
	assert.Equal(t, "2.50 MB", SizeLabel(5*1024*1024/2))
	assert.Equal(t, "0.00 MB", SizeLabel(1))
}

func TestDescribeFormat(t *testing.T) {
	t.Run("muxed video", func(t *testing.T) {
		f, ok := describeFormat(formatSource{
			Itag:         18,
			HasVideo:     true,
			HasAudio:     true,
			VideoQuality: "360p",
			AudioQuality: "AUDIO_QUALITY_LOW",
			MimeType:     `video/mp4; codecs="avc1.42001E, mp4a.40.2"`,
			Bytes:        3 * 1024 * 1024,
			URL:          "https://cdn.test/18",
		})
		require.True(t, ok)
		assert.Equal(t, Format{
			Itag:      18,
			Type:      KindVideo,
			Quality:   "360p",
			Container: "mp4",
			Size:      "3.00 MB",
			URL:       "https://cdn.test/18",
			MimeType:  "video/mp4",
			Bytes:     3 * 1024 * 1024,
		}, f)
	})

	t.Run("audio only falls back to audio quality", func(t *testing.T) {
		f, ok := describeFormat(formatSource{
			Itag:         251,
			HasAudio:     true,
			AudioQuality: "AUDIO_QUALITY_MEDIUM",
			MimeType:     `audio/webm; codecs="opus"`,
		})
		require.True(t, ok)
		assert.Equal(t, KindAudio, f.Type)
		assert.Equal(t, "AUDIO_QUALITY_MEDIUM", f.Quality)
		assert.Equal(t, "webm", f.Container)
		assert.Equal(t, "unknown", f.Size)
	})

	t.Run("no quality labels", func(t *testing.T) {
		f, ok := describeFormat(formatSource{Itag: 5, HasVideo: true})
		require.True(t, ok)
		assert.Equal(t, "unknown", f.Quality)
		assert.Equal(t, "unknown", f.Container)
	})

	t.Run("explicit container wins", func(t *testing.T) {
		f, ok := describeFormat(formatSource{Itag: 22, HasVideo: true, Container: "mp4", MimeType: "video/3gpp"})
		require.True(t, ok)
		assert.Equal(t, "mp4", f.Container)
	})

	t.Run("neither video nor audio", func(t *testing.T) {
		_, ok := describeFormat(formatSource{Itag: 1, MimeType: "text/vtt"})
		assert.False(t, ok)
	})
}

func TestSelectFormat(t *testing.T) {
	formats := []Format{{Itag: 18}, {Itag: 140}, {Itag: 251}}

	f, err := SelectFormat(formats, "140")
	require.NoError(t, err)
	assert.Equal(t, 140, f.Itag)

	f, err = SelectFormat(formats, " 251 ")
	require.NoError(t, err)
	assert.Equal(t, 251, f.Itag)

	for _, itag := range []string{"", "22", "abc", "18a"} {
		_, err := SelectFormat(formats, itag)
		assert.ErrorIs(t, err, ErrFormatNotFound, "itag=%q", itag)
	}
}

func TestStreamFilenameAndContentType(t *testing.T) {
	s := &Stream{Title: "My Clip", Format: Format{Container: "webm", MimeType: "video/webm"}}
	assert.Equal(t, "My Clip.webm", s.Filename())
	assert.Equal(t, "video/webm", s.ContentType())

	s = &Stream{Format: Format{Container: Unknown}}
	assert.Equal(t, "video", s.Filename())
	assert.Equal(t, "application/octet-stream", s.ContentType())
}

package app

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubefetch/server/internal/config"
	"github.com/tubefetch/server/internal/ui"
	"github.com/tubefetch/server/internal/videos"
)

func TestBuildDependenciesYouTube(t *testing.T) {
	cfg := config.Defaults()

	deps, err := buildDependencies(cfg)
	require.NoError(t, err)

	provider, ok := deps.Metadata.(*videos.YouTubeProvider)
	require.True(t, ok, "expected youtube provider, got %T", deps.Metadata)
	assert.NotNil(t, provider.Client)
	assert.Same(t, provider, deps.Streams)
	assert.Equal(t, config.ExtractorYouTube, deps.Extractor)

	_, err = fs.Stat(deps.Assets, ui.IndexFile)
	assert.NoError(t, err)
}

func TestBuildDependenciesYTDLP(t *testing.T) {
	cfg := config.Defaults()
	cfg.Extractor = config.ExtractorYTDLP
	cfg.YTDLPPath = "/opt/bin/yt-dlp"

	deps, err := buildDependencies(cfg)
	require.NoError(t, err)

	provider, ok := deps.Streams.(*videos.YTDLPProvider)
	require.True(t, ok, "expected yt-dlp provider, got %T", deps.Streams)
	assert.Equal(t, "/opt/bin/yt-dlp", provider.Binary)
}

func TestBuildDependenciesUnknownExtractor(t *testing.T) {
	cfg := config.Defaults()
	cfg.Extractor = "vimeo"

	_, err := buildDependencies(cfg)
	assert.Error(t, err)
}

func TestBuildDependenciesStaticDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ui.IndexFile), []byte("<p>custom</p>"), 0o644))

	cfg := config.Defaults()
	cfg.StaticDir = dir

	deps, err := buildDependencies(cfg)
	require.NoError(t, err)

	data, err := fs.ReadFile(deps.Assets, ui.IndexFile)
	require.NoError(t, err)
	assert.Equal(t, "<p>custom</p>", string(data))

	cfg.StaticDir = filepath.Join(dir, "missing")
	_, err = buildDependencies(cfg)
	assert.Error(t, err)
}

func TestUpstreamClient(t *testing.T) {
	cfg := config.Defaults()
	assert.Nil(t, upstreamClient(cfg))

	cfg.UpstreamProxy = "http://proxy.internal:3128"
	client := upstreamClient(cfg)
	require.NotNil(t, client)
	assert.NotNil(t, client.Transport)
}

package app

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"

	"github.com/tubefetch/server/internal/config"
	"github.com/tubefetch/server/internal/handlers"
	"github.com/tubefetch/server/internal/ui"
	"github.com/tubefetch/server/internal/videos"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(cfg config.Config) (handlers.Dependencies, error) {
	provider, err := newProvider(cfg)
	if err != nil {
		return handlers.Dependencies{}, err
	}

	assets, err := pageAssets(cfg.StaticDir)
	if err != nil {
		return handlers.Dependencies{}, err
	}

	return handlers.Dependencies{
		Metadata:  provider,
		Streams:   provider,
		Assets:    assets,
		Extractor: cfg.Extractor,
	}, nil
}

func newProvider(cfg config.Config) (videos.Provider, error) {
	switch cfg.Extractor {
	case config.ExtractorYTDLP:
		return videos.NewYTDLPProvider(cfg.YTDLPPath), nil
	case config.ExtractorYouTube, "":
		return videos.NewYouTubeProvider(upstreamClient(cfg)), nil
	default:
		return nil, fmt.Errorf("unsupported extractor %q", cfg.Extractor)
	}
}

// upstreamClient returns nil (the library default) unless a proxy is configured.
func upstreamClient(cfg config.Config) *http.Client {
	proxy := cfg.ProxyURL()
	if proxy == nil {
		return nil
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = http.ProxyURL(proxy)
	return &http.Client{Transport: transport}
}

func pageAssets(dir string) (fs.FS, error) {
	if dir == "" {
		return ui.Assets(), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("static dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static dir %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}

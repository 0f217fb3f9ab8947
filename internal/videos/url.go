package videos

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

var watchHosts = map[string]struct{}{
	"youtube.com":        {},
	"www.youtube.com":    {},
	"m.youtube.com":      {},
	"music.youtube.com":  {},
	"gaming.youtube.com": {},
}

var shortHosts = map[string]struct{}{
	"youtu.be":     {},
	"www.youtu.be": {},
}

var idPathPrefixes = []string{"/embed/", "/v/", "/shorts/", "/live/", "/e/"}

// ParseURL checks that raw is a recognised YouTube video URL and returns the
// video id it points at. A missing scheme is treated as https.
func ParseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}

	host := strings.ToLower(u.Hostname())

	var id string
	switch {
	case isShortHost(host):
		id = strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)[0]
	case isWatchHost(host):
		id = u.Query().Get("v")
		if id == "" {
			for _, prefix := range idPathPrefixes {
				if strings.HasPrefix(u.Path, prefix) {
					id = strings.SplitN(strings.TrimPrefix(u.Path, prefix), "/", 2)[0]
					break
				}
			}
		}
	default:
		return "", fmt.Errorf("%w: unsupported host %q", ErrInvalidURL, host)
	}

	if !videoIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: no video id in %q", ErrInvalidURL, raw)
	}
	return id, nil
}

// IsValidURL reports whether ParseURL accepts raw.
func IsValidURL(raw string) bool {
	_, err := ParseURL(raw)
	return err == nil
}

// WatchURL returns the canonical watch page URL for a video id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

func isWatchHost(host string) bool {
	_, ok := watchHosts[host]
	return ok
}

func isShortHost(host string) bool {
	_, ok := shortHosts[host]
	return ok
}

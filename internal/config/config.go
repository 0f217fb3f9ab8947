package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/tubefetch/server/internal/logging"
)

// Supported extraction backends.
const (
	ExtractorYouTube = "youtube"
	ExtractorYTDLP   = "ytdlp"
)

// Config captures the runtime configuration for the tubefetch service.
type Config struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            int           `yaml:"port" envconfig:"PORT"`
	LogLevel        string        `yaml:"log_level" envconfig:"LOG_LEVEL"`
	LogFormat       string        `yaml:"log_format" envconfig:"LOG_FORMAT"`
	Extractor       string        `yaml:"extractor" envconfig:"EXTRACTOR"`
	YTDLPPath       string        `yaml:"ytdlp_path" envconfig:"YTDLP_PATH"`
	UpstreamProxy   string        `yaml:"upstream_proxy" envconfig:"UPSTREAM_PROXY"`
	AllowedOrigins  []string      `yaml:"cors_allowed_origins" envconfig:"CORS_ALLOWED_ORIGINS"`
	StaticDir       string        `yaml:"static_dir" envconfig:"STATIC_DIR"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// Defaults returns the configuration used when neither a file nor the
// environment override a value.
func Defaults() Config {
	return Config{
		Port:            3000,
		LogLevel:        "info",
		LogFormat:       "json",
		Extractor:       ExtractorYouTube,
		YTDLPPath:       "yt-dlp",
		AllowedOrigins:  []string{"*"},
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads the optional YAML file named by CONFIG_PATH and then applies
// environment variable overrides on top of it.
func Load() (Config, error) {
	cfg := Defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_PATH")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}

	cfg.Extractor = strings.ToLower(strings.TrimSpace(cfg.Extractor))

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate checks that configured values are usable.
func (c Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	switch c.Extractor {
	case ExtractorYouTube, ExtractorYTDLP:
	default:
		errs = append(errs, fmt.Errorf("EXTRACTOR must be %q or %q, got %q", ExtractorYouTube, ExtractorYTDLP, c.Extractor))
	}
	if c.Extractor == ExtractorYTDLP && strings.TrimSpace(c.YTDLPPath) == "" {
		errs = append(errs, errors.New("YTDLP_PATH is required for the ytdlp extractor"))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat))
	}
	if c.UpstreamProxy != "" {
		if u, err := url.Parse(c.UpstreamProxy); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("UPSTREAM_PROXY is not a valid URL: %q", c.UpstreamProxy))
		}
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout))
	}

	return errors.Join(errs...)
}

// Address returns the listen address in host:port form.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ProxyURL returns the parsed upstream proxy, or nil when none is configured.
func (c Config) ProxyURL() *url.URL {
	if c.UpstreamProxy == "" {
		return nil
	}
	u, err := url.Parse(c.UpstreamProxy)
	if err != nil {
		return nil
	}
	return u
}

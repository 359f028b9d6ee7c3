package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/vango-dev/viewroute/internal/errors"
)

const (
	// JSONFileName is the name of the JSON configuration file.
	JSONFileName = "viewroute.json"

	// TOMLFileName is the name of the TOML configuration file.
	TOMLFileName = "viewroute.toml"

	// DefaultAddr is the default listen address.
	DefaultAddr = ":8080"

	// DefaultMetricsPath is where Prometheus metrics are served.
	DefaultMetricsPath = "/metrics"

	// DefaultLoadTimeout bounds a single lazy view load.
	DefaultLoadTimeout = "10s"
)

// View sources.
const (
	SourceEmbed = "embed"
	SourceDir   = "dir"
	SourceS3    = "s3"
)

// Environment variables that override file values.
const (
	EnvBaseURL     = "BASE_URL"
	EnvAddr        = "VIEWROUTE_ADDR"
	EnvViewsSource = "VIEWROUTE_VIEWS_SOURCE"
	EnvS3Bucket    = "VIEWROUTE_S3_BUCKET"
	EnvLogLevel    = "VIEWROUTE_LOG_LEVEL"
)

// Config is the complete viewroute configuration.
type Config struct {
	// Base is the deployment base URL. All routes are served under its path.
	Base string `json:"base,omitempty" toml:"base,omitempty"`

	// Addr is the listen address of the server.
	Addr string `json:"addr,omitempty" toml:"addr,omitempty"`

	// Log configures logging.
	Log LogConfig `json:"log,omitempty" toml:"log,omitempty"`

	// Views configures where view modules are loaded from.
	Views ViewsConfig `json:"views,omitempty" toml:"views,omitempty"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `json:"metrics,omitempty" toml:"metrics,omitempty"`

	// Navigation configures navigation behavior.
	Navigation NavigationConfig `json:"navigation,omitempty" toml:"navigation,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" toml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" toml:"format,omitempty"`
}

// ViewsConfig contains view source settings.
type ViewsConfig struct {
	// Source is embed, dir or s3.
	Source string `json:"source,omitempty" toml:"source,omitempty"`

	// Dir is the directory holding view modules (source "dir").
	Dir string `json:"dir,omitempty" toml:"dir,omitempty"`

	// Bucket is the S3 bucket holding view modules (source "s3").
	Bucket string `json:"bucket,omitempty" toml:"bucket,omitempty"`

	// Prefix is the S3 key prefix.
	Prefix string `json:"prefix,omitempty" toml:"prefix,omitempty"`

	// Region is the S3 region.
	Region string `json:"region,omitempty" toml:"region,omitempty"`

	// Endpoint overrides the S3 endpoint (e.g. for MinIO).
	Endpoint string `json:"endpoint,omitempty" toml:"endpoint,omitempty"`

	// PathStyle forces path-style S3 addressing.
	PathStyle bool `json:"pathStyle,omitempty" toml:"pathStyle,omitempty"`

	// Profile selects a named profile from the shared AWS config files.
	// Empty uses AWS_PROFILE or the default profile.
	Profile string `json:"profile,omitempty" toml:"profile,omitempty"`
}

// MetricsConfig contains metrics settings.
type MetricsConfig struct {
	// Enabled exposes Prometheus metrics.
	Enabled bool `json:"enabled" toml:"enabled"`

	// Path is the URL path of the metrics endpoint.
	Path string `json:"path,omitempty" toml:"path,omitempty"`
}

// NavigationConfig contains navigation settings.
type NavigationConfig struct {
	// LoadTimeout bounds a single lazy view load (e.g., "10s").
	LoadTimeout string `json:"loadTimeout,omitempty" toml:"loadTimeout,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Addr: DefaultAddr,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Views: ViewsConfig{
			Source: SourceEmbed,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    DefaultMetricsPath,
		},
		Navigation: NavigationConfig{
			LoadTimeout: DefaultLoadTimeout,
		},
	}
}

// Load reads configuration from path, or from viewroute.json / viewroute.toml
// in the working directory when path is empty. With no file at all the
// defaults are used. Environment overrides are applied in every case.
func Load(path string) (*Config, error) {
	if path == "" {
		path = find(".")
	}

	var cfg *Config
	if path == "" {
		cfg = New()
	} else {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// find returns the config file in dir, preferring JSON.
func find(dir string) string {
	for _, name := range []string{JSONFileName, TOMLFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadFile reads configuration from the specified file path.
// Files ending in .toml are parsed as TOML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("C001").
				WithDetail("No config file at " + path)
		}
		return nil, errors.New("C001").Wrap(err)
	}

	cfg := New()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, cfg); err != nil {
			e := errors.New("C002").Wrap(err)
			var de *toml.DecodeError
			if stderrors.As(err, &de) {
				line, col := de.Position()
				e = e.WithLocation(path, line, col)
			}
			return nil, e
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			e := errors.New("C002").Wrap(err)
			var se *json.SyntaxError
			if stderrors.As(err, &se) {
				line, col := position(data, se.Offset)
				e = e.WithLocation(path, line, col)
			}
			return nil, e
		}
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	before := data[:offset]
	line = bytes.Count(before, []byte("\n")) + 1
	col = int(offset) - (bytes.LastIndexByte(before, '\n') + 1)
	if col < 1 {
		col = 1
	}
	return line, col
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvBaseURL); ok {
		c.Base = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Addr = v
	}
	if v := os.Getenv(EnvViewsSource); v != "" {
		c.Views.Source = v
	}
	if v := os.Getenv(EnvS3Bucket); v != "" {
		c.Views.Bucket = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Views.Source == "" {
		c.Views.Source = SourceEmbed
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Navigation.LoadTimeout == "" {
		c.Navigation.LoadTimeout = DefaultLoadTimeout
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.LogLevel(); err != nil {
		return errors.New("C003").
			WithDetail("log.level must be one of debug, info, warn, error").
			Wrap(err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("C003").
			WithDetail("log.format must be text or json, got " + c.Log.Format)
	}

	switch c.Views.Source {
	case SourceEmbed:
	case SourceDir:
		if c.Views.Dir == "" {
			return errors.New("C003").
				WithDetail("views.dir is required when views.source is dir")
		}
	case SourceS3:
		if c.Views.Bucket == "" {
			return errors.New("C003").
				WithDetail("views.bucket is required when views.source is s3").
				WithSuggestion("Set views.bucket or " + EnvS3Bucket)
		}
	default:
		return errors.New("C003").
			WithDetail("views.source must be embed, dir or s3, got " + c.Views.Source)
	}

	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("C003").
			WithDetail("metrics.path must start with /")
	}

	if d, err := time.ParseDuration(c.Navigation.LoadTimeout); err != nil || d < 0 {
		return errors.New("C003").
			WithDetail("navigation.loadTimeout must be a non-negative duration such as 10s, got " + c.Navigation.LoadTimeout)
	}
	return nil
}

// LoadTimeout returns the parsed lazy load timeout.
func (c *Config) LoadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Navigation.LoadTimeout)
	return d
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.Log.Level))
	return level, err
}

// SaveTo writes the configuration as JSON or TOML, by file extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		data, err = toml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("C002").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("C001").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Package config loads reader settings from a YAML file, a .env file and
// READER_* environment variables, in increasing order of precedence.
package config

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/FocuswithJustin/JuniperReader/core/errors"
	"github.com/FocuswithJustin/JuniperReader/internal/logging"
	"github.com/FocuswithJustin/JuniperReader/internal/theme"
	"github.com/FocuswithJustin/JuniperReader/internal/validation"
	"github.com/FocuswithJustin/JuniperReader/internal/versestore"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "READER_"

// Config holds all reader configuration.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Store   StoreConfig   `yaml:"store"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Theme   ThemeConfig   `yaml:"theme"`
}

// DataConfig locates the bundled dataset and its local copy.
type DataConfig struct {
	Asset    string `yaml:"asset"`     // bundled database, plain or .xz
	Dir      string `yaml:"dir"`       // writable directory for the local copy
	FileName string `yaml:"file_name"` // local file name (default: asset name without .xz)
}

// StoreConfig tunes the verse store.
type StoreConfig struct {
	MaxAttempts  int      `yaml:"max_attempts"`
	MaxSpan      int      `yaml:"max_span"`
	QueryTimeout Duration `yaml:"query_timeout"`
	VerifyDigest bool     `yaml:"verify_digest"`
	KeepMarkup   bool     `yaml:"keep_markup"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port              int      `yaml:"port"`
	AllowedOrigins    []string `yaml:"allowed_origins"`
	APIKey            string   `yaml:"api_key"`
	RateLimitRequests int      `yaml:"rate_limit_requests"` // per minute, 0 disables
	RateLimitBurst    int      `yaml:"rate_limit_burst"`
	FeedInterval      Duration `yaml:"feed_interval"`
	TLSCert           string   `yaml:"tls_cert"`
	TLSKey            string   `yaml:"tls_key"`
}

// LoggingConfig selects log level and format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ThemeConfig sets the initial theme.
type ThemeConfig struct {
	Mode    string `yaml:"mode"`
	Accent  string `yaml:"accent"`  // hex color or palette name; empty keeps the palette accent
	Palette string `yaml:"palette"` // Android colors.xml; empty uses the built-in palette
}

// Duration is a time.Duration written as "5s" or "1m30s" in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	v, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q", value.Line, value.Value)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir: defaultDataDir(),
		},
		Store: StoreConfig{
			MaxAttempts:  versestore.DefaultMaxAttempts,
			MaxSpan:      versestore.DefaultMaxSpan,
			QueryTimeout: Duration(versestore.DefaultQueryTimeout),
		},
		Server: ServerConfig{
			Port:         8080,
			FeedInterval: Duration(30 * time.Second),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Theme: ThemeConfig{
			Mode: "light",
		},
	}
}

func defaultDataDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "juniper-reader")
	}
	return ".juniper-reader"
}

// Load builds the configuration. It reads .env from the working directory
// when present, then the YAML file at path (skipped when path is empty or
// the file does not exist), then applies READER_* overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
			// defaults
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies READER_* environment variables.
func (c *Config) applyEnvOverrides() error {
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		v, ok := os.LookupEnv(EnvPrefix + name)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.NewValidation(EnvPrefix+name, fmt.Sprintf("not a number: %q", v))
		}
		*dst = n
		return nil
	}
	dur := func(name string, dst *Duration) error {
		v, ok := os.LookupEnv(EnvPrefix + name)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return errors.NewValidation(EnvPrefix+name, fmt.Sprintf("not a duration: %q", v))
		}
		*dst = Duration(d)
		return nil
	}
	flag := func(name string, dst *bool) error {
		v, ok := os.LookupEnv(EnvPrefix + name)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return errors.NewValidation(EnvPrefix+name, fmt.Sprintf("not a boolean: %q", v))
		}
		*dst = b
		return nil
	}

	str("ASSET", &c.Data.Asset)
	str("DATA_DIR", &c.Data.Dir)
	str("FILE_NAME", &c.Data.FileName)
	str("API_KEY", &c.Server.APIKey)
	str("TLS_CERT", &c.Server.TLSCert)
	str("TLS_KEY", &c.Server.TLSKey)
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)
	str("THEME_MODE", &c.Theme.Mode)
	str("ACCENT", &c.Theme.Accent)
	str("PALETTE", &c.Theme.Palette)
	if v, ok := os.LookupEnv(EnvPrefix + "ALLOWED_ORIGINS"); ok {
		c.Server.AllowedOrigins = splitList(v)
	}

	for _, err := range []error{
		num("MAX_ATTEMPTS", &c.Store.MaxAttempts),
		num("MAX_SPAN", &c.Store.MaxSpan),
		num("PORT", &c.Server.Port),
		num("RATE_LIMIT", &c.Server.RateLimitRequests),
		num("RATE_BURST", &c.Server.RateLimitBurst),
		dur("QUERY_TIMEOUT", &c.Store.QueryTimeout),
		dur("FEED_INTERVAL", &c.Server.FeedInterval),
		flag("VERIFY_DIGEST", &c.Store.VerifyDigest),
		flag("KEEP_MARKUP", &c.Store.KeepMarkup),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the configuration for values the reader cannot run with.
func (c *Config) Validate() error {
	if c.Data.Dir == "" {
		return errors.NewValidation("data.dir", "must not be empty")
	}
	for _, p := range []struct{ field, path string }{
		{"data.dir", c.Data.Dir},
		{"data.asset", c.Data.Asset},
		{"theme.palette", c.Theme.Palette},
		{"server.tls_cert", c.Server.TLSCert},
		{"server.tls_key", c.Server.TLSKey},
	} {
		if p.path == "" {
			continue
		}
		if err := validation.ValidatePath(p.path); err != nil {
			return &errors.ValidationError{Field: p.field, Message: err.Error(), Err: err}
		}
	}
	if c.Data.FileName != "" {
		if err := validation.ValidateFilename(c.Data.FileName); err != nil {
			return &errors.ValidationError{Field: "data.file_name", Message: err.Error(), Err: err}
		}
	}
	if c.Store.MaxAttempts < 1 {
		return errors.NewValidation("store.max_attempts", "must be at least 1")
	}
	if c.Store.MaxSpan < 1 {
		return errors.NewValidation("store.max_span", "must be at least 1")
	}
	if c.Store.QueryTimeout <= 0 {
		return errors.NewValidation("store.query_timeout", "must be positive")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.NewValidation("server.port", fmt.Sprintf("%d is not a valid port", c.Server.Port))
	}
	if c.Server.APIKey != "" && len(c.Server.APIKey) < 16 {
		return errors.NewValidation("server.api_key", fmt.Sprintf("must be at least 16 characters (got %d)", len(c.Server.APIKey)))
	}
	if (c.Server.TLSCert == "") != (c.Server.TLSKey == "") {
		return errors.NewValidation("server.tls", "cert and key must be set together")
	}
	if c.Server.FeedInterval < Duration(time.Second) {
		return errors.NewValidation("server.feed_interval", "must be at least 1s")
	}
	if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
		return errors.NewValidation("logging.level", fmt.Sprintf("unknown level %q", c.Logging.Level))
	}
	if _, ok := logging.ParseFormat(c.Logging.Format); !ok {
		return errors.NewValidation("logging.format", fmt.Sprintf("unknown format %q", c.Logging.Format))
	}
	if _, err := theme.ParseMode(c.Theme.Mode); err != nil {
		return errors.NewValidation("theme.mode", fmt.Sprintf("unknown mode %q", c.Theme.Mode))
	}
	return nil
}

// YAML renders the configuration as it would be written to a file.
// The API key is masked.
func (c *Config) YAML() ([]byte, error) {
	out := *c
	if out.Server.APIKey != "" {
		out.Server.APIKey = "********"
	}
	return yaml.Marshal(&out)
}

// Location returns the verse store location for the data settings.
func (c *Config) Location() versestore.Location {
	loc := versestore.Location{Dir: c.Data.Dir, FileName: c.Data.FileName}
	if c.Data.Asset != "" {
		loc.Assets = os.DirFS(filepath.Dir(c.Data.Asset))
		loc.AssetName = filepath.Base(c.Data.Asset)
	}
	return loc
}

// StoreOptions returns verse store options for the store settings.
func (c *Config) StoreOptions(logger *slog.Logger) versestore.Options {
	return versestore.Options{
		MaxAttempts:  c.Store.MaxAttempts,
		MaxSpan:      c.Store.MaxSpan,
		QueryTimeout: time.Duration(c.Store.QueryTimeout),
		VerifyDigest: c.Store.VerifyDigest,
		KeepMarkup:   c.Store.KeepMarkup,
		Logger:       logger,
	}
}

// Logger builds a logger for the logging settings.
func (c *Config) Logger() *slog.Logger {
	level, _ := logging.ParseLevel(c.Logging.Level)
	format, _ := logging.ParseFormat(c.Logging.Format)
	return logging.New(os.Stderr, level, format)
}

// ThemeState builds the initial theme state.
func (c *Config) ThemeState() (theme.State, error) {
	state := theme.DefaultState()
	if c.Theme.Palette != "" {
		f, err := os.Open(c.Theme.Palette)
		if err != nil {
			return state, fmt.Errorf("failed to open palette: %w", err)
		}
		defer f.Close()
		p, err := theme.ParsePalette(f)
		if err != nil {
			return state, err
		}
		state.Palette = p
		if accent, ok := p.Color("accent"); ok {
			state.Accent = accent
		}
	}

	mode, err := theme.ParseMode(c.Theme.Mode)
	if err != nil {
		return state, err
	}
	state = state.Apply(theme.SetMode{Mode: mode})

	if c.Theme.Accent != "" {
		accent, ok := state.Palette.Color(c.Theme.Accent)
		if !ok {
			if accent, err = theme.ParseHex(c.Theme.Accent); err != nil {
				return state, err
			}
		}
		state = state.Apply(theme.SetAccent{Accent: accent})
	}
	return state, nil
}

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds everything callboard needs to reach the webhook backend and
// run its own ambient services.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	UploadTimeout time.Duration
	RetryAttempts int
	RetryWrites   bool
	CacheTTL      time.Duration
	PageSize      int
	PollInterval  time.Duration
	LogLevel      string
	LogFile       string
	MetricsAddr   string
	SentryDSN     string

	// Path is the config file that was read, empty when none existed.
	Path string
}

const (
	defaultConfigPath    = "~/.config/callboard/config.toml"
	defaultLogFile       = "~/.local/state/callboard/callboard.log"
	defaultEnvFile       = ".env"
	defaultTimeout       = 30 * time.Second
	defaultUploadTimeout = 120 * time.Second
	defaultRetryAttempts = 3
	defaultCacheTTL      = 5 * time.Minute
	defaultPageSize      = 50
	defaultPollInterval  = 30 * time.Second
	defaultLogLevel      = "info"

	maxPageSize = 1000
)

// Environment variable names.
const (
	EnvBaseURL       = "N8N_WEBHOOK_BASE_URL"
	EnvTimeout       = "API_TIMEOUT_SECONDS"
	EnvUploadTimeout = "UPLOAD_TIMEOUT_SECONDS"
	EnvRetryAttempts = "API_RETRY_ATTEMPTS"
	EnvRetryWrites   = "API_RETRY_WRITES"
	EnvCacheTTL      = "CACHE_TTL_MINUTES"
	EnvPageSize      = "ITEMS_PER_PAGE"
	EnvLogLevel      = "LOG_LEVEL"
	EnvLogFile       = "LOG_FILE"
	EnvMetricsAddr   = "METRICS_ADDR"
	EnvSentryDSN     = "SENTRY_DSN"
)

var (
	// ErrMissingBaseURL is returned by Validate when no webhook base URL is configured.
	ErrMissingBaseURL = errors.New("webhook base url is not configured (set " + EnvBaseURL + ")")
	// ErrInvalid wraps every other validation failure.
	ErrInvalid = errors.New("invalid configuration")
)

// Default returns the built-in configuration. BaseURL is deliberately empty.
func Default() Config {
	return Config{
		Timeout:       defaultTimeout,
		UploadTimeout: defaultUploadTimeout,
		RetryAttempts: defaultRetryAttempts,
		CacheTTL:      defaultCacheTTL,
		PageSize:      defaultPageSize,
		PollInterval:  defaultPollInterval,
		LogLevel:      defaultLogLevel,
		LogFile:       mustExpand(defaultLogFile),
	}
}

// Load layers the TOML config file, a .env file in the working directory and
// the process environment over the defaults, in that order. It does not
// validate; call Validate once command line overrides are applied.
func Load(path string) (Config, error) {
	return load(path, defaultEnvFile, os.LookupEnv)
}

func load(path, envFile string, lookup func(string) (string, bool)) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := cfg.applyFile(resolved); err != nil {
		return Config{}, err
	}

	dotenv, err := readEnvFile(envFile)
	if err != nil {
		return Config{}, err
	}
	env := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.applyEnv(env); err != nil {
		return Config{}, err
	}

	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.LogFile = mustExpand(cfg.LogFile)
	return cfg, nil
}

type fileConfig struct {
	BaseURL              string `toml:"base_url"`
	TimeoutSeconds       *int   `toml:"timeout_seconds"`
	UploadTimeoutSeconds *int   `toml:"upload_timeout_seconds"`
	RetryAttempts        *int   `toml:"retry_attempts"`
	RetryWrites          *bool  `toml:"retry_writes"`
	CacheTTLMinutes      *int   `toml:"cache_ttl_minutes"`
	ItemsPerPage         *int   `toml:"items_per_page"`
	PollIntervalSeconds  *int   `toml:"poll_interval_seconds"`
	LogLevel             string `toml:"log_level"`
	LogFile              string `toml:"log_file"`
	MetricsAddr          string `toml:"metrics_addr"`
	SentryDSN            string `toml:"sentry_dsn"`
}

func (c *Config) applyFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	c.Path = path

	setString(&c.BaseURL, raw.BaseURL)
	setString(&c.LogLevel, raw.LogLevel)
	setString(&c.LogFile, raw.LogFile)
	setString(&c.MetricsAddr, raw.MetricsAddr)
	setString(&c.SentryDSN, raw.SentryDSN)
	if raw.TimeoutSeconds != nil {
		c.Timeout = seconds(*raw.TimeoutSeconds)
	}
	if raw.UploadTimeoutSeconds != nil {
		c.UploadTimeout = seconds(*raw.UploadTimeoutSeconds)
	}
	if raw.RetryAttempts != nil {
		c.RetryAttempts = *raw.RetryAttempts
	}
	if raw.RetryWrites != nil {
		c.RetryWrites = *raw.RetryWrites
	}
	if raw.CacheTTLMinutes != nil {
		c.CacheTTL = minutes(*raw.CacheTTLMinutes)
	}
	if raw.ItemsPerPage != nil {
		c.PageSize = *raw.ItemsPerPage
	}
	if raw.PollIntervalSeconds != nil {
		c.PollInterval = seconds(*raw.PollIntervalSeconds)
	}
	return nil
}

func (c *Config) applyEnv(env func(string) (string, bool)) error {
	strs := map[string]*string{
		EnvBaseURL:     &c.BaseURL,
		EnvLogLevel:    &c.LogLevel,
		EnvLogFile:     &c.LogFile,
		EnvMetricsAddr: &c.MetricsAddr,
		EnvSentryDSN:   &c.SentryDSN,
	}
	for key, dst := range strs {
		if v, ok := env(key); ok {
			setString(dst, v)
		}
	}

	ints := []struct {
		key   string
		apply func(int)
	}{
		{EnvTimeout, func(n int) { c.Timeout = seconds(n) }},
		{EnvUploadTimeout, func(n int) { c.UploadTimeout = seconds(n) }},
		{EnvRetryAttempts, func(n int) { c.RetryAttempts = n }},
		{EnvCacheTTL, func(n int) { c.CacheTTL = minutes(n) }},
		{EnvPageSize, func(n int) { c.PageSize = n }},
	}
	for _, it := range ints {
		v, ok := env(it.key)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parse %s: %w", it.key, err)
		}
		it.apply(n)
	}

	if v, ok := env(EnvRetryWrites); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvRetryWrites, err)
		}
		c.RetryWrites = b
	}
	return nil
}

// Validate reports the first problem that would make the client unusable.
func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return ErrMissingBaseURL
	}
	switch {
	case c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalid)
	case c.UploadTimeout <= 0:
		return fmt.Errorf("%w: upload timeout must be positive", ErrInvalid)
	case c.RetryAttempts < 1:
		return fmt.Errorf("%w: retry attempts must be at least 1", ErrInvalid)
	case c.CacheTTL < 0:
		return fmt.Errorf("%w: cache ttl cannot be negative", ErrInvalid)
	case c.PageSize < 1 || c.PageSize > maxPageSize:
		return fmt.Errorf("%w: items per page must be between 1 and %d", ErrInvalid, maxPageSize)
	case c.PollInterval <= 0:
		return fmt.Errorf("%w: poll interval must be positive", ErrInvalid)
	}
	return nil
}

// Entry is one labelled configuration value for display.
type Entry struct {
	Name  string
	Value string
}

// Entries lists the effective settings with secrets masked.
func (c Config) Entries() []Entry {
	source := c.Path
	if source == "" {
		source = "(defaults and environment)"
	}
	cache := "disabled"
	if c.CacheTTL > 0 {
		cache = c.CacheTTL.String()
	}
	metrics := c.MetricsAddr
	if metrics == "" {
		metrics = "disabled"
	}
	sentry := "disabled"
	if c.SentryDSN != "" {
		sentry = "enabled"
	}
	return []Entry{
		{"Config file", source},
		{"Webhook base URL", c.BaseURL},
		{"Request timeout", c.Timeout.String()},
		{"Upload timeout", c.UploadTimeout.String()},
		{"Retry attempts", strconv.Itoa(c.RetryAttempts)},
		{"Retry writes", strconv.FormatBool(c.RetryWrites)},
		{"Cache TTL", cache},
		{"Items per page", strconv.Itoa(c.PageSize)},
		{"Poll interval", c.PollInterval.String()},
		{"Log level", c.LogLevel},
		{"Log file", c.LogFile},
		{"Metrics address", metrics},
		{"Sentry", sentry},
	}
}

func readEnvFile(path string) (map[string]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	vals, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read env file: %w", err)
	}
	return vals, nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

func minutes(n int) time.Duration { return time.Duration(n) * time.Minute }

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

// Package config loads callboard's configuration.
//
// # Resolution Order
//
// Load starts from built-in defaults and layers, lowest to highest priority:
//
//  1. The TOML file (explicit path, or ~/.config/callboard/config.toml)
//  2. A .env file in the working directory
//  3. The process environment
//
// Command line flags are applied by the caller afterwards. A missing config
// or .env file is not an error. Validate must be called last; it returns
// ErrMissingBaseURL when N8N_WEBHOOK_BASE_URL was never provided, which is
// fatal at startup.
//
// # Default Values
//
//   - Request timeout: 30s (API_TIMEOUT_SECONDS)
//   - Upload timeout: 120s (UPLOAD_TIMEOUT_SECONDS)
//   - Retry attempts: 3 (API_RETRY_ATTEMPTS)
//   - Retry writes: false (API_RETRY_WRITES)
//   - Cache TTL: 5 minutes (CACHE_TTL_MINUTES, 0 disables)
//   - Items per page: 50 (ITEMS_PER_PAGE)
//   - Poll interval: 30s
//   - Log level: info (LOG_LEVEL)
//   - Log file: ~/.local/state/callboard/callboard.log (LOG_FILE)
//   - Metrics listener: disabled (METRICS_ADDR)
//   - Sentry: disabled (SENTRY_DSN)
//
// # TOML Format
//
//	base_url = "https://n8n.example.com/webhook"
//	timeout_seconds = 30
//	upload_timeout_seconds = 120
//	retry_attempts = 3
//	retry_writes = false
//	cache_ttl_minutes = 5
//	items_per_page = 50
//	poll_interval_seconds = 30
//	log_level = "info"
//	log_file = "~/.local/state/callboard/callboard.log"
//	metrics_addr = "127.0.0.1:9464"
//	sentry_dsn = ""
//
// Every field is optional. Tilde expansion is applied to the log file.
package config

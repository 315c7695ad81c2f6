package config

import "time"

// AppConfig holds the global application configuration
type AppConfig struct {
	InputDir           string           `yaml:"input_dir"`                      // Directory of input CSV files
	OutputDir          string           `yaml:"output_dir"`                     // Directory for the enriched CSV
	LogDir             string           `yaml:"log_dir,omitempty"`              // Directory for per-run log files
	URLColumn          string           `yaml:"url_column,omitempty"`           // Name of the URL column ("page_link")
	UserAgent          string           `yaml:"user_agent,omitempty"`           // User-Agent header for probes and fetches
	ProbeTimeout       time.Duration    `yaml:"probe_timeout,omitempty"`        // Timeout for scheme probes (HEAD)
	FetchTimeout       time.Duration    `yaml:"fetch_timeout,omitempty"`        // Overall timeout for a single page GET
	MaxAttempts        int              `yaml:"max_attempts,omitempty"`         // Total fetch attempts per page (initial + retries)
	RetryDelay         time.Duration    `yaml:"retry_delay,omitempty"`          // Fixed delay between fetch attempts
	ProgressLogEvery   int              `yaml:"progress_log_every,omitempty"`   // Log column progress every N rows
	HTTPClientSettings HTTPClientConfig `yaml:"http_client_settings,omitempty"` // Transport tuning for the shared client
}

// HTTPClientConfig holds settings for the shared HTTP client
type HTTPClientConfig struct {
	MaxIdleConns          int           `yaml:"max_idle_conns,omitempty"`          // Max total idle connections
	MaxIdleConnsPerHost   int           `yaml:"max_idle_conns_per_host,omitempty"` // Max idle connections per host
	IdleConnTimeout       time.Duration `yaml:"idle_conn_timeout,omitempty"`       // Timeout for idle connections
	TLSHandshakeTimeout   time.Duration `yaml:"tls_handshake_timeout,omitempty"`   // Timeout for TLS handshake
	ExpectContinueTimeout time.Duration `yaml:"expect_continue_timeout,omitempty"` // Timeout for 100-continue
	ForceAttemptHTTP2     *bool         `yaml:"force_attempt_http2,omitempty"`     // Explicitly enable/disable HTTP/2 attempt (nil=default)
	DialerTimeout         time.Duration `yaml:"dialer_timeout,omitempty"`          // Connection dial timeout
	DialerKeepAlive       time.Duration `yaml:"dialer_keep_alive,omitempty"`       // TCP keep-alive interval
}

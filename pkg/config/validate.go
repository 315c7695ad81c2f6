package config

import (
	"fmt"
	"time"

	"news-enricher/pkg/utils"
)

// DefaultURLColumn is the input column holding each record's article URL.
const DefaultURLColumn = "page_link"

// Validate checks AppConfig fields and applies sensible defaults.
// Returns collected warnings and any fatal error.
// Modifies receiver in place to apply defaults.
func (c *AppConfig) Validate() (warnings []string, err error) {
	// InputDir is the only field with no usable default
	if c.InputDir == "" {
		return warnings, fmt.Errorf("%w: input_dir is required", utils.ErrConfigValidation)
	}

	// OutputDir
	if c.OutputDir == "" {
		warnings = append(warnings, "output_dir is empty, defaulting to './output'")
		c.OutputDir = "./output"
	}

	// LogDir
	if c.LogDir == "" {
		warnings = append(warnings, "log_dir is empty, defaulting to './logs'")
		c.LogDir = "./logs"
	}

	// URLColumn
	if c.URLColumn == "" {
		c.URLColumn = DefaultURLColumn
	}

	// ProbeTimeout
	if c.ProbeTimeout < 0 {
		warnings = append(warnings, "probe_timeout cannot be negative, using default 5s")
		c.ProbeTimeout = 0
	}
	if c.ProbeTimeout == 0 {
		c.ProbeTimeout = 5 * time.Second
	}

	// FetchTimeout
	if c.FetchTimeout < 0 {
		warnings = append(warnings, "fetch_timeout cannot be negative, using default 6s")
		c.FetchTimeout = 0
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = 6 * time.Second
	}

	// MaxAttempts
	if c.MaxAttempts < 0 {
		return warnings, fmt.Errorf("%w: max_attempts cannot be negative", utils.ErrConfigValidation)
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}

	// RetryDelay
	if c.RetryDelay < 0 {
		warnings = append(warnings, "retry_delay cannot be negative, using default 1s")
		c.RetryDelay = 0
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = 1 * time.Second
	}

	// ProgressLogEvery
	if c.ProgressLogEvery <= 0 {
		c.ProgressLogEvery = 10
	}

	return warnings, nil
}

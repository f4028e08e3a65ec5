package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Reports ReportsConfig `mapstructure:"reports"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds the reporting API connection details
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// Token is a pre-signed bearer token. TokenFile is read when Token is
	// empty.
	Token     string        `mapstructure:"token"`
	TokenFile string        `mapstructure:"token_file"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// ReportsConfig holds defaults for report downloads
type ReportsConfig struct {
	VendorNumber string `mapstructure:"vendor_number"`
	RegionCode   string `mapstructure:"region_code"`
	// Concurrency bounds parallel downloads when several dates are requested.
	Concurrency int    `mapstructure:"concurrency"`
	Output      string `mapstructure:"output"`
}

// FilterConfig contains named row filter expressions
type FilterConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

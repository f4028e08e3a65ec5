package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ASC_API_TOKEN.
const EnvPrefix = "ASC"

// Load loads the configuration from file, .env and the environment. A
// missing config file is only an error when configPath names one.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set default values
	setDefaults(v)
	bindEnv(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".ascreports"))
		}

		// Check /etc
		v.AddConfigPath("/etc/ascreports/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := resolveToken(&cfg.API); err != nil {
		return nil, err
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv exports the variables of an optional .env file. Variables
// already set in the environment win.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("error loading %s: %w", path, err)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.base_url", "https://api.appstoreconnect.apple.com/v1")
	v.SetDefault("api.token", "")
	v.SetDefault("api.token_file", "")
	v.SetDefault("api.timeout", 60*time.Second)
	v.SetDefault("api.user_agent", "ascreports")

	// Report defaults
	v.SetDefault("reports.vendor_number", "")
	v.SetDefault("reports.region_code", "ZZ")
	v.SetDefault("reports.concurrency", 4)
	v.SetDefault("reports.output", "table")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// bindEnv maps ASC_* variables onto config keys
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// short name used by existing scripts
	_ = v.BindEnv("reports.vendor_number", EnvPrefix+"_REPORTS_VENDOR_NUMBER", EnvPrefix+"_VENDORID")
}

// resolveToken reads the bearer token from TokenFile when it is not set
// inline
func resolveToken(cfg *APIConfig) error {
	if cfg.Token != "" || cfg.TokenFile == "" {
		return nil
	}

	data, err := os.ReadFile(cfg.TokenFile)
	if err != nil {
		return fmt.Errorf("error reading api.token_file: %w", err)
	}
	cfg.Token = strings.TrimSpace(string(data))
	return nil
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api.base_url: %s", cfg.API.BaseURL)
	}

	if cfg.API.Token == "" {
		return fmt.Errorf("api.token or api.token_file must be set (or %s_API_TOKEN)", EnvPrefix)
	}

	if cfg.API.Timeout < 0 {
		return fmt.Errorf("invalid api.timeout: %s", cfg.API.Timeout)
	}

	if cfg.Reports.Concurrency < 1 {
		return fmt.Errorf("invalid reports.concurrency: %d (must be at least 1)", cfg.Reports.Concurrency)
	}

	validOutputs := map[string]bool{
		"table": true,
		"json":  true,
		"csv":   true,
	}
	if !validOutputs[cfg.Reports.Output] {
		return fmt.Errorf("invalid reports.output: %s", cfg.Reports.Output)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

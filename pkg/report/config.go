package report

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config contains all configuration options for the report builder
type Config struct {
	// CacheMaxSize is the maximum number of templates to cache. 0 disables caching.
	CacheMaxSize int
	// CacheTTL is the time-to-live for cached templates. 0 means no expiration.
	CacheTTL time.Duration
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string
	// StrictMode turns defensive fallbacks (bad heading level, missing
	// template file) into errors instead of logged warnings.
	StrictMode bool
	// TemplatePath overrides the built-in blank template for new reports.
	TemplatePath string
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func init() {
	// Initialize global config from environment on first use
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		CacheMaxSize: 100,
		CacheTTL:     0,
		LogLevel:     "info",
		StrictMode:   false,
		TemplatePath: "",
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	// REPORT_CACHE_MAX_SIZE
	if val := os.Getenv("REPORT_CACHE_MAX_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			config.CacheMaxSize = size
		}
	}

	// REPORT_CACHE_TTL
	if val := os.Getenv("REPORT_CACHE_TTL"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.CacheTTL = duration
		}
	}

	// REPORT_LOG_LEVEL
	if val := os.Getenv("REPORT_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	// REPORT_STRICT_MODE
	if val := os.Getenv("REPORT_STRICT_MODE"); val != "" {
		config.StrictMode = parseBool(val)
	}

	// REPORT_TEMPLATE
	if val := os.Getenv("REPORT_TEMPLATE"); val != "" {
		config.TemplatePath = val
	}

	return config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.CacheMaxSize < 0 {
		return errors.New("cache max size cannot be negative")
	}

	if c.CacheTTL < 0 {
		return errors.New("cache TTL cannot be negative")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}

	if !validLogLevels[c.LogLevel] {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	if c.TemplatePath != "" {
		ext := strings.ToLower(filepath.Ext(c.TemplatePath))
		if ext != ".docx" && ext != ".doc" {
			return errors.New("template path must point to a .docx or .doc file")
		}
	}

	return nil
}

// GetGlobalConfig returns the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	// Return a copy to prevent modification
	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	// Update logger and cache based on new config (outside the lock to
	// avoid deadlock)
	UpdateLoggerFromConfig()
	updateDefaultCacheFromConfig()
}

// parseBool parses a boolean value from a string
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

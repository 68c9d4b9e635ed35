package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultMaxFileSize = 50 * 1024 * 1024 // 50MB
	DefaultCacheTTL    = time.Hour

	// Directory permissions
	DefaultDirPerm = 0o750

	// EnvPrefix prefixes every environment variable, e.g. ENROLL_PDF_PORT.
	EnvPrefix = "ENROLL_PDF"
)

// ErrVersionRequested is returned when --version is on the command line.
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the enrollment document service
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Template and output locations
	TemplateDirectory string
	TemplatesURL      string // optional HTTP asset server, takes precedence over the directory
	OutputDirectory   string

	// Collaborators
	RedisAddr  string // optional template cache
	CacheTTL   time.Duration
	ExtractURL string // AI extraction service

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	LogFormat   string
	MaxFileSize int64 // Maximum template size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:              ModeStdio, // Default to stdio mode for MCP compatibility
		Host:              DefaultHost,
		Port:              DefaultPort,
		TemplateDirectory: filepath.Join(currentDir, "templates"),
		OutputDirectory:   filepath.Join(currentDir, "output"),
		CacheTTL:          DefaultCacheTTL,
		Version:           "1.0.0",
		ServerName:        "enrollment-pdf",
		LogLevel:          DefaultLogLevel,
		LogFormat:         DefaultLogFormat,
		MaxFileSize:       DefaultMaxFileSize,
	}
}

// LoadFromFlags parses the process command line and environment.
func LoadFromFlags() (*Config, error) {
	return Load(os.Args[0], os.Args[1:])
}

// Load parses args and ENROLL_PDF_* environment variables on top of the
// defaults. Flags take precedence over the environment.
func Load(program string, args []string) (*Config, error) {
	cfg := DefaultConfig()

	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return nil, ErrVersionRequested
		}
	}

	v := viper.New()
	setupViperEnvironment(v, cfg)

	flags := pflag.NewFlagSet(program, pflag.ContinueOnError)
	defineCommandLineFlags(flags, cfg)
	flags.Usage = func() { usage(program, flags) }
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	populateConfigFromViper(v, cfg)

	for _, dir := range []*string{&cfg.TemplateDirectory, &cfg.OutputDirectory} {
		if *dir == "" {
			continue
		}
		if abs, err := filepath.Abs(*dir); err == nil {
			*dir = abs
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("templates", cfg.TemplateDirectory)
	v.SetDefault("templatesurl", cfg.TemplatesURL)
	v.SetDefault("output", cfg.OutputDirectory)
	v.SetDefault("redis", cfg.RedisAddr)
	v.SetDefault("cachettl", cfg.CacheTTL)
	v.SetDefault("extracturl", cfg.ExtractURL)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("logformat", cfg.LogFormat)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(flags *pflag.FlagSet, cfg *Config) {
	flags.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	flags.String("host", cfg.Host, "Server host address (server mode only)")
	flags.Int("port", cfg.Port, "Server port (server mode only)")
	flags.String("templates", cfg.TemplateDirectory, "Directory containing the blank template PDFs")
	flags.String("templatesurl", cfg.TemplatesURL, "Base URL serving the template PDFs (overrides --templates)")
	flags.String("output", cfg.OutputDirectory, "Directory generated documents are written to")
	flags.String("redis", cfg.RedisAddr, "Redis address for the template cache (disabled when empty)")
	flags.Duration("cachettl", cfg.CacheTTL, "Template cache lifetime")
	flags.String("extracturl", cfg.ExtractURL, "Base URL of the document extraction service")
	flags.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.String("logformat", cfg.LogFormat, "Log format (json, console)")
	flags.Int64("maxfilesize", cfg.MaxFileSize, "Maximum template file size in bytes")
}

// usage prints the custom usage message
func usage(program string, flags *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage of %s:\n", program)
	fmt.Fprintf(os.Stderr, "\nEnrollment PDF - fills insurer enrollment templates from applicant records\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flags.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  %s --templates=/srv/templates                  # stdio mode (default)\n", program)
	fmt.Fprintf(os.Stderr, "  %s --mode=server --port=8081 --redis=:6379     # HTTP server with template cache\n", program)
	fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
	fmt.Fprintf(os.Stderr, "  %s_MODE, %s_PORT, %s_TEMPLATES, %s_REDIS, ... (one per flag)\n",
		EnvPrefix, EnvPrefix, EnvPrefix, EnvPrefix)
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString("mode")
	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.TemplateDirectory = v.GetString("templates")
	cfg.TemplatesURL = v.GetString("templatesurl")
	cfg.OutputDirectory = v.GetString("output")
	cfg.RedisAddr = v.GetString("redis")
	cfg.CacheTTL = v.GetDuration("cachettl")
	cfg.ExtractURL = v.GetString("extracturl")
	cfg.LogLevel = v.GetString("loglevel")
	cfg.LogFormat = v.GetString("logformat")
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Port only matters in server mode
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.TemplatesURL != "" {
		if err := validateURL("templates URL", c.TemplatesURL); err != nil {
			return err
		}
	} else {
		if c.TemplateDirectory == "" {
			return errors.New("template directory cannot be empty")
		}
		info, err := os.Stat(c.TemplateDirectory)
		if err != nil {
			return fmt.Errorf("cannot access template directory %s: %w", c.TemplateDirectory, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("template path %s is not a directory", c.TemplateDirectory)
		}
	}

	if c.OutputDirectory == "" {
		return errors.New("output directory cannot be empty")
	}
	if err := os.MkdirAll(c.OutputDirectory, DefaultDirPerm); err != nil {
		return fmt.Errorf("cannot create output directory %s: %w", c.OutputDirectory, err)
	}

	if c.ExtractURL != "" {
		if err := validateURL("extraction URL", c.ExtractURL); err != nil {
			return err
		}
	}

	if c.CacheTTL < 0 {
		return errors.New("cache TTL cannot be negative")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.LogFormat)
	}

	return nil
}

func validateURL(what, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s: %s", what, raw)
	}
	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheEnabled reports whether templates are cached in Redis.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, Templates: %s, TemplatesURL: %s, Output: %s, Redis: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.TemplateDirectory, c.TemplatesURL, c.OutputDirectory, c.RedisAddr, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the service runs as an HTTP server
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the service runs as an MCP stdio server
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

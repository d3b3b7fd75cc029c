package config

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-dev/traverse/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "traverse.json"

	// DefaultAddress is the default bridge server address.
	DefaultAddress = "localhost:4000"

	// DefaultShellDir is the default asset directory.
	DefaultShellDir = "dist"

	// DefaultShellDocument is the default shell document name.
	DefaultShellDocument = "index.html"

	// DefaultWSPath is the default WebSocket endpoint path.
	DefaultWSPath = "/_traverse/ws"

	// DefaultMetricsPath is the default metrics endpoint path.
	DefaultMetricsPath = "/_traverse/metrics"
)

// Config represents the complete traverse.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Address is the listen address of the bridge server.
	Address string `json:"address,omitempty"`

	// WSPath is the WebSocket endpoint path.
	WSPath string `json:"wsPath,omitempty"`

	// Shell contains shell document and asset configuration.
	Shell ShellConfig `json:"shell,omitempty"`

	// Metrics contains metrics endpoint configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains tracing configuration.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ShellConfig contains shell document and asset serving settings.
type ShellConfig struct {
	// Dir is the local directory containing the built client assets.
	// Ignored when S3 is configured.
	Dir string `json:"dir,omitempty"`

	// Document is the shell document name within the asset source.
	Document string `json:"document,omitempty"`

	// S3 configures an S3 bucket as the asset source instead of a
	// local directory.
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config points the asset source at an S3 bucket.
type S3Config struct {
	// Bucket is the bucket name. Empty disables S3.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is the key prefix inside the bucket.
	Prefix string `json:"prefix,omitempty"`

	// Region overrides the SDK's default region resolution.
	Region string `json:"region,omitempty"`
}

// MetricsConfig contains metrics endpoint settings.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is exposed.
	Enabled bool `json:"enabled,omitempty"`

	// Path is the metrics endpoint path.
	Path string `json:"path,omitempty"`
}

// TracingConfig contains tracing settings.
type TracingConfig struct {
	// Enabled controls whether navigation spans are recorded.
	Enabled bool `json:"enabled,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is the minimum level: "debug", "info", "warn", or "error".
	Level string `json:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Address: DefaultAddress,
		WSPath:  DefaultWSPath,
		Shell: ShellConfig{
			Dir:      DefaultShellDir,
			Document: DefaultShellDocument,
		},
		Metrics: MetricsConfig{
			Path: DefaultMetricsPath,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for traverse.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("T060").
				WithDetail("No traverse.json found in " + filepath.Dir(path))
		}
		return nil, errors.New("T061").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("T061").
			WithDetail("Failed to parse traverse.json: " + err.Error()).
			WithSuggestion("Check that traverse.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("T061").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("T061").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Address == "" {
		c.Address = DefaultAddress
	}
	if c.WSPath == "" {
		c.WSPath = DefaultWSPath
	}
	if c.Shell.Dir == "" {
		c.Shell.Dir = DefaultShellDir
	}
	if c.Shell.Document == "" {
		c.Shell.Document = DefaultShellDocument
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Address); err != nil {
		return errors.New("T061").
			WithDetail("Address must be host:port, got " + c.Address)
	}
	if !strings.HasPrefix(c.WSPath, "/") {
		return errors.New("T061").
			WithDetail("wsPath must start with /, got " + c.WSPath)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("T061").
			WithDetail("log.level must be debug, info, warn, or error, got " + c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("T061").
			WithDetail("log.format must be text or json, got " + c.Log.Format)
	}
	return nil
}

// ShellDirPath returns the absolute path to the asset directory.
func (c *Config) ShellDirPath() string {
	if filepath.IsAbs(c.Shell.Dir) {
		return c.Shell.Dir
	}
	return filepath.Join(c.Dir(), c.Shell.Dir)
}

// UseS3 reports whether assets come from S3 rather than a local
// directory.
func (c *Config) UseS3() bool {
	return c.Shell.S3.Bucket != ""
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing traverse.json, or an error if not
// found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("T060").
				WithDetail("No traverse.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working
// directory, walking up to the project root.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}

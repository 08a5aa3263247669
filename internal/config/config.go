package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/google/renameio/v2/maybe"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Akaiko1/file-lister/internal/category"
)

const (
	appDirName = "file-lister"
	envPrefix  = "FILELISTER"

	DefaultWindowWidth  = 830
	DefaultWindowHeight = 600
)

// WindowConfig holds the main window geometry.
type WindowConfig struct {
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	Path  string `mapstructure:"path" yaml:"path,omitempty"`
}

// Config holds the listing defaults restored at startup and the ambient settings.
type Config struct {
	LastDirectory  string        `mapstructure:"last_directory" yaml:"last_directory"`
	Recursive      bool          `mapstructure:"recursive" yaml:"recursive"`
	ShowExtensions bool          `mapstructure:"show_extensions" yaml:"show_extensions"`
	Category       string        `mapstructure:"category" yaml:"category"`
	Window         WindowConfig  `mapstructure:"window" yaml:"window"`
	Logging        LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// DefaultConfig returns the settings used when no config file exists: both
// listing checkboxes on, every category, info logging.
func DefaultConfig() *Config {
	return &Config{
		Recursive:      true,
		ShowExtensions: true,
		Category:       category.All.String(),
		Window: WindowConfig{
			Width:  DefaultWindowWidth,
			Height: DefaultWindowHeight,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/file-lister/config.yaml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appDirName, "config.yaml")
}

// Load reads the YAML file at path (DefaultPath when empty), overlays
// FILELISTER_* environment variables, and fills defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault("last_directory", def.LastDirectory)
	v.SetDefault("recursive", def.Recursive)
	v.SetDefault("show_extensions", def.ShowExtensions)
	v.SetDefault("category", def.Category)
	v.SetDefault("window.width", def.Window.Width)
	v.SetDefault("window.height", def.Window.Height)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.path", def.Logging.Path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later, far from the file.
func (c *Config) Validate() error {
	if _, err := category.Parse(c.Category); err != nil {
		return fmt.Errorf("invalid category in config: %w", err)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	return nil
}

// CategoryValue returns the parsed category, falling back to All.
func (c *Config) CategoryValue() category.Category {
	cat, err := category.Parse(c.Category)
	if err != nil {
		return category.All
	}
	return cat
}

// Save writes cfg as YAML to path (DefaultPath when empty), creating the
// parent directory. Outside Windows the file is replaced in one rename.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := maybe.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

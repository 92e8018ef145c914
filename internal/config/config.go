// Package config manages application configuration from files and environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/klytics/fontkit/internal/formats"
)

// Config holds the application configuration.
type Config struct {
	InputDir  string `mapstructure:"input_dir" yaml:"input_dir"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	Font      struct {
		Name string  `mapstructure:"name" yaml:"name"`
		Size float64 `mapstructure:"size" yaml:"size"`
	} `mapstructure:"font" yaml:"font"`
	Policy struct {
		Word  string `mapstructure:"word" yaml:"word"`
		Excel string `mapstructure:"excel" yaml:"excel"`
	} `mapstructure:"policy" yaml:"policy"`
	Concurrency   int  `mapstructure:"concurrency" yaml:"concurrency"`
	SanitizeNames bool `mapstructure:"sanitize_names" yaml:"sanitize_names"`
	Audit         struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"audit" yaml:"audit"`
	Watch struct {
		DebounceMs int `mapstructure:"debounce_ms" yaml:"debounce_ms"`
	} `mapstructure:"watch" yaml:"watch"`
}

// FontSpec returns the configured target font.
func (c *Config) FontSpec() formats.FontSpec {
	return formats.FontSpec{Name: c.Font.Name, Size: c.Font.Size}
}

// JournalPath returns the audit journal path with a leading ~ expanded, or
// "" when the journal is disabled.
func (c *Config) JournalPath() string {
	return expandHome(c.Audit.File)
}

// EnsureDirs creates the input and output directories if they are missing.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.InputDir, c.OutputDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("could not create directory %s: %w", dir, err)
		}
	}
	return nil
}

// setDefaults registers the default value of every key.
func setDefaults() {
	viper.SetDefault("input_dir", "uploads")
	viper.SetDefault("output_dir", "output")
	viper.SetDefault("font.name", formats.DefaultFontName)
	viper.SetDefault("font.size", formats.DefaultFontSize)
	viper.SetDefault("policy.word", "abort")
	viper.SetDefault("policy.excel", "continue")
	viper.SetDefault("concurrency", 1)
	viper.SetDefault("sanitize_names", true)
	viper.SetDefault("audit.file", "")
	viper.SetDefault("watch.debounce_ms", 500)
}

// Defaults returns the configuration used when no file or environment
// override is present.
func Defaults() *Config {
	cfg := &Config{InputDir: "uploads", OutputDir: "output", Concurrency: 1, SanitizeNames: true}
	cfg.Font.Name = formats.DefaultFontName
	cfg.Font.Size = formats.DefaultFontSize
	cfg.Policy.Word = "abort"
	cfg.Policy.Excel = "continue"
	cfg.Watch.DebounceMs = 500
	return cfg
}

// Load reads the configuration from cfgFile, or ~/.fontkit/config.yaml when
// cfgFile is empty, and FONTKIT_* environment variables. A missing default
// config file is not an error; a missing explicit one is.
func Load(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(configDir())
	}

	setDefaults()

	// Environment variable overrides: FONTKIT_FONT_NAME, FONTKIT_POLICY_EXCEL, ...
	viper.SetEnvPrefix("FONTKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("could not read config %s: %w", describe(cfgFile), err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// ConfigPath returns the path of the config file in use, or the default
// location when none was read.
func ConfigPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return filepath.Join(configDir(), "config.yaml")
}

func describe(cfgFile string) string {
	if cfgFile == "" {
		return ConfigPath()
	}
	return cfgFile
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fontkit"
	}
	return filepath.Join(home, ".fontkit")
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

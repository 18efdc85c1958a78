package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// HTTP server
	Addr        string `mapstructure:"addr" yaml:"addr"`
	MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	// Idle sessions are dropped after this many minutes; 0 disables eviction.
	SessionTTLMin int `mapstructure:"session_ttl_min" yaml:"session_ttl_min"`

	// Data defaults
	DefaultRowLimit int    `mapstructure:"default_row_limit" yaml:"default_row_limit"`
	SampleDataset   string `mapstructure:"sample_dataset" yaml:"sample_dataset"`
	CSVDelimiter    string `mapstructure:"csv_delimiter" yaml:"csv_delimiter"`
	PreviewRows     int    `mapstructure:"preview_rows" yaml:"preview_rows"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogPretty bool   `mapstructure:"log_pretty" yaml:"log_pretty"`
}

// SessionTTL returns the idle session lifetime.
func (c *Global) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMin) * time.Minute
}

// Delimiter returns the configured CSV delimiter, or 0 to sniff it per file.
func (c *Global) Delimiter() rune {
	switch c.CSVDelimiter {
	case "", "auto":
		return 0
	case "tab", `\t`:
		return '\t'
	default:
		return []rune(c.CSVDelimiter)[0]
	}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.dataloom/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from .env, env, config file and defaults.
// Precedence: env > config file > defaults. A .env in the working directory
// is loaded into the environment first when present.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("DATALOOM")
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("max_upload_mb", 32)
	v.SetDefault("session_ttl_min", 60)
	v.SetDefault("default_row_limit", 1000)
	v.SetDefault("sample_dataset", "sales")
	v.SetDefault("csv_delimiter", "auto")
	v.SetDefault("preview_rows", 50)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", true)
}

// Validate rejects values no component can work with.
func (c *Global) Validate() error {
	if c.DefaultRowLimit < 1 {
		return fmt.Errorf("default_row_limit must be >= 1, got %d", c.DefaultRowLimit)
	}
	if c.MaxUploadMB < 1 {
		return fmt.Errorf("max_upload_mb must be >= 1, got %d", c.MaxUploadMB)
	}
	if c.SessionTTLMin < 0 {
		return fmt.Errorf("session_ttl_min must be >= 0, got %d", c.SessionTTLMin)
	}
	if c.PreviewRows < 0 {
		return fmt.Errorf("preview_rows must be >= 0, got %d", c.PreviewRows)
	}
	if d := []rune(c.CSVDelimiter); len(d) > 1 && c.CSVDelimiter != "auto" && c.CSVDelimiter != "tab" && c.CSVDelimiter != `\t` {
		return fmt.Errorf("csv_delimiter must be a single character, auto or tab, got %q", c.CSVDelimiter)
	}
	return nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".dataloom"), nil
}

// Default returns the built-in configuration without reading any file or
// environment variable.
func Default() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	return &c
}

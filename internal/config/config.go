package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Extraction engine
	TailRows        int      `mapstructure:"tail_rows" yaml:"tail_rows"`
	MinDataRows     int      `mapstructure:"min_data_rows" yaml:"min_data_rows"`
	PreambleChars   int      `mapstructure:"preamble_chars" yaml:"preamble_chars"`
	CommaExtensions []string `mapstructure:"comma_extensions" yaml:"comma_extensions"`

	// Catalog runs
	TabularExtensions []string `mapstructure:"tabular_extensions" yaml:"tabular_extensions"`
	Workers           int      `mapstructure:"workers" yaml:"workers"`

	// Output and logging
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
}

// Dir returns ~/.tabprobe.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".tabprobe"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tabprobe/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
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

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TABPROBE")
	v.AutomaticEnv()

	v.SetDefault("tail_rows", 3)
	v.SetDefault("min_data_rows", 3)
	v.SetDefault("preamble_chars", 1000)
	v.SetDefault("comma_extensions", []string{"csv"})
	v.SetDefault("tabular_extensions", []string{"csv", "txt", "dat"})
	v.SetDefault("workers", 4)
	v.SetDefault("output_format", "json")
	v.SetDefault("log_level", "info")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit --config path must exist; the default one is optional.
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Mining defaults; command flags override them.
	MinSupport      float64 `mapstructure:"min_support" yaml:"min_support"`
	Algorithm       string  `mapstructure:"algorithm" yaml:"algorithm"`
	Metric          string  `mapstructure:"metric" yaml:"metric"`
	MetricThreshold float64 `mapstructure:"metric_threshold" yaml:"metric_threshold"`

	// Survey input
	SchemaFile string `mapstructure:"schema_file" yaml:"schema_file"`
	SheetName  string `mapstructure:"sheet_name" yaml:"sheet_name"`

	// Output
	ExportDir string `mapstructure:"export_dir" yaml:"export_dir"`
	ReportTop int    `mapstructure:"report_top" yaml:"report_top"`

	// Batch runs
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// Keys lists the settable configuration keys.
var Keys = []string{
	"min_support", "algorithm", "metric", "metric_threshold",
	"schema_file", "sheet_name", "export_dir", "report_top", "workers",
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".bandori-stats"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.bandori-stats/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
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

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A .env file in the working
// directory is read into the environment first.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("BANDORI")
	v.AutomaticEnv()

	v.SetDefault("min_support", 0.01)
	v.SetDefault("algorithm", "fpgrowth")
	v.SetDefault("metric", "confidence")
	v.SetDefault("metric_threshold", 0.3)
	v.SetDefault("schema_file", "")
	v.SetDefault("sheet_name", "")
	v.SetDefault("export_dir", "exports")
	v.SetDefault("report_top", 25)
	v.SetDefault("workers", 4)

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
	// the file is optional; a malformed one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return &c, nil
}

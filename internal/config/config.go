package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shishaboy/epymetheus/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Strategy StrategyConfig `mapstructure:"strategy"`
	Output   OutputConfig   `mapstructure:"output"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// DataConfig selects the universe source.
type DataConfig struct {
	Source     string           `mapstructure:"source"` // "csv" or "randomwalk"
	CSVPath    string           `mapstructure:"csv_path"`
	RandomWalk RandomWalkConfig `mapstructure:"randomwalk"`
}

type RandomWalkConfig struct {
	Bars       int     `mapstructure:"bars"`
	Assets     int     `mapstructure:"assets"`
	Volatility float64 `mapstructure:"volatility"`
	Seed       int64   `mapstructure:"seed"`
}

// StrategyConfig holds benchmark trade-generation settings.
type StrategyConfig struct {
	Trades  int     `mapstructure:"trades"`
	MaxLegs int     `mapstructure:"max_legs"`
	MaxLot  float64 `mapstructure:"max_lot"`
	Seed    int64   `mapstructure:"seed"`
}

// OutputConfig controls where rendered results go.
type OutputConfig struct {
	Archive ArchiveConfig `mapstructure:"archive"`
}

type ArchiveConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Type    string   `mapstructure:"type"` // "localfs" or "s3"
	Path    string   `mapstructure:"path"` // For localfs
	S3      S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Data: DataConfig{
			Source: "randomwalk",
			RandomWalk: RandomWalkConfig{
				Bars:       1000,
				Assets:     10,
				Volatility: 0.02,
				Seed:       42,
			},
		},
		Strategy: StrategyConfig{
			Trades:  100,
			MaxLegs: 1,
			MaxLot:  1.0,
			Seed:    42,
		},
		Output: OutputConfig{
			Archive: ArchiveConfig{
				Enabled: false,
				Type:    "localfs",
				Path:    "results",
			},
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Data.Source {
	case "csv":
		if c.Data.CSVPath == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("csv_path required when data source is csv"))
		}
	case "randomwalk":
		if c.Data.RandomWalk.Bars <= 0 || c.Data.RandomWalk.Assets <= 0 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("randomwalk needs positive dimensions, got %d bars x %d assets",
					c.Data.RandomWalk.Bars, c.Data.RandomWalk.Assets))
		}
		if c.Data.RandomWalk.Volatility < 0 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("volatility cannot be negative, got %f", c.Data.RandomWalk.Volatility))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown data source %q", c.Data.Source))
	}

	if c.Strategy.Trades <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("strategy trades must be positive, got %d", c.Strategy.Trades))
	}

	if c.Output.Archive.Enabled {
		switch c.Output.Archive.Type {
		case "localfs":
			if c.Output.Archive.Path == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("archive path required when type is localfs"))
			}
		case "s3":
			if c.Output.Archive.S3.Bucket == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("s3 bucket required when archive type is s3"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown archive type %q", c.Output.Archive.Type))
		}
	}

	return nil
}

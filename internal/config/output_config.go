package config

import (
	"fmt"
	"github.com/spf13/viper"
	"time"
)

type OutputConfig struct {
	Path string `mapstructure:"path"`
	// Resume loads the existing snapshot so that a rerun extends it.
	Resume bool `mapstructure:"resume"`
}

func (config OutputConfig) validate() error {
	if config.Path == "" {
		return fmt.Errorf("missing variable: output path")
	}
	return nil
}

func (config OutputConfig) bindEnvironmentVariables() error {
	return viper.BindEnv("output.path", "OUTPUT_PATH")
}

type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless"`
	UserDataDir       string        `mapstructure:"user_data_dir"`
	Install           bool          `mapstructure:"install"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

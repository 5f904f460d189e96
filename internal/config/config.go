package config

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"os"
)

type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger"`
	Harvest HarvestConfig `mapstructure:"harvest"`
	Detail  DetailConfig  `mapstructure:"detail"`
	Output  OutputConfig  `mapstructure:"output"`
	Browser BrowserConfig `mapstructure:"browser"`
	DB      DBConfig      `mapstructure:"db"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Notify  NotifyConfig  `mapstructure:"notify"`
	AI      AIConfig      `mapstructure:"ai"`
}

var configFile = "./configs/config.yaml"

var validate = validator.New()

func Get() *Config {

	file := configFile
	if value, ok := os.LookupEnv("CONFIG_PATH"); ok && value != "" {
		file = value
	}

	config, err := Load(file)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

func Load(file string) (*Config, error) {

	viper.Reset()
	viper.SetConfigFile(file)
	viper.AutomaticEnv()
	setDefaults()

	if err := bindEnvironmentVariables(); err != nil {
		return nil, err
	}

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", file, err)
	}

	config := Config{}
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("logger.log_level", LevelInfo)
	viper.SetDefault("logger.output_file", "./logs/harvester.log")

	viper.SetDefault("harvest.max_rounds", 5)
	viper.SetDefault("harvest.min_rounds", 3)
	viper.SetDefault("harvest.empty_round_limit", 2)
	viper.SetDefault("harvest.round_timeout", "15s")
	viper.SetDefault("harvest.min_delay", "5s")
	viper.SetDefault("harvest.max_delay", "10s")
	viper.SetDefault("harvest.scroll_pause", "800ms")
	viper.SetDefault("harvest.verification_wait", "30s")
	viper.SetDefault("harvest.pair_pause", "10s")

	viper.SetDefault("detail.enabled", true)
	viper.SetDefault("detail.timeout", "10s")
	viper.SetDefault("detail.panel_wait", "3s")
	viper.SetDefault("detail.min_delay", "6s")
	viper.SetDefault("detail.max_delay", "10s")
	viper.SetDefault("detail.flush_every", 5)
	viper.SetDefault("detail.cache_ttl", "24h")

	viper.SetDefault("output.path", "./data/boss_jobs.csv")
	viper.SetDefault("output.resume", true)

	viper.SetDefault("browser.navigation_timeout", "30s")

	viper.SetDefault("db.run_retention_days", 30)

	viper.SetDefault("metrics.address", ":8080")

	viper.SetDefault("ai.model", "gemini-1.5-flash")
	viper.SetDefault("ai.max_requests_per_minute", 10)
	viper.SetDefault("ai.max_requests_per_day", 1000)
	viper.SetDefault("ai.max_descriptions", 10)
	viper.SetDefault("ai.output_path", "./data/summary.md")
}

func bindEnvironmentVariables() error {
	var errs []error

	logger, output, db, notify, ai := LoggerConfig{}, OutputConfig{}, DBConfig{}, NotifyConfig{}, AIConfig{}

	if err := logger.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := output.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("OutputConfig: %w", err))
	}

	if err := db.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := notify.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("NotifyConfig: %w", err))
	}

	if err := ai.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("AIConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config Config) validate() error {
	var errs []error

	if err := config.Logger.validate(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := config.Harvest.validate(); err != nil {
		errs = append(errs, fmt.Errorf("HarvestConfig: %w", err))
	}

	if err := config.Detail.validate(); err != nil {
		errs = append(errs, fmt.Errorf("DetailConfig: %w", err))
	}

	if err := config.Output.validate(); err != nil {
		errs = append(errs, fmt.Errorf("OutputConfig: %w", err))
	}

	if err := config.DB.validate(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := config.Notify.validate(); err != nil {
		errs = append(errs, fmt.Errorf("NotifyConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

package config

import (
	"errors"
	"fmt"
	"github.com/spf13/viper"
)

// NotifyConfig holds the Telegram credentials. An empty token disables
// notifications.
type NotifyConfig struct {
	TelegramToken string `mapstructure:"telegram_token"`
	ChatID        int64  `mapstructure:"chat_id"`
}

func (config NotifyConfig) Enabled() bool {
	return config.TelegramToken != ""
}

func (config NotifyConfig) validate() error {
	if config.Enabled() && config.ChatID == 0 {
		return fmt.Errorf("missing variable: chat_id")
	}
	return nil
}

func (config NotifyConfig) bindEnvironmentVariables() error {
	var errs []error
	if err := viper.BindEnv("notify.telegram_token", "TG_TOKEN"); err != nil {
		errs = append(errs, err)
	}
	if err := viper.BindEnv("notify.chat_id", "TG_CHAT_ID"); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

type AIConfig struct {
	Key                  string  `mapstructure:"key"`
	Model                string  `mapstructure:"model"`
	MaxRequestsPerMinute float32 `mapstructure:"max_requests_per_minute"`
	MaxRequestsPerDay    float32 `mapstructure:"max_requests_per_day"`
	MaxDescriptions      int     `mapstructure:"max_descriptions"`
	OutputPath           string  `mapstructure:"output_path"`
}

func (config AIConfig) bindEnvironmentVariables() error {
	return viper.BindEnv("ai.key", "AI_KEY")
}

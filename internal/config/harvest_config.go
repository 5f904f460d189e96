package config

import (
	"github.com/robfig/cron/v3"
	"time"
)

type SearchConfig struct {
	Group   string `mapstructure:"group"`
	Keyword string `mapstructure:"keyword" validate:"required"`
}

type CityConfig struct {
	Name string `mapstructure:"name" validate:"required"`
	Code string `mapstructure:"code" validate:"required,numeric"`
}

type HarvestConfig struct {
	Searches         []SearchConfig `mapstructure:"searches" validate:"required,min=1,dive"`
	Cities           []CityConfig   `mapstructure:"cities" validate:"required,min=1,dive"`
	MaxRounds        int            `mapstructure:"max_rounds" validate:"gte=1"`
	MinRounds        int            `mapstructure:"min_rounds" validate:"gte=1,ltefield=MaxRounds"`
	EmptyRoundLimit  int            `mapstructure:"empty_round_limit" validate:"gte=1"`
	RoundTimeout     time.Duration  `mapstructure:"round_timeout" validate:"gt=0"`
	MinDelay         time.Duration  `mapstructure:"min_delay" validate:"gte=0"`
	MaxDelay         time.Duration  `mapstructure:"max_delay" validate:"gtefield=MinDelay"`
	ScrollPause      time.Duration  `mapstructure:"scroll_pause" validate:"gte=0"`
	VerificationWait time.Duration  `mapstructure:"verification_wait" validate:"gte=0"`
	PairPause        time.Duration  `mapstructure:"pair_pause" validate:"gte=0"`
	// Schedule is a cron spec; empty means a single run.
	Schedule string `mapstructure:"schedule"`
}

func (config HarvestConfig) validate() error {
	if err := validate.Struct(config); err != nil {
		return err
	}
	if config.Schedule != "" {
		if _, err := cron.ParseStandard(config.Schedule); err != nil {
			return err
		}
	}
	return nil
}

// GroupOf returns the group label of a search, defaulting to the keyword.
func (s SearchConfig) GroupOf() string {
	if s.Group == "" {
		return s.Keyword
	}
	return s.Group
}

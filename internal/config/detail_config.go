package config

import "time"

type DetailConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	Timeout           time.Duration `mapstructure:"timeout" validate:"gt=0"`
	PanelWait         time.Duration `mapstructure:"panel_wait" validate:"gte=0"`
	MinDelay          time.Duration `mapstructure:"min_delay" validate:"gte=0"`
	MaxDelay          time.Duration `mapstructure:"max_delay" validate:"gtefield=MinDelay"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute" validate:"gte=0"`
	FlushEvery        int           `mapstructure:"flush_every" validate:"gte=1"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl" validate:"gte=0"`
}

func (config DetailConfig) validate() error {
	return validate.Struct(config)
}

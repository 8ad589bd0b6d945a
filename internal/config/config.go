package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the YAML-backed configuration for the demo driver: how
// many frames the buffer pool gets, and where the backing paged file
// lives on disk.
type Config struct {
	Bufferpool struct {
		NumBufs int `mapstructure:"num_bufs"`
	} `mapstructure:"bufferpool"`

	Storage struct {
		Dir      string `mapstructure:"dir"`
		Base     string `mapstructure:"base"`
		PageSize int    `mapstructure:"page_size"`
	} `mapstructure:"storage"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("bufferpool.num_bufs", 64)
	v.SetDefault("storage.dir", "./data")
	v.SetDefault("storage.base", "table")
	v.SetDefault("storage.page_size", 8192)
}

// Load reads path as YAML and fills in defaults for anything unset.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	defaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Bufferpool.NumBufs < 1 {
		return nil, fmt.Errorf("config: bufferpool.num_bufs must be >= 1, got %d", cfg.Bufferpool.NumBufs)
	}

	return &cfg, nil
}

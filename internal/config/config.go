package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
	Seed bool   `mapstructure:"seed"`
}

// Load reads configuration from defaults, an optional config.yaml and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("database.path", "AuctionBase.db")
	viper.SetDefault("database.seed", false)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()
	viper.BindEnv("server.addr", "SERVER_ADDR")
	viper.BindEnv("server.mode", "GIN_MODE")
	viper.BindEnv("database.path", "DB_PATH")
	viper.BindEnv("database.seed", "DB_SEED")

	// Config file is optional; defaults and env vars are enough to run.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

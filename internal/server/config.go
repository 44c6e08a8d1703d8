package server

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the sync server settings.
type Config struct {
	Port         string   `mapstructure:"PORT"`
	Env          string   `mapstructure:"ENV"`
	JWTSecret    string   `mapstructure:"JWT_SECRET"`
	AllowOrigins []string `mapstructure:"ALLOW_ORIGINS"`
}

// LoadConfig reads an optional weekplan.yaml from the working directory and
// the environment, with environment variables taking precedence.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetConfigName("weekplan")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ALLOW_ORIGINS", []string{"*"})

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}

	return cfg, nil
}

// IsProduction reports whether the server runs in production mode.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

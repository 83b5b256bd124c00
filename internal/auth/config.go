package auth

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ProviderURL string        `mapstructure:"PROVIDER_URL"`
	APIKey      string        `mapstructure:"API_KEY"`
	JWTSecret   string        `mapstructure:"JWT_SECRET"`
	TokenTTL    time.Duration `mapstructure:"TOKEN_TTL"`
}

func NewConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.BindEnv("PROVIDER_URL", "AUTH_PROVIDER_URL")
	v.BindEnv("API_KEY", "AUTH_API_KEY")
	v.BindEnv("JWT_SECRET", "AUTH_JWT_SECRET")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Warning: using only environment variables: %v\n", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot unmarshal config: %w", err)
	}

	if cfg.ProviderURL == "" {
		cfg.ProviderURL = v.GetString("AUTH_PROVIDER_URL")
	}
	if cfg.APIKey == "" {
		cfg.APIKey = v.GetString("AUTH_API_KEY")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = v.GetString("AUTH_JWT_SECRET")
	}

	if cfg.ProviderURL == "" || cfg.APIKey == "" || cfg.JWTSecret == "" {
		return nil, fmt.Errorf("auth configuration is incomplete")
	}

	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = time.Hour
	}

	return &cfg, nil
}

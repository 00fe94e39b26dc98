package config

import "github.com/ilyakaznacheev/cleanenv"

// Config is the process configuration, read once at startup. Moderation
// thresholds are deliberately not here: those are live settings resolved
// per operation from the store.
type Config struct {
	Port     string `env:"PORT" env-default:"8080"`
	GinMode  string `env:"GIN_MODE" env-default:"debug"`
	Origins  string `env:"FE_ORIGINS" env-default:"http://localhost:3000"`
	DBUser   string `env:"DB_USER" env-required:"true"`
	DBPass   string `env:"DB_PASS" env-required:"true"`
	DBHost   string `env:"DB_HOST" env-required:"true"`
	DBName   string `env:"DB_NAME" env-default:"shipboard"`
	DBConns  int    `env:"DB_MAX_CONNS" env-default:"50"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

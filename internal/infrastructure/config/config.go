package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config holds the static process settings. Privileged credentials are
// deliberately absent: they are resolved per call through EnvCredentials so
// a rotation takes effect without a restart.
type Config struct {
	Port          string `env:"PORT,          default=8080"`
	Env           string `env:"ENV,           default=development"`
	LogLevel      string `env:"LOG_LEVEL,     default=info"`
	SessionSecret string `env:"SECRET_KEY"`
	TokenSecret   string `env:"TOKEN_SECRET"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"DB_NAME,   default=fest_sponsor_db"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MustLoad loads the configuration from environment variables and .env file.
// A missing .env file is ignored.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load()

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load()

	return env.Parse(cfg)
}

// Config holds the configuration for the application.
type Config struct {
	OutputPath      string          `env:"OUTPUT_PATH" envDefault:"mbp_output.csv"` // Reconstructed MBP rows are always written here
	LogLevel        string          `env:"LOG_LEVEL" envDefault:"info"`
	PublisherConfig `envPrefix:"PUBLISHER_"` // Optional Kafka snapshot publisher
}

// PublisherConfig holds the configuration for the optional Kafka snapshot publisher.
type PublisherConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Topic   string   `env:"TOPIC" envDefault:"mbp-snapshots"`
	Brokers []string `env:"BROKER" envDefault:"localhost:9092"`
}

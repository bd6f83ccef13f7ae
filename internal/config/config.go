package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Database DatabaseConfig `envPrefix:"DATABASE_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Kafka    KafkaConfig    `envPrefix:"KAFKA_"`
	Camera   CameraConfig   `envPrefix:"CAMERA_"`
	Checkout CheckoutConfig `envPrefix:"CHECKOUT_"`
	Session  SessionConfig  `envPrefix:"SESSION_"`
}

type ServerConfig struct {
	Addr string `env:"ADDR" envDefault:":8080"`
}

type DatabaseConfig struct {
	URI      string `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"DATABASE" envDefault:"storefront"`
}

type RedisConfig struct {
	Enabled  bool          `env:"ENABLED" envDefault:"true"`
	Addr     string        `env:"ADDR" envDefault:"localhost:6379"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	TTL      time.Duration `env:"TTL" envDefault:"5m"`
}

type KafkaConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Brokers []string `env:"BROKERS" envDefault:"localhost:9092"`
	Topic   string   `env:"TOPIC" envDefault:"orders.confirmed"`
}

// CameraConfig drives the simulated capture device standing in for
// platform camera hardware.
type CameraConfig struct {
	// Mode is one of grant, deny, unavailable.
	Mode        string        `env:"MODE" envDefault:"grant"`
	PromptDelay time.Duration `env:"PROMPT_DELAY" envDefault:"200ms"`
}

type CheckoutConfig struct {
	SettleDelay         time.Duration `env:"SETTLE_DELAY" envDefault:"2s"`
	ConfirmDisplayDelay time.Duration `env:"CONFIRM_DISPLAY_DELAY" envDefault:"3s"`
}

type SessionConfig struct {
	IdleTTL       time.Duration `env:"IDLE_TTL" envDefault:"30m"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"5m"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

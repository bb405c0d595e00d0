package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`

	// KeepAliveURL is pinged on KeepAliveSchedule so free hosting tiers do
	// not idle the service. Empty disables the pinger.
	KeepAliveURL      string `yaml:"keep_alive_url"`
	KeepAliveSchedule string `yaml:"keep_alive_schedule"`

	Sentry struct {
		DSN        string  `yaml:"dsn"`
		SampleRate float64 `yaml:"sample_rate"`
	} `yaml:"sentry"`

	Yahoo struct {
		RateLimit float64 `yaml:"rate_limit"`
	} `yaml:"yahoo"`

	Fred struct {
		APIKey    string        `yaml:"api_key"`
		BaseURL   string        `yaml:"base_url"`
		RateLimit float64       `yaml:"rate_limit"`
		Timeout   time.Duration `yaml:"timeout"`
	} `yaml:"fred"`

	Screener struct {
		URL string `yaml:"url"`
	} `yaml:"screener"`

	Mongo struct {
		URI        string        `yaml:"uri"`
		Database   string        `yaml:"database"`
		Collection string        `yaml:"collection"`
		TTL        time.Duration `yaml:"ttl"`
	} `yaml:"mongo"`

	Kafka struct {
		BootstrapServers string `yaml:"bootstrap_servers"`
		Topic            string `yaml:"topic"`
	} `yaml:"kafka"`

	RabbitMQ struct {
		Server string `yaml:"server"`
		Port   string `yaml:"port"`
		User   string `yaml:"user"`
		Pass   string `yaml:"pass"`
		Queue  string `yaml:"queue"`
	} `yaml:"rabbitmq"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	c := &Config{
		Port:        "4000",
		Environment: "development",
		LogLevel:    "info",

		KeepAliveSchedule: "@every 48s",
	}
	c.Sentry.SampleRate = 1.0
	c.Yahoo.RateLimit = 2
	c.Fred.BaseURL = "https://api.stlouisfed.org/fred"
	c.Fred.RateLimit = 2
	c.Fred.Timeout = 30 * time.Second
	c.Mongo.Database = "stockrating"
	c.Mongo.Collection = "snapshots"
	c.Mongo.TTL = 15 * time.Minute
	c.RabbitMQ.Port = "5672"
	c.RabbitMQ.User = "guest"
	c.RabbitMQ.Pass = "guest"
	c.RabbitMQ.Queue = "stockrating"
	return c
}

// Load builds the configuration from defaults, the YAML file at path (if it
// exists) and finally the environment. A .env file in the working directory
// is loaded into the environment first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, c); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, err
		}
	}

	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv() {
	c.Port = GetEnv("PORT", c.Port)
	c.Environment = GetEnv("ENVIRONMENT", c.Environment)
	c.LogLevel = GetEnv("LOG_LEVEL", c.LogLevel)
	c.KeepAliveURL = GetEnv("KEEP_ALIVE_URL", c.KeepAliveURL)
	c.KeepAliveSchedule = GetEnv("KEEP_ALIVE_SCHEDULE", c.KeepAliveSchedule)

	c.Sentry.DSN = GetEnv("SENTRY_DSN", c.Sentry.DSN)
	c.Sentry.SampleRate = getEnvFloat("SENTRY_SAMPLE_RATE", c.Sentry.SampleRate)

	c.Yahoo.RateLimit = getEnvFloat("YAHOO_RATE_LIMIT", c.Yahoo.RateLimit)

	c.Fred.APIKey = GetEnv("FRED_API_KEY", c.Fred.APIKey)
	c.Fred.BaseURL = GetEnv("FRED_BASE_URL", c.Fred.BaseURL)
	c.Fred.RateLimit = getEnvFloat("FRED_RATE_LIMIT", c.Fred.RateLimit)

	c.Screener.URL = GetEnv("COMPANY_URL", c.Screener.URL)

	c.Mongo.URI = GetEnv("MONGO_URI", c.Mongo.URI)
	c.Mongo.Database = GetEnv("DATABASE", c.Mongo.Database)
	c.Mongo.Collection = GetEnv("COLLECTION", c.Mongo.Collection)
	if v := os.Getenv("SNAPSHOT_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Mongo.TTL = d
		}
	}

	c.Kafka.BootstrapServers = GetEnv("KAFKA_BOOTSTRAPSERVERS", c.Kafka.BootstrapServers)
	c.Kafka.Topic = GetEnv("KAFKA_TOPIC", c.Kafka.Topic)

	c.RabbitMQ.Server = GetEnv("RABBITMQ_SERVER", c.RabbitMQ.Server)
	c.RabbitMQ.Port = GetEnv("RABBITMQ_PORT", c.RabbitMQ.Port)
	c.RabbitMQ.User = GetEnv("RABBITMQ_USER", c.RabbitMQ.User)
	c.RabbitMQ.Pass = GetEnv("RABBITMQ_PASS", c.RabbitMQ.Pass)
	c.RabbitMQ.Queue = GetEnv("RABBITMQ_QUEUE", c.RabbitMQ.Queue)
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("port cannot be empty")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port '%s'", c.Port)
	}
	if c.Sentry.SampleRate < 0 || c.Sentry.SampleRate > 1 {
		return fmt.Errorf("sentry.sample_rate must be between 0-1, got %.2f", c.Sentry.SampleRate)
	}
	if c.Yahoo.RateLimit <= 0 || c.Fred.RateLimit <= 0 {
		return errors.New("rate limits must be positive")
	}
	if c.Mongo.URI != "" && c.Mongo.TTL <= 0 {
		return fmt.Errorf("mongo.ttl must be positive, got %s", c.Mongo.TTL)
	}
	if c.KeepAliveURL != "" {
		if _, err := cron.ParseStandard(c.KeepAliveSchedule); err != nil {
			return fmt.Errorf("invalid keep_alive_schedule: %w", err)
		}
	}
	if c.Kafka.BootstrapServers != "" && c.Kafka.Topic == "" {
		return errors.New("kafka.topic is required when kafka is enabled")
	}
	return nil
}

// GetEnv retrieves the environment variable with a default value if not set.
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return f
}

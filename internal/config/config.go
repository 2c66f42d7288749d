package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported STORE_DRIVER values.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds every runtime setting of the menu service.
type Config struct {
	Port            string
	StoreDriver     string
	Mongo           MongoConfig
	DatabaseDSN     string
	StoreTimeout    time.Duration
	RabbitMQURL     string
	EventsQueue     string
	RateLimit       float64
	RateLimitBurst  int
	ShutdownTimeout time.Duration
	LogLevel        string
	SeedOnStart     bool
}

// MongoConfig holds MongoDB connection details.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8000")
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGO_URI", "mongodb://127.0.0.1:27017")
	v.SetDefault("MONGO_DATABASE", "restaurantdb")
	v.SetDefault("MONGO_COLLECTION", "menuitems")
	v.SetDefault("DATABASE_DSN", "menu.db")
	v.SetDefault("STORE_TIMEOUT", "5s")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("MENU_EVENTS_QUEUE", "menu_events")
	v.SetDefault("RATE_LIMIT", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SEED_ON_START", false)
}

// Load reads configuration from defaults, an optional YAML file at path,
// a .env file in the working directory and the environment, in increasing
// order of precedence.
func Load(path string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Port:        v.GetString("APP_PORT"),
		StoreDriver: v.GetString("STORE_DRIVER"),
		Mongo: MongoConfig{
			URI:        v.GetString("MONGO_URI"),
			Database:   v.GetString("MONGO_DATABASE"),
			Collection: v.GetString("MONGO_COLLECTION"),
		},
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		StoreTimeout:    v.GetDuration("STORE_TIMEOUT"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		EventsQueue:     v.GetString("MENU_EVENTS_QUEUE"),
		RateLimit:       v.GetFloat64("RATE_LIMIT"),
		RateLimitBurst:  v.GetInt("RATE_LIMIT_BURST"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		SeedOnStart:     v.GetBool("SEED_ON_START"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("APP_PORT must not be empty"))
	}
	switch c.StoreDriver {
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" || c.Mongo.Collection == "" {
			errs = append(errs, errors.New("MONGO_URI, MONGO_DATABASE and MONGO_COLLECTION are required for the mongo driver"))
		}
	case DriverPostgres, DriverSQLite:
		if c.DatabaseDSN == "" {
			errs = append(errs, fmt.Errorf("DATABASE_DSN is required for the %s driver", c.StoreDriver))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	if c.StoreTimeout <= 0 {
		errs = append(errs, errors.New("STORE_TIMEOUT must be positive"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}
	if c.RateLimit <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT must be positive"))
	}
	if c.RateLimitBurst < 1 {
		errs = append(errs, errors.New("RATE_LIMIT_BURST must be at least 1"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// EventsEnabled reports whether menu events should be published.
func (c *Config) EventsEnabled() bool {
	return c.RabbitMQURL != ""
}

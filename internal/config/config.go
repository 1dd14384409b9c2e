package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	NATS      NATSConfig      `mapstructure:"nats"`
	ORS       ORSConfig       `mapstructure:"ors"`
	Planner   PlannerConfig   `mapstructure:"planner"`
	Synthetic SyntheticConfig `mapstructure:"synthetic"`
	Log       LogConfig       `mapstructure:"log"`
	SeedPath  string          `mapstructure:"seed_path"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type RedisConfig struct {
	Addr       string `mapstructure:"addr"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	TTLSeconds int    `mapstructure:"ttl_seconds"`
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

type ORSConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Country string `mapstructure:"country"`
}

type PlannerConfig struct {
	K             int     `mapstructure:"k"`
	Seed          int64   `mapstructure:"seed"`
	MaxIterations int     `mapstructure:"max_iterations"`
	Workers       int     `mapstructure:"workers"`
	DepotLat      float64 `mapstructure:"depot_lat"`
	DepotLon      float64 `mapstructure:"depot_lon"`
}

// SyntheticConfig drives the demo point generator.
type SyntheticConfig struct {
	Count     int     `mapstructure:"count"`
	Seed      int64   `mapstructure:"seed"`
	LatStdDev float64 `mapstructure:"lat_stddev"`
	LonStdDev float64 `mapstructure:"lon_stddev"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads .env, an optional config file, and ROTA_* environment variables.
// Flags bound through BindFlags take precedence over all of them.
func Load(fs *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load config: read .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("load config: read config file: %w", err)
		}
	}

	// Environment variables: ROTA_PLANNER_K → planner.k
	v.SetEnvPrefix("ROTA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := bindFlags(v, fs); err != nil {
			return nil, fmt.Errorf("load config: bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("load config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.url", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl_seconds", 3600)
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject", "routing.plans.completed")
	v.SetDefault("ors.api_key", "")
	v.SetDefault("ors.base_url", "https://api.openrouteservice.org")
	v.SetDefault("ors.country", "BR")
	v.SetDefault("seed_path", "data/seeds/points.json")

	v.SetDefault("planner.k", 4)
	v.SetDefault("planner.seed", 0)
	v.SetDefault("planner.max_iterations", 300)
	v.SetDefault("planner.workers", 4)
	v.SetDefault("planner.depot_lat", -23.5505)
	v.SetDefault("planner.depot_lon", -46.6333)

	v.SetDefault("synthetic.count", 25)
	v.SetDefault("synthetic.seed", 42)
	v.SetDefault("synthetic.lat_stddev", 0.08)
	v.SetDefault("synthetic.lon_stddev", 0.1)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// BindFlags registers the command-line overrides shared by the binaries.
// Flag names use dashes; they map onto the dotted config keys.
func BindFlags(fs *pflag.FlagSet) {
	fs.Int("k", 4, "number of couriers (groups)")
	fs.Int64("seed", 0, "partition seed")
	fs.Int("max-iterations", 300, "partition iteration cap")
	fs.Int("workers", 4, "concurrent group routing bound")
	fs.Float64("depot-lat", -23.5505, "depot latitude")
	fs.Float64("depot-lon", -46.6333, "depot longitude")
	fs.String("database-url", "", "postgres connection URL")
	fs.String("log-level", "info", "debug, info, warn or error")
}

var flagKeys = map[string]string{
	"k":              "planner.k",
	"seed":           "planner.seed",
	"max-iterations": "planner.max_iterations",
	"workers":        "planner.workers",
	"depot-lat":      "planner.depot_lat",
	"depot-lon":      "planner.depot_lon",
	"database-url":   "database.url",
	"log-level":      "log.level",
}

// bindFlags only binds flags the user actually set, so unset flag defaults
// never shadow environment or file values.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var bindErr error
	fs.Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(key, f)
	})
	return bindErr
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Planner.K < 1 {
		errs = append(errs, fmt.Sprintf("planner.k must be positive, got %d", c.Planner.K))
	}
	if c.Planner.MaxIterations < 1 {
		errs = append(errs, fmt.Sprintf("planner.max_iterations must be positive, got %d", c.Planner.MaxIterations))
	}
	if c.Planner.Workers < 0 {
		errs = append(errs, "planner.workers must not be negative")
	}
	if !finite(c.Planner.DepotLat) || c.Planner.DepotLat < -90 || c.Planner.DepotLat > 90 {
		errs = append(errs, fmt.Sprintf("planner.depot_lat must be within [-90, 90], got %v", c.Planner.DepotLat))
	}
	if !finite(c.Planner.DepotLon) || c.Planner.DepotLon < -180 || c.Planner.DepotLon > 180 {
		errs = append(errs, fmt.Sprintf("planner.depot_lon must be within [-180, 180], got %v", c.Planner.DepotLon))
	}
	if c.Synthetic.Count < 0 {
		errs = append(errs, "synthetic.count must not be negative")
	}
	if c.Synthetic.LatStdDev < 0 || c.Synthetic.LonStdDev < 0 {
		errs = append(errs, "synthetic standard deviations must not be negative")
	}
	if c.Redis.TTLSeconds < 0 {
		errs = append(errs, "redis.ttl_seconds must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

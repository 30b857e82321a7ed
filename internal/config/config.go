// Package config loads the service configuration.
//
// Sources are applied in order, later ones winning:
//   - a .env file (ENV_FILE, default ".env"), loaded into the process environment
//   - an optional YAML file (CONFIG_PATH)
//   - environment variables
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type Config struct {
	App     AppConfig     `yaml:"app" koanf:"app"`
	Mongo   MongoConfig   `yaml:"mongo" koanf:"mongo"`
	Storage StorageConfig `yaml:"storage" koanf:"storage"`
	Log     LogConfig     `yaml:"log" koanf:"log"`
}

type AppConfig struct {
	Name            string        `yaml:"name" koanf:"name"`
	Host            string        `yaml:"host" koanf:"host"`
	Port            string        `yaml:"port" koanf:"port" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" koanf:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" koanf:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" koanf:"shutdown_timeout"`
}

// Addr is the listen address of the HTTP server.
func (a AppConfig) Addr() string {
	return a.Host + ":" + a.Port
}

// MongoConfig is not validated here. A missing or malformed URI fails
// db.Manager.Connect instead.
type MongoConfig struct {
	URI            string        `yaml:"uri" koanf:"uri"`
	Database       string        `yaml:"database" koanf:"database"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" koanf:"connect_timeout"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" koanf:"driver" validate:"oneof=mongo memory"`
}

type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format" validate:"oneof=console json"`
}

// envKeys maps the environment variables the service reads to config keys.
var envKeys = map[string]string{
	"APP_NAME":              "app.name",
	"HOST":                  "app.host",
	"PORT":                  "app.port",
	"READ_TIMEOUT":          "app.read_timeout",
	"WRITE_TIMEOUT":         "app.write_timeout",
	"IDLE_TIMEOUT":          "app.idle_timeout",
	"SHUTDOWN_TIMEOUT":      "app.shutdown_timeout",
	"MONGO_DB_URI":          "mongo.uri",
	"MONGO_DB_NAME":         "mongo.database",
	"MONGO_CONNECT_TIMEOUT": "mongo.connect_timeout",
	"STORAGE_DRIVER":        "storage.driver",
	"LOG_LEVEL":             "log.level",
	"LOG_FORMAT":            "log.format",
}

func defaults() *Config {
	cfg := &Config{}
	cfg.App.Name = "user-service"
	cfg.App.ReadTimeout = 10 * time.Second
	cfg.App.WriteTimeout = 10 * time.Second
	cfg.App.IdleTimeout = 120 * time.Second
	cfg.App.ShutdownTimeout = 15 * time.Second
	cfg.Mongo.Database = "user_service"
	cfg.Mongo.ConnectTimeout = 10 * time.Second
	cfg.Storage.Driver = StorageMongo
	cfg.Log.Level = "info"
	cfg.Log.Format = "console"
	return cfg
}

// NewConfig loads the configuration using ENV_FILE and CONFIG_PATH.
func NewConfig() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	return Load(envFile, os.Getenv("CONFIG_PATH"))
}

// Load reads envFile (ignored when missing) and yamlPath (skipped when empty),
// overlays the environment and validates the result.
func Load(envFile, yamlPath string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := defaults()

	if yamlPath != "" {
		if err := decodeYAML(yamlPath, cfg); err != nil {
			return nil, err
		}
	}

	k := koanf.New(".")
	err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[s]
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func decodeYAML(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return nil
}

// Package config contains utilities for loading configs
package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

const (
	configFilePath     = "/data/mealdex.yaml"
	appSecretBytes     = 32
	appSecretFilePerms = 0o600
)

const (
	EnvProd = "PROD"
	EnvDev  = "DEV"
)

const DefaultMealDBBaseURL = "https://themealdb.com/api/json/v1/1"

type AppSecretValue string

func (a *AppSecretValue) Validate() error {
	if a == nil {
		return errors.New("secret should not be nil")
	}
	if len([]byte(*a)) < appSecretBytes {
		return errors.New("secret should be at least 32 bytes")
	}
	return nil
}

type AppSecret struct {
	Value   *AppSecretValue `yaml:"value"`
	Path    string          `yaml:"path" validate:"omitempty,filepath"`
	Version string          `yaml:"version"`
}

type Database struct {
	Port     uint16 `yaml:"port"`
	Host     string `yaml:"host" validate:"omitempty,hostname_rfc1123"`
	Database string `yaml:"database" validate:"required"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password" validate:"required"`
}

type MealDB struct {
	BaseURL string `yaml:"base_url" validate:"url"`
}

// Redis is optional; an empty Addr disables the upstream response cache.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
}

type Config struct {
	AppSecret  AppSecret `yaml:"app_secret"`
	Database   Database  `yaml:"database"`
	MealDB     MealDB    `yaml:"mealdb"`
	Redis      Redis     `yaml:"redis"`
	HostOrigin string    `yaml:"host_origin" validate:"url"`
	Env        string    `yaml:"env" validate:"omitempty,oneof=DEV PROD"`
	Port       uint16    `yaml:"port"`
}

func (c Config) IsProd() bool {
	return c.Env == EnvProd
}

// Secret returns the app secret bytes. LoadConfig guarantees the value is
// populated.
func (c Config) Secret() []byte {
	if c.AppSecret.Value == nil {
		return nil
	}
	return []byte(*c.AppSecret.Value)
}

func newAppSecret() (string, error) {
	token := make([]byte, appSecretBytes)
	if _, err := rand.Reader.Read(token); err != nil {
		return "", fmt.Errorf("creating app secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(token), nil
}

// loadAppSecret resolves the app secret, generating and persisting one at
// AppSecret.Path if neither a value nor a file exists yet.
func loadAppSecret(config *Config) error {
	if config.AppSecret.Value != nil {
		return config.AppSecret.Value.Validate()
	}

	var secret string
	if f, err := os.Lstat(config.AppSecret.Path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking secret path: %w", err)
		}

		file, err := os.OpenFile(config.AppSecret.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, appSecretFilePerms)
		if err != nil {
			return fmt.Errorf("creating secret file: %w", err)
		}
		defer func() { _ = file.Close() }()

		secret, err = newAppSecret()
		if err != nil {
			return fmt.Errorf("generating new app secret: %w", err)
		}

		if _, err := file.WriteString(secret); err != nil {
			return fmt.Errorf("writing secret file: %w", err)
		}
	} else {
		if f.IsDir() {
			return fmt.Errorf("expected file, got directory at %q", config.AppSecret.Path)
		}
		data, err := os.ReadFile(config.AppSecret.Path)
		if err != nil {
			return fmt.Errorf("reading secret file: %w", err)
		}
		secret = string(data)
	}

	val := AppSecretValue(secret)
	config.AppSecret.Value = &val
	return config.AppSecret.Value.Validate()
}

func loadWithDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parsePort(name, value string) (uint16, error) {
	port, err := strconv.ParseUint(value, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid %s (%q): %w", name, value, err)
	}
	return uint16(port), nil
}

func loadConfigFromEnv() (Config, error) {
	conf := Config{
		Env:        loadWithDefault("ENV", EnvDev),
		HostOrigin: loadWithDefault("HOST_ORIGIN", "http://localhost:8080"),
	}

	port, err := parsePort("PORT", loadWithDefault("PORT", "8080"))
	if err != nil {
		return conf, err
	}
	conf.Port = port

	// AppSecret
	conf.AppSecret = AppSecret{
		Path:    loadWithDefault("APP_SECRET_PATH", "/data/secret"),
		Version: loadWithDefault("APP_SECRET_VERSION", "1"),
	}
	if v := os.Getenv("APP_SECRET"); v != "" {
		val := AppSecretValue(v)
		conf.AppSecret.Value = &val
	}

	// Database
	conf.Database = Database{
		Host:     loadWithDefault("DATABASE_HOST", "localhost"),
		Database: os.Getenv("DATABASE"),
		User:     os.Getenv("DATABASE_USER"),
		Password: os.Getenv("DATABASE_PASSWORD"),
	}
	dbPort, err := parsePort("DATABASE_PORT", loadWithDefault("DATABASE_PORT", "5432"))
	if err != nil {
		return conf, err
	}
	conf.Database.Port = dbPort

	// Upstream + cache
	conf.MealDB = MealDB{
		BaseURL: loadWithDefault("MEALDB_URL", DefaultMealDBBaseURL),
	}
	conf.Redis = Redis{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}

	if err := validateConfig(&conf); err != nil {
		return conf, err
	}
	if err := loadAppSecret(&conf); err != nil {
		return conf, fmt.Errorf("loading app secret: %w", err)
	}
	return conf, nil
}

func loadConfigFromFile(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(contents, &config); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Defaults
	if config.AppSecret.Path == "" {
		config.AppSecret.Path = "/data/secret"
	}
	if config.AppSecret.Version == "" {
		config.AppSecret.Version = "1"
	}
	if config.Env == "" {
		config.Env = EnvDev
	}
	if config.Port == 0 {
		config.Port = 8080
	}
	if config.HostOrigin == "" {
		config.HostOrigin = "http://localhost:8080"
	}
	if config.Database.Host == "" {
		config.Database.Host = "localhost"
	}
	if config.Database.Port == 0 {
		config.Database.Port = 5432
	}
	if config.MealDB.BaseURL == "" {
		config.MealDB.BaseURL = DefaultMealDBBaseURL
	}

	if err := validateConfig(&config); err != nil {
		return Config{}, err
	}
	if err := loadAppSecret(&config); err != nil {
		return Config{}, fmt.Errorf("loading app secret: %w", err)
	}
	return config, nil
}

func validateConfig(config *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return validate.Struct(config)
}

func configFileExists(path string) bool {
	f, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return !f.IsDir()
}

func LoadConfig() (Config, error) {
	if configFileExists(configFilePath) {
		return loadConfigFromFile(configFilePath)
	}
	return loadConfigFromEnv()
}

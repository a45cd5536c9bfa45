package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// this is a pointer so that if someone attempts to use it before loading it will
// panic and force them to load it first.
// it is also private so that it cannot be modified after loading.
var _loaded *Config

// Config is the main configuration structure
type Config struct {
	Common Common `yaml:"common"`
}

// Load loads the configuration following proper precedence: defaults → config file → environment variables
func Load() {
	// Start with defaults
	_loaded = &defaultConfig

	configFile := os.Getenv("GEODEX_CONFIG_FILE")
	if configFile == "" {
		configFile = "geodex.yaml"
	}

	if err := LoadFromFile(configFile); err != nil {
		log.Printf("Failed to load config file %s: %v, using defaults", configFile, err)
	}

	// Apply environment variable overrides (highest priority)
	ApplyEnvOverrides()
}

func LoadDefault() {
	config := defaultConfig
	_loaded = &config
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, merge YAML values over them
	cfg := defaultConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	_loaded = &cfg
	return nil
}

// set sane defaults for all of the config options. when loading the config from
// the file, any options that are not set will be set to these defaults.
var defaultConfig = Config{
	Common: Common{
		Log: logConfig{
			Level:  "info",
			Format: "json",
		},
		Http: httpConfig{
			Host:       "0.0.0.0",
			Port:       8080,
			CorsOrigin: "http://localhost:3000",
		},
		Store: storeConfig{
			Backend: "mongo",
		},
		Mongo: mongoConfig{
			URI:        "mongodb://localhost:27017",
			Database:   "geodex",
			Collection: "users",
		},
		Postgres: postgresConfig{
			User:     "postgres",
			Password: "postgres",
			Host:     "localhost",
			Port:     5432,
			Database: "geodex",
		},
		Geocode: geocodeConfig{
			BaseURL:        "https://api.openweathermap.org",
			APIKey:         "",
			TimeoutSeconds: 10,
		},
	},
}

type Common struct {
	Log      logConfig      `yaml:"log"`
	Http     httpConfig     `yaml:"http"`
	Store    storeConfig    `yaml:"store"`
	Mongo    mongoConfig    `yaml:"mongo"`
	Postgres postgresConfig `yaml:"postgres"`
	Geocode  geocodeConfig  `yaml:"geocode"`
}

type logConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type httpConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	CorsOrigin string `yaml:"cors_origin"` // origin allowed to call the API from a browser
}

type storeConfig struct {
	Backend string `yaml:"backend"` // "mongo", "postgres" or "memory"
}

type mongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type postgresConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
}

func (c postgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		url.QueryEscape(c.Database),
	)
}

type geocodeConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// there should be a getter for each top level field in the config struct.
// these getters will panic if the config has not been loaded.

func Logger() logConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Log
}

func Http() httpConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Http
}

func Store() storeConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Store
}

func Mongo() mongoConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Mongo
}

func Postgres() postgresConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Postgres
}

func Geocode() geocodeConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Geocode
}

// Get returns the full configuration
func Get() *Config {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded
}

func ApplyEnvOverrides() {
	if _loaded == nil {
		return
	}

	if logLevel := os.Getenv("GEODEX_LOG_LEVEL"); logLevel != "" {
		_loaded.Common.Log.Level = logLevel
	}
	if logFormat := os.Getenv("GEODEX_LOG_FORMAT"); logFormat != "" {
		_loaded.Common.Log.Format = logFormat
	}

	if httpHost := os.Getenv("GEODEX_HTTP_HOST"); httpHost != "" {
		_loaded.Common.Http.Host = httpHost
	}
	if httpPort := os.Getenv("GEODEX_HTTP_PORT"); httpPort != "" {
		if port, err := strconv.Atoi(httpPort); err == nil {
			_loaded.Common.Http.Port = port
		}
	}
	if corsOrigin := os.Getenv("GEODEX_CORS_ORIGIN"); corsOrigin != "" {
		_loaded.Common.Http.CorsOrigin = corsOrigin
	}

	if backend := os.Getenv("GEODEX_STORE_BACKEND"); backend != "" {
		_loaded.Common.Store.Backend = backend
	}

	if mongoURI := os.Getenv("GEODEX_MONGO_URI"); mongoURI != "" {
		_loaded.Common.Mongo.URI = mongoURI
	}
	if mongoDB := os.Getenv("GEODEX_MONGO_DB"); mongoDB != "" {
		_loaded.Common.Mongo.Database = mongoDB
	}
	if mongoCollection := os.Getenv("GEODEX_MONGO_COLLECTION"); mongoCollection != "" {
		_loaded.Common.Mongo.Collection = mongoCollection
	}

	if dbHost := os.Getenv("GEODEX_DB_HOST"); dbHost != "" {
		_loaded.Common.Postgres.Host = dbHost
	}
	if dbPort := os.Getenv("GEODEX_DB_PORT"); dbPort != "" {
		if port, err := strconv.Atoi(dbPort); err == nil {
			_loaded.Common.Postgres.Port = port
		}
	}
	if dbUser := os.Getenv("GEODEX_DB_USER"); dbUser != "" {
		_loaded.Common.Postgres.User = dbUser
	}
	if dbPassword := os.Getenv("GEODEX_DB_PASSWORD"); dbPassword != "" {
		_loaded.Common.Postgres.Password = dbPassword
	}
	if dbName := os.Getenv("GEODEX_DB_NAME"); dbName != "" {
		_loaded.Common.Postgres.Database = dbName
	}

	if apiKey := os.Getenv("GEODEX_OPENWEATHER_API_KEY"); apiKey != "" {
		_loaded.Common.Geocode.APIKey = apiKey
	}
	if baseURL := os.Getenv("GEODEX_GEOCODE_BASE_URL"); baseURL != "" {
		_loaded.Common.Geocode.BaseURL = baseURL
	}
	if timeout := os.Getenv("GEODEX_GEOCODE_TIMEOUT"); timeout != "" {
		if seconds, err := strconv.Atoi(timeout); err == nil {
			_loaded.Common.Geocode.TimeoutSeconds = seconds
		}
	}
}

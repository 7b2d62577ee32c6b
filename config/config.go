package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingConfig is returned by Load when a required setting is empty.
var ErrMissingConfig = errors.New("missing required configuration")

// Config is built once at startup and handed to the components that need it.
type Config struct {
	MongoURI string
	MongoDB  string

	Port           string
	Env            string
	LogLevel       string
	RequestTimeout time.Duration
	CORSOrigins    []string

	JWTSecret     string
	WriterRole    string
	JWTExpMinutes int

	NATSURL           string
	NATSSubjectPrefix string
}

// fileConfig mirrors the optional YAML file pointed to by EVENTS_CONFIG.
type fileConfig struct {
	Mongo struct {
		URI      string `yaml:"uri"`
		Database string `yaml:"database"`
	} `yaml:"mongodb"`
	Server struct {
		Port           string   `yaml:"port"`
		Env            string   `yaml:"env"`
		LogLevel       string   `yaml:"log_level"`
		RequestTimeout string   `yaml:"request_timeout"`
		CORSOrigins    []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Auth struct {
		JWTSecret  string `yaml:"jwt_secret"`
		WriterRole string `yaml:"writer_role"`
		ExpMinutes int    `yaml:"exp_minutes"`
	} `yaml:"auth"`
	NATS struct {
		URL           string `yaml:"url"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"nats"`
}

// Defaults returns a Config with every optional setting filled in.
func Defaults() *Config {
	return &Config{
		Port:              "8080",
		Env:               "development",
		LogLevel:          "info",
		RequestTimeout:    5 * time.Second,
		CORSOrigins:       []string{"*"},
		WriterRole:        "creator",
		JWTExpMinutes:     60,
		NATSSubjectPrefix: "events",
	}
}

// Load reads the configuration. Values come from the YAML file named by
// EVENTS_CONFIG (if set) and are then overridden by environment variables.
// MONGODB_URI and MONGODB_DB are required.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadAuth reads the same sources as Load without requiring the MongoDB
// settings. Tools that only mint tokens use it.
func LoadAuth() (*Config, error) {
	return load()
}

func load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("EVENTS_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the connection parameters are present.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.MongoURI) == "" {
		return fmt.Errorf("%w: MONGODB_URI", ErrMissingConfig)
	}
	if strings.TrimSpace(c.MongoDB) == "" {
		return fmt.Errorf("%w: MONGODB_DB", ErrMissingConfig)
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// TokenTTL is the lifetime of minted bearer tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpMinutes) * time.Minute
}

// AuthEnabled reports whether write routes require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	setString(&c.MongoURI, fc.Mongo.URI)
	setString(&c.MongoDB, fc.Mongo.Database)
	setString(&c.Port, fc.Server.Port)
	setString(&c.Env, fc.Server.Env)
	setString(&c.LogLevel, fc.Server.LogLevel)
	if len(fc.Server.CORSOrigins) > 0 {
		c.CORSOrigins = fc.Server.CORSOrigins
	}
	if fc.Server.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.Server.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid server.request_timeout %q: %w", fc.Server.RequestTimeout, err)
		}
		c.RequestTimeout = d
	}
	setString(&c.JWTSecret, fc.Auth.JWTSecret)
	setString(&c.WriterRole, fc.Auth.WriterRole)
	if fc.Auth.ExpMinutes > 0 {
		c.JWTExpMinutes = fc.Auth.ExpMinutes
	}
	setString(&c.NATSURL, fc.NATS.URL)
	setString(&c.NATSSubjectPrefix, fc.NATS.SubjectPrefix)
	return nil
}

func (c *Config) loadEnv() error {
	setString(&c.MongoURI, os.Getenv("MONGODB_URI"))
	setString(&c.MongoDB, os.Getenv("MONGODB_DB"))
	setString(&c.Port, os.Getenv("PORT"))
	setString(&c.Env, os.Getenv("ENV"))
	setString(&c.LogLevel, os.Getenv("LOG_LEVEL"))
	setString(&c.JWTSecret, os.Getenv("JWT_SECRET"))
	setString(&c.WriterRole, os.Getenv("JWT_WRITER_ROLE"))
	setString(&c.NATSURL, os.Getenv("NATS_URL"))
	setString(&c.NATSSubjectPrefix, os.Getenv("NATS_SUBJECT_PREFIX"))

	if val := os.Getenv("CORS_ORIGINS"); val != "" {
		origins := []string{}
		for _, o := range strings.Split(val, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			c.CORSOrigins = origins
		}
	}

	if val := os.Getenv("REQUEST_TIMEOUT"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid REQUEST_TIMEOUT %q: %w", val, err)
		}
		c.RequestTimeout = d
	}

	if val := os.Getenv("JWT_EXP_MIN"); val != "" {
		mins, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid JWT_EXP_MIN %q: %w", val, err)
		}
		if mins <= 0 {
			return fmt.Errorf("invalid JWT_EXP_MIN %q: must be positive", val)
		}
		c.JWTExpMinutes = mins
	}
	return nil
}

func setString(dst *string, val string) {
	if val = strings.TrimSpace(val); val != "" {
		*dst = val
	}
}

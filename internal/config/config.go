package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/travis-tran03/leetcode-jar/internal/core"
)

// Backend selection values for BACKEND. Empty or "auto" tries every tier.
const (
	BackendAuto  = "auto"
	BackendStore = core.ModeStore
	BackendAPI   = core.ModeAPI
	BackendLocal = core.ModeLocal
)

// Config holds all configuration for the application.
type Config struct {
	Port      string `mapstructure:"PORT"`
	GinMode   string `mapstructure:"GIN_MODE"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	ClientURL string `mapstructure:"CLIENT_URL"`
	StaticDir string `mapstructure:"STATIC_DIR"`

	Backend     string        `mapstructure:"BACKEND"`
	InitTimeout time.Duration `mapstructure:"INIT_TIMEOUT"`

	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	FirestoreCollection              string `mapstructure:"FIRESTORE_COLLECTION"`
	FirestoreDocument                string `mapstructure:"FIRESTORE_DOCUMENT"`

	APIURL     string        `mapstructure:"API_URL"`
	APITimeout time.Duration `mapstructure:"API_TIMEOUT"`

	DataFile     string `mapstructure:"DATA_FILE"`
	LocalDir     string `mapstructure:"LOCAL_DIR"`
	LocalSlotKey string `mapstructure:"LOCAL_SLOT_KEY"`

	RedisAddress  string `mapstructure:"REDIS_ADDRESS"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	RabbitMQURL   string `mapstructure:"RABBITMQ_URL"`
	RabbitMQQueue string `mapstructure:"RABBITMQ_QUEUE"`

	// NameMap is "old=new,old2=new2"; NameMapFile is a YAML old: new document.
	NameMap     string `mapstructure:"NAME_MAP"`
	NameMapFile string `mapstructure:"NAME_MAP_FILE"`
}

var defaults = map[string]interface{}{
	"PORT":                 "8080",
	"GIN_MODE":             "debug",
	"LOG_LEVEL":            "info",
	"BACKEND":              BackendAuto,
	"INIT_TIMEOUT":         "15s",
	"FIRESTORE_COLLECTION": "jar",
	"FIRESTORE_DOCUMENT":   "data",
	"API_TIMEOUT":          "10s",
	"DATA_FILE":            "jar_data.json",
	"LOCAL_DIR":            ".jar",
	"LOCAL_SLOT_KEY":       "jar.localdata",
	"REDIS_DB":             0,
	"RABBITMQ_QUEUE":       "jar.events",
}

var envKeys = []string{
	"PORT", "GIN_MODE", "LOG_LEVEL", "CLIENT_URL", "STATIC_DIR",
	"BACKEND", "INIT_TIMEOUT",
	"FIREBASE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS", "FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
	"FIRESTORE_COLLECTION", "FIRESTORE_DOCUMENT",
	"API_URL", "API_TIMEOUT",
	"DATA_FILE", "LOCAL_DIR", "LOCAL_SLOT_KEY",
	"REDIS_ADDRESS", "REDIS_PASSWORD", "REDIS_DB",
	"RABBITMQ_URL", "RABBITMQ_QUEUE",
	"NAME_MAP", "NAME_MAP_FILE",
}

// LoadConfig loads configuration from environment variables using Viper.
// When PATH_CONFIG names a YAML file, its keys (same names, any case) are
// read first and environment variables override them.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	_ = v.BindEnv("PATH_CONFIG")
	if path := v.GetString("PATH_CONFIG"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value shapes. Backend settings are all optional: a missing
// backend is skipped at selection time, never a configuration error.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("PORT must be a valid TCP port, got %q", c.Port)
	}
	switch strings.ToLower(c.Backend) {
	case "", BackendAuto, BackendStore, BackendAPI, BackendLocal:
	default:
		return fmt.Errorf("BACKEND must be one of auto, store, api, local; got %q", c.Backend)
	}
	if c.LocalSlotKey == "" {
		return errors.New("LOCAL_SLOT_KEY cannot be empty")
	}
	if c.InitTimeout <= 0 {
		return errors.New("INIT_TIMEOUT must be positive")
	}
	if c.APITimeout <= 0 {
		return errors.New("API_TIMEOUT must be positive")
	}
	return nil
}

// StoreConfigured reports whether a Firestore project is configured.
func (c *Config) StoreConfigured() bool { return c.FirebaseProjectID != "" }

// APIConfigured reports whether a remote API base URL is configured.
func (c *Config) APIConfigured() bool { return c.APIURL != "" }

// RedisConfigured reports whether the local slot should live in Redis.
func (c *Config) RedisConfigured() bool { return c.RedisAddress != "" }

// LegacyNames merges NAME_MAP_FILE and NAME_MAP (the latter wins) into the
// rename mapping applied to every loaded snapshot.
func (c *Config) LegacyNames() (map[string]string, error) {
	mapping := map[string]string{}
	if c.NameMapFile != "" {
		fromFile, err := core.LoadNameMapFile(c.NameMapFile)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			mapping[k] = v
		}
	}
	fromEnv, err := core.ParseNameMap(c.NameMap)
	if err != nil {
		return nil, err
	}
	for k, v := range fromEnv {
		mapping[k] = v
	}
	return mapping, nil
}

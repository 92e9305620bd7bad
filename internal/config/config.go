// Package config loads runtime settings from an optional config file, a
// .env file and BEHAVIOR_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"

	envPrefix = "BEHAVIOR"
)

type Config struct {
	Port             int           `mapstructure:"port" validate:"min=1,max=65535"`
	DBPath           string        `mapstructure:"db_path" validate:"required_if=Backend sqlite"`
	Backend          string        `mapstructure:"backend" validate:"oneof=sqlite firestore"`
	FirestoreProject string        `mapstructure:"firestore_project" validate:"required_if=Backend firestore"`
	FirebaseKeyJSON  string        `mapstructure:"firebase_key_json" validate:"omitempty,json"`
	SessionSecret    string        `mapstructure:"session_secret" validate:"required,min=16"`
	SessionTTL       time.Duration `mapstructure:"session_ttl" validate:"gt=0"`
	Timezone         string        `mapstructure:"timezone" validate:"required,timezone"`
	LogLevel         string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat        string        `mapstructure:"log_format" validate:"oneof=text json"`
	TrustedProxy     string        `mapstructure:"trusted_proxy" validate:"oneof=none cloudflare forwarded"`
	DefaultUserPIN   string        `mapstructure:"default_user_pin" validate:"required,numeric"`
	DefaultAdminPIN  string        `mapstructure:"default_admin_pin" validate:"required,numeric"`
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("db_path", "behaviorchart.db")
	v.SetDefault("backend", BackendSQLite)
	v.SetDefault("firestore_project", "")
	v.SetDefault("firebase_key_json", "")
	v.SetDefault("session_secret", "")
	v.SetDefault("session_ttl", 6*time.Hour)
	v.SetDefault("timezone", "America/New_York")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("trusted_proxy", "none")
	v.SetDefault("default_user_pin", "1234")
	v.SetDefault("default_admin_pin", "9999")
}

// Load reads configuration. path names an optional config file; when empty
// only defaults, .env and the environment are used.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Deployments of the Firestore edition already export the bare name.
	if err := v.BindEnv("firebase_key_json", envPrefix+"_FIREBASE_KEY_JSON", "FIREBASE_KEY_JSON"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.TrustedProxy = strings.ToLower(strings.TrimSpace(c.TrustedProxy))

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &c, nil
}

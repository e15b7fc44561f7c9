package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"storage-sample/core/database"
	"storage-sample/core/journal"
	"storage-sample/core/logger"
	"storage-sample/core/server"
	"storage-sample/core/storage"
	"storage-sample/feature/sample"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envKeys turns a nested key into its environment variable suffix.
var envKeys = strings.NewReplacer(".", "_")

// Config is the application configuration, one section per concern.
type Config struct {
	// Server holds configuration for the HTTP gateway.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage backend.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the journal database.
	Database database.Config `mapstructure:"database"`
	// Journal holds configuration for operation recording.
	Journal journal.Config `mapstructure:"journal"`
	// Sample holds configuration for the walkthrough command.
	Sample sample.Config `mapstructure:"sample"`
}

// Setting is one leaf configuration key.
type Setting struct {
	Key     string
	Env     string
	Default string
	Value   string
	Secret  bool
}

// LoadConfig loads configuration from environment variables, an optional
// .env file in path, and an optional config.yaml in path.
func LoadConfig(path string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Overload(filepath.Join(path, ".env"))

	v := viper.New()
	// Every key needs a default, even an empty one, or AutomaticEnv never
	// consults the environment for it during Unmarshal.
	for _, s := range Settings(&Config{}) {
		v.SetDefault(s.Key, s.Default)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(envKeys)
	v.AutomaticEnv()

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Settings flattens cfg into its leaf keys in declaration order, with the
// default declared in each field's tag and the value held by cfg.
func Settings(cfg *Config) []Setting {
	return walk(reflect.ValueOf(cfg).Elem(), "")
}

func walk(v reflect.Value, prefix string) []Setting {
	var out []Setting
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := field.Tag.Get("mapstructure")
		if name == "" {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}

		if field.Type.Kind() == reflect.Struct {
			out = append(out, walk(v.Field(i), name)...)
			continue
		}

		out = append(out, Setting{
			Key:     name,
			Env:     strings.ToUpper(envKeys.Replace(name)),
			Default: field.Tag.Get("default"),
			Value:   fmt.Sprint(v.Field(i).Interface()),
			Secret:  field.Tag.Get("secret") == "true",
		})
	}
	return out
}

// Masked returns the value safe for display.
func (s Setting) Masked() string {
	if s.Secret && s.Value != "" {
		return "********"
	}
	return s.Value
}

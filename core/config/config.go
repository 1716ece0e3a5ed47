package config

import (
	"reflect"
	"strings"

	"github.com/mtrifilo/psychic-homily-web-sub009/core/archive"
	"github.com/mtrifilo/psychic-homily-web-sub009/core/database"
	"github.com/mtrifilo/psychic-homily-web-sub009/core/logger"
	"github.com/mtrifilo/psychic-homily-web-sub009/core/metrics"
	"github.com/mtrifilo/psychic-homily-web-sub009/core/notify"
	"github.com/mtrifilo/psychic-homily-web-sub009/core/server"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations owned by their packages.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Database holds configuration for the Postgres connection.
	Database database.Config `mapstructure:"database"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Archive holds configuration for the raw capture archive.
	Archive archive.Config `mapstructure:"archive"`
	// Metrics holds configuration for the Prometheus listener.
	Metrics metrics.Config `mapstructure:"metrics"`
	// Notify holds configuration for the AMQP notifier.
	Notify notify.Config `mapstructure:"notify"`
	// SourcesFile is the path to the YAML file declaring scrape sources,
	// the region offset table, and sync targets.
	SourcesFile string `mapstructure:"sources_file" default:"sources.yaml"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values
// in Viper based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}

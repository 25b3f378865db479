package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Holds all the configuration fields for the call analysis service.
type Config struct {
	// Intent catalog file; empty means the compiled-in catalog
	CatalogPath string `mapstructure:"CATALOG_PATH"`

	// External collaborators
	STTServiceURL   string `mapstructure:"STT_SERVICE_URL"`
	VoiceServiceURL string `mapstructure:"VOICE_SERVICE_URL"`
	ServiceTimeout  int    `mapstructure:"SERVICE_TIMEOUT"` // seconds

	// Analysis queue
	QueueCapacity int `mapstructure:"QUEUE_CAPACITY"`
	NumWorkers    int `mapstructure:"NUM_WORKERS"`

	// Redis verdict store
	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     string `mapstructure:"REDIS_PORT"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	VerdictTTL    int    `mapstructure:"VERDICT_TTL"` // hours, 0 = no expiry

	// Analysis export
	ExportURL       string `mapstructure:"EXPORT_URL"`
	ExportIndex     string `mapstructure:"EXPORT_INDEX"`
	ExportThreshold int    `mapstructure:"EXPORT_THRESHOLD"`
	FlushInterval   int    `mapstructure:"FLUSH_INTERVAL"` // seconds
	MaxRetries      int    `mapstructure:"MAX_RETRIES"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// Initializes Viper and unmarshals config into our Config struct.
// It can read from environment variables, config files, etc.
func LoadConfig() (*Config, error) {
	viper.SetDefault("CATALOG_PATH", "")
	viper.SetDefault("STT_SERVICE_URL", "http://localhost:5001/transcribe")
	viper.SetDefault("VOICE_SERVICE_URL", "http://localhost:5002/predict")
	viper.SetDefault("SERVICE_TIMEOUT", 30)

	viper.SetDefault("QUEUE_CAPACITY", 1000)
	viper.SetDefault("NUM_WORKERS", 4)

	// Redis defaults
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("VERDICT_TTL", 72)

	// Export defaults
	viper.SetDefault("EXPORT_URL", "http://localhost:9200/_bulk")
	viper.SetDefault("EXPORT_INDEX", "call_verdicts")
	viper.SetDefault("EXPORT_THRESHOLD", 10)
	viper.SetDefault("FLUSH_INTERVAL", 30)
	viper.SetDefault("MAX_RETRIES", 3)

	viper.SetDefault("LOG_LEVEL", "info")

	// Read environment variables
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}

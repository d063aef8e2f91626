// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config files.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultDatabasePath              = "./data/avlogue.db"
	defaultDatabaseConnectionTimeout = 5 * time.Second
	defaultLogLevel                  = "info"
	defaultLogPretty                 = false
	defaultStorageBackend            = StorageBackendLocal
	defaultStorageRoot               = "./data/media"
	defaultStorageBaseURL            = "/media/"
	defaultFFmpegPath                = "ffmpeg"
	defaultFFprobePath               = "ffprobe"
	defaultQueueWorkers              = 2
	defaultQueueBacklog              = 64
	envPrefix                        = "AVLOGUE"
)

// Storage backend identifiers
const (
	StorageBackendLocal = "local"
	StorageBackendS3    = "s3"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Logging  LoggingConfig
	Storage  StorageConfig
	Encoder  EncoderConfig
	Queue    QueueConfig
	Media    MediaConfig
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Path              string
	ConnectionTimeout time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// StorageConfig holds object storage configuration.
// Backend selects between the local filesystem store and S3/MinIO.
type StorageConfig struct {
	Backend string
	Local   LocalStorageConfig
	S3      S3StorageConfig
}

// LocalStorageConfig holds filesystem storage configuration
type LocalStorageConfig struct {
	Root    string
	BaseURL string
}

// S3StorageConfig holds S3/MinIO storage configuration
type S3StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	UseSSL          bool
}

// EncoderConfig holds the external encoder binary configuration
type EncoderConfig struct {
	FFmpegPath  string
	FFprobePath string
	TempDir     string
}

// QueueConfig holds the background conversion pool configuration
type QueueConfig struct {
	Workers int
	Backlog int
}

// MediaConfig holds the object name prefixes for stored files
type MediaConfig struct {
	AudioDir        string
	VideoDir        string
	AudioStreamsDir string
	VideoStreamsDir string
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	// .env files are optional in production and CI where env vars are set directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/avlogue")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", defaultDatabasePath)
	v.SetDefault("database.connectiontimeout", defaultDatabaseConnectionTimeout)

	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)

	v.SetDefault("storage.backend", defaultStorageBackend)
	v.SetDefault("storage.local.root", defaultStorageRoot)
	v.SetDefault("storage.local.baseurl", defaultStorageBaseURL)
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.usessl", true)

	v.SetDefault("encoder.ffmpegpath", defaultFFmpegPath)
	v.SetDefault("encoder.ffprobepath", defaultFFprobePath)

	v.SetDefault("queue.workers", defaultQueueWorkers)
	v.SetDefault("queue.backlog", defaultQueueBacklog)

	v.SetDefault("media.audiodir", "avlogue/audio")
	v.SetDefault("media.videodir", "avlogue/video")
	v.SetDefault("media.audiostreamsdir", "avlogue/audio/streams")
	v.SetDefault("media.videostreamsdir", "avlogue/video/streams")
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	if c.Database.ConnectionTimeout <= 0 {
		return fmt.Errorf("invalid database connection timeout: %v (must be > 0)", c.Database.ConnectionTimeout)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(validLevels, ", "))
	}

	switch c.Storage.Backend {
	case StorageBackendLocal:
		if c.Storage.Local.Root == "" {
			return fmt.Errorf("storage root must be set for the local backend")
		}
	case StorageBackendS3:
		if c.Storage.S3.Endpoint == "" || c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage endpoint and bucket must be set for the s3 backend")
		}
	default:
		return fmt.Errorf("invalid storage backend: %s (must be %s or %s)",
			c.Storage.Backend, StorageBackendLocal, StorageBackendS3)
	}

	if c.Encoder.FFmpegPath == "" || c.Encoder.FFprobePath == "" {
		return fmt.Errorf("encoder ffmpeg and ffprobe paths must not be empty")
	}

	if c.Queue.Workers < 1 {
		return fmt.Errorf("invalid queue workers: %d (must be >= 1)", c.Queue.Workers)
	}
	if c.Queue.Backlog < 0 {
		return fmt.Errorf("invalid queue backlog: %d (must be >= 0)", c.Queue.Backlog)
	}

	return nil
}

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	RabbitMQ      RabbitMQConfig
	Storage       StorageConfig
	OpenAI        OpenAIConfig
	Upload        UploadConfig
	Enrichment    EnrichmentConfig
	Chat          ChatConfig
	Notifications NotificationsConfig
	Auth          AuthConfig
	Logging       LoggingConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

// DatabaseConfig contains database connection configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type DatabaseConfig struct {
	Host           string
	Name           string
	User           string
	Password       string
	SSLMode        string
	Port           int
	MaxConnections int
	MinConnections int
	MaxIdleTime    time.Duration
	MaxLifetime    time.Duration
}

// RedisConfig contains Redis connection configuration, shared by the
// enrichment queue and the stats cache.
type RedisConfig struct {
	URL      string
	StatsTTL time.Duration
}

// RabbitMQConfig contains RabbitMQ connection and topology configuration
// for the lifecycle event publisher.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type RabbitMQConfig struct {
	Host       string
	User       string
	Password   string
	Exchange   string
	Queue      string
	RoutingKey string
	Port       int
}

// StorageConfig contains object storage configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type StorageConfig struct {
	Bucket         string
	Region         string
	Endpoint       string
	KeyPrefix      string
	MaxUploadBytes int64
}

// OpenAIConfig contains configuration for the transcription and
// summarization clients.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type OpenAIConfig struct {
	APIKey          string
	BaseURL         string
	TranscribeModel string
	ChatModel       string
	MaxTokens       int
	Temperature     float64
	Timeout         time.Duration
}

// UploadConfig contains upload intake configuration.
type UploadConfig struct {
	MaxFileBytes int64
}

// EnrichmentConfig contains enrichment worker configuration.
type EnrichmentConfig struct {
	Workers            int
	MaxRetry           int
	TaskTimeout        time.Duration
	TranscriptMaxChars int
}

// ChatConfig bounds the transcript context assembled for chat requests.
type ChatConfig struct {
	PerTranscriptChars int
	MaxTranscripts     int
	HistoryLimit       int
}

// NotificationsConfig contains reminder scheduling configuration.
type NotificationsConfig struct {
	DefaultHour   int
	DefaultMinute int
	PollInterval  time.Duration
}

// AuthConfig contains API authentication configuration.
type AuthConfig struct {
	APIKeys []string
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string
	File  string
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// DSN builds a pgx-compatible connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// AMQPURL builds the broker connection URL.
func (c RabbitMQConfig) AMQPURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", c.User, c.Password, c.Host, c.Port)
}

func setDefaults() {
	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.shutdowntimeout", 30*time.Second)

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "brainbank")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.maxconnections", 25)
	viper.SetDefault("database.minconnections", 5)
	viper.SetDefault("database.maxidletime", 30*time.Minute)
	viper.SetDefault("database.maxlifetime", 1*time.Hour)

	// Redis
	viper.SetDefault("redis.url", "redis://localhost:6379/0")
	viper.SetDefault("redis.statsttl", 5*time.Minute)

	// RabbitMQ
	viper.SetDefault("rabbitmq.host", "localhost")
	viper.SetDefault("rabbitmq.port", 5672)
	viper.SetDefault("rabbitmq.user", "guest")
	viper.SetDefault("rabbitmq.password", "guest")
	viper.SetDefault("rabbitmq.exchange", "brainbank.videos")
	viper.SetDefault("rabbitmq.queue", "brainbank.videos.events")
	viper.SetDefault("rabbitmq.routingkey", "video.lifecycle")

	// Storage
	viper.SetDefault("storage.bucket", "brainbank-videos")
	viper.SetDefault("storage.region", "us-east-1")
	viper.SetDefault("storage.endpoint", "")
	viper.SetDefault("storage.keyprefix", "videos")
	viper.SetDefault("storage.maxuploadbytes", int64(536870912)) // 512MB

	// OpenAI
	viper.SetDefault("openai.apikey", "")
	viper.SetDefault("openai.baseurl", "")
	viper.SetDefault("openai.transcribemodel", "whisper-1")
	viper.SetDefault("openai.chatmodel", "gpt-4o-mini")
	viper.SetDefault("openai.maxtokens", 1024)
	viper.SetDefault("openai.temperature", 0.4)
	viper.SetDefault("openai.timeout", 2*time.Minute)

	// Upload
	viper.SetDefault("upload.maxfilebytes", int64(536870912)) // 512MB

	// Enrichment
	viper.SetDefault("enrichment.workers", 2)
	viper.SetDefault("enrichment.maxretry", 3)
	viper.SetDefault("enrichment.tasktimeout", 10*time.Minute)
	viper.SetDefault("enrichment.transcriptmaxchars", 48000)

	// Chat
	viper.SetDefault("chat.pertranscriptchars", 4000)
	viper.SetDefault("chat.maxtranscripts", 20)
	viper.SetDefault("chat.historylimit", 20)

	// Notifications
	viper.SetDefault("notifications.defaulthour", 8)
	viper.SetDefault("notifications.defaultminute", 0)
	viper.SetDefault("notifications.pollinterval", 30*time.Second)

	// Auth
	viper.SetDefault("auth.apikeys", []string{})

	// Logging
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", "")
}

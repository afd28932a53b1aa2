package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendDynamoDB = "dynamodb"
	BackendMongoDB  = "mongodb"
	BackendMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string

	// HTTP
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// Store
	StoreBackend string
	StoreTimeout time.Duration

	// DynamoDB
	TableName        string
	DynamoDBEndpoint string

	// MongoDB
	MongoURL        string
	MongoDatabase   string
	MongoCollection string

	// SNS
	TopicArn string
}

// Load reads configuration from the environment, after applying a .env
// file when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		HTTPAddr:        getEnv("HTTP_ADDR", ":8001"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 5*time.Second),

		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendDynamoDB)),
		StoreTimeout: getDurationEnv("STORE_TIMEOUT", 5*time.Second),

		TableName:        getEnv("TABLE_NAME", ""),
		DynamoDBEndpoint: getEnv("DYNAMODB_ENDPOINT", ""),

		MongoURL:        getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "subscription_manager"),
		MongoCollection: getEnv("MONGO_COLLECTION", "subscriptions"),

		TopicArn: getEnv("TOPIC_ARN", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendDynamoDB:
		if c.TableName == "" {
			return fmt.Errorf("TABLE_NAME is required for the %s store", BackendDynamoDB)
		}
	case BackendMongoDB:
		if c.MongoURL == "" {
			return fmt.Errorf("MONGO_URL is required for the %s store", BackendMongoDB)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if seconds := getIntEnv(key, -1); seconds >= 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	LLM       LLMConfig
	Embedding EmbeddingConfig
	Router    RouterConfig
	Worker    WorkerConfig
	Report    ReportConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	URL             string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// LLMConfig holds completion provider configuration.
type LLMConfig struct {
	OpenAIAPIKey    string
	GroqAPIKey      string
	GroqModel       string
	AnthropicAPIKey string
	OllamaBaseURL   string
	OllamaModel     string
	DefaultProvider string // "openai", "groq", "anthropic", or "ollama"
	Timeout         time.Duration
}

// EmbeddingConfig holds embedding provider configuration.
type EmbeddingConfig struct {
	Provider      string // "ollama" or "openai"
	OllamaBaseURL string
	OllamaModel   string
	OpenAIAPIKey  string
	OpenAIModel   string
	Timeout       time.Duration
}

// RouterConfig holds similarity router tuning.
type RouterConfig struct {
	SimilarityThreshold float64
}

// WorkerConfig holds worker configuration.
type WorkerConfig struct {
	Concurrency   int
	BatchSize     int
	StreamName    string
	ConsumerGroup string
	ConsumerName  string
}

// ReportConfig holds executive report configuration.
type ReportConfig struct {
	Period    string
	TopIssues int
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvAsInt("SERVER_PORT", getEnvAsInt("PORT", 8080)),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Database:        getEnv("DB_NAME", "smartsift"),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", time.Hour),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		LLM: LLMConfig{
			OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
			GroqAPIKey:      getEnv("GROQ_API_KEY", ""),
			GroqModel:       getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
			AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
			OllamaBaseURL:   getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:     getEnv("OLLAMA_MODEL", "llama3.1:8b"),
			DefaultProvider: getEnv("LLM_DEFAULT_PROVIDER", "groq"),
			Timeout:         getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
		},
		Embedding: EmbeddingConfig{
			Provider:      getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:   getEnv("EMBEDDING_OLLAMA_MODEL", "all-minilm"),
			OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:   getEnv("EMBEDDING_OPENAI_MODEL", "text-embedding-3-small"),
			Timeout:       getEnvAsDuration("EMBEDDING_TIMEOUT", 15*time.Second),
		},
		Router: RouterConfig{
			SimilarityThreshold: getEnvAsFloat("ROUTER_SIMILARITY_THRESHOLD", 0.35),
		},
		Worker: WorkerConfig{
			Concurrency:   getEnvAsInt("WORKER_CONCURRENCY", 10),
			BatchSize:     getEnvAsInt("WORKER_BATCH_SIZE", 10),
			StreamName:    getEnv("WORKER_STREAM_NAME", "complaints"),
			ConsumerGroup: getEnv("WORKER_CONSUMER_GROUP", "triage-workers"),
			ConsumerName:  getEnv("WORKER_CONSUMER_NAME", "worker-1"),
		},
		Report: ReportConfig{
			Period:    getEnv("REPORT_PERIOD", "current"),
			TopIssues: getEnvAsInt("REPORT_TOP_ISSUES", 5),
		},
	}

	if err := cfg.Router.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.Database + "?sslmode=disable"
}

// Addr returns the Redis address.
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Addr returns the server address.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

func (c *RouterConfig) Validate() error {
	if c.SimilarityThreshold <= -1 || c.SimilarityThreshold >= 1 {
		return fmt.Errorf("invalid similarity threshold %.2f: must be in (-1, 1)", c.SimilarityThreshold)
	}
	return nil
}

func (c *EmbeddingConfig) Validate() error {
	switch strings.ToLower(c.Provider) {
	case "ollama":
		if c.OllamaBaseURL == "" {
			return fmt.Errorf("ollama embedding provider requires OLLAMA_BASE_URL")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("openai embedding provider requires OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Provider)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

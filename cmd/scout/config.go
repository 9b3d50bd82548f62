package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the configuration loaded from environment variables.
type Config struct {
	// Server
	Port     string
	LogLevel string // debug, info, warn, error

	// Provider selection
	Provider string // anthropic, bedrock, openai, google, vertex
	Model    string

	// API Keys
	AnthropicKey string
	OpenAIKey    string
	GoogleKey    string
	TavilyKey    string

	// Vertex AI (uses ADC for auth)
	VertexProject  string
	VertexLocation string

	// Agent
	MaxIterations int
	WindowSize    int
	Timeout       time.Duration
	SystemPrompt  string

	// Persistence
	Store       string // memory, redis, postgres
	RedisURL    string
	DatabaseURL string
	StoreTTL    time.Duration

	// MCPCommand is an optional stdio MCP server whose tools are added to
	// the registry, e.g. "npx -y @modelcontextprotocol/server-filesystem /tmp".
	MCPCommand string
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Port:           getEnvOrDefault("SCOUT_PORT", "8080"),
		LogLevel:       getEnvOrDefault("SCOUT_LOG_LEVEL", "info"),
		Provider:       strings.ToLower(getEnvOrDefault("SCOUT_PROVIDER", "anthropic")),
		Model:          os.Getenv("SCOUT_MODEL"),
		AnthropicKey:   os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		GoogleKey:      os.Getenv("GOOGLE_API_KEY"),
		TavilyKey:      os.Getenv("TAVILY_API_KEY"),
		VertexProject:  os.Getenv("VERTEX_PROJECT"),
		VertexLocation: os.Getenv("VERTEX_LOCATION"),
		MaxIterations:  getEnvIntOrDefault("SCOUT_MAX_ITERATIONS", 10),
		WindowSize:     getEnvIntOrDefault("SCOUT_WINDOW_SIZE", 20),
		Timeout:        getEnvDurationOrDefault("SCOUT_TIMEOUT", 2*time.Minute),
		SystemPrompt:   getEnvOrDefault("SCOUT_SYSTEM_PROMPT", defaultSystemPrompt),
		Store:          strings.ToLower(getEnvOrDefault("SCOUT_STORE", "memory")),
		RedisURL:       os.Getenv("REDIS_URL"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		StoreTTL:       getEnvDurationOrDefault("SCOUT_STORE_TTL", 0),
		MCPCommand:     strings.TrimSpace(os.Getenv("SCOUT_MCP_COMMAND")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for anthropic provider")
		}
	case "bedrock":
		// AWS credentials come from the default chain.
	case "openai":
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for openai provider")
		}
	case "google":
		if c.GoogleKey == "" {
			return fmt.Errorf("GOOGLE_API_KEY is required for google provider")
		}
	case "vertex":
		if c.VertexProject == "" || c.VertexLocation == "" {
			return fmt.Errorf("VERTEX_PROJECT and VERTEX_LOCATION are required for vertex provider")
		}
	default:
		return fmt.Errorf("unknown provider: %s (must be anthropic, bedrock, openai, google, or vertex)", c.Provider)
	}

	switch c.Store {
	case "memory":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for redis store")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres store")
		}
	default:
		return fmt.Errorf("unknown store: %s (must be memory, redis, or postgres)", c.Store)
	}

	if c.MaxIterations < 1 {
		return fmt.Errorf("SCOUT_MAX_ITERATIONS must be at least 1")
	}
	if c.WindowSize < 1 {
		return fmt.Errorf("SCOUT_WINDOW_SIZE must be at least 1")
	}

	return nil
}

// StoreURL returns the connection string for the configured store.
func (c *Config) StoreURL() string {
	switch c.Store {
	case "redis":
		return c.RedisURL
	case "postgres":
		return c.DatabaseURL
	default:
		return ""
	}
}

// Level parses LogLevel, defaulting to info.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

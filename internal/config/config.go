package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Qdrant   QdrantConfig
	Redis    RedisConfig
	Database DatabaseConfig
	LLM      LLMConfig
	RAG      RAGConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type QdrantConfig struct {
	Addr string // gRPC address
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DatabaseConfig struct {
	URL      string // empty means in-memory source registry
	MaxConns int
	MinConns int
}

type LLMConfig struct {
	OpenAIKey        string
	AnthropicKey     string
	DefaultProvider  string
	DefaultModel     string
	EmbedModel       string
	FallbackProvider string
	MaxRetries       int
	CallTimeout      time.Duration
}

type RAGConfig struct {
	ChunkSize    int
	ChunkOverlap int
	TopK         int // results per collection at query time
	VectorSize   int // embedding dimension
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	maxRetries, err := getEnvInt("LLM_MAX_RETRIES", 1)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_MAX_RETRIES: %w", err)
	}

	callTimeout, err := getEnvInt("LLM_CALL_TIMEOUT_SECONDS", 60)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_CALL_TIMEOUT_SECONDS: %w", err)
	}

	chunkSize, err := getEnvInt("RAG_CHUNK_SIZE", 1000)
	if err != nil {
		return nil, fmt.Errorf("invalid RAG_CHUNK_SIZE: %w", err)
	}

	chunkOverlap, err := getEnvInt("RAG_CHUNK_OVERLAP", 200)
	if err != nil {
		return nil, fmt.Errorf("invalid RAG_CHUNK_OVERLAP: %w", err)
	}

	topK, err := getEnvInt("RAG_TOP_K", 3)
	if err != nil {
		return nil, fmt.Errorf("invalid RAG_TOP_K: %w", err)
	}

	vectorSize, err := getEnvInt("RAG_VECTOR_SIZE", 1536)
	if err != nil {
		return nil, fmt.Errorf("invalid RAG_VECTOR_SIZE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Qdrant: QdrantConfig{
			Addr: getEnv("QDRANT_ADDR", "localhost:6334"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			MaxConns: maxConns,
			MinConns: minConns,
		},
		LLM: LLMConfig{
			OpenAIKey:        getEnv("OPENAI_API_KEY", ""),
			AnthropicKey:     getEnv("ANTHROPIC_API_KEY", ""),
			DefaultProvider:  getEnv("LLM_DEFAULT_PROVIDER", "openai"),
			DefaultModel:     getEnv("LLM_DEFAULT_MODEL", "gpt-4o-mini"),
			EmbedModel:       getEnv("LLM_EMBED_MODEL", "text-embedding-3-small"),
			FallbackProvider: getEnv("LLM_FALLBACK_PROVIDER", ""),
			MaxRetries:       maxRetries,
			CallTimeout:      time.Duration(callTimeout) * time.Second,
		},
		RAG: RAGConfig{
			ChunkSize:    chunkSize,
			ChunkOverlap: chunkOverlap,
			TopK:         topK,
			VectorSize:   vectorSize,
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var missing []string
	if c.LLM.OpenAIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.Qdrant.Addr == "" {
		missing = append(missing, "QDRANT_ADDR")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	if c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		return fmt.Errorf("RAG_CHUNK_OVERLAP (%d) must be smaller than RAG_CHUNK_SIZE (%d)", c.RAG.ChunkOverlap, c.RAG.ChunkSize)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

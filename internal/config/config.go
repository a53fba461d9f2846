package config

import (
	"fmt"
	"os"
	"strconv"

	"tag-engine/internal/pattern"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DatabaseURL    string
	Neo4jURI       string
	Neo4jUser      string
	Neo4jPassword  string
	WorkerCount    int
	BatchSize      int
	LogLevel       string
	OutputFormat   string
	PatternFile    string
	PreviewLength  int
	StrictWarnings bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/tag_engine?sslmode=disable"),
		Neo4jURI:       getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:      getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:  getEnv("NEO4J_PASSWORD", "password"),
		WorkerCount:    getEnvInt("WORKER_COUNT", 8),
		BatchSize:      getEnvInt("BATCH_SIZE", 100),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		OutputFormat:   getEnv("OUTPUT_FORMAT", "json"),
		PatternFile:    getEnv("TAG_PATTERN_FILE", ""),
		PreviewLength:  getEnvInt("PREVIEW_LENGTH", 40),
		StrictWarnings: getEnvBool("STRICT_WARNINGS", false),
	}
}

// Level returns the configured zerolog level, defaulting to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Registry returns the pattern registry to parse with: the defaults, or
// the set described by PatternFile. A broken pattern file is an error.
func (c *Config) Registry() (*pattern.Registry, error) {
	if c.PatternFile == "" {
		return pattern.Default(), nil
	}
	data, err := os.ReadFile(c.PatternFile)
	if err != nil {
		return nil, fmt.Errorf("read pattern file: %w", err)
	}
	return ParsePatternSet(data)
}

// ParsePatternSet compiles a YAML pattern set such as
//
//	display:
//	  - '\$\{[a-z_]+\}'
//	standalone: '\[(\d+)\]'
func ParsePatternSet(data []byte) (*pattern.Registry, error) {
	var set pattern.Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse pattern file: %w", err)
	}
	reg, err := pattern.Compile(set)
	if err != nil {
		return nil, fmt.Errorf("compile pattern file: %w", err)
	}
	return reg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Warn().Str("key", key).Str("value", v).Int("default", fallback).Msg("Invalid count, using default")
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

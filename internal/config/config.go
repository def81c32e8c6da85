package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server ServerConfig
	News   NewsConfig
	OpenAI OpenAIConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type NewsConfig struct {
	// Source selects the adapter: "newsdata" (REST API) or "rss".
	Source    string
	APIKey    string
	Country   string
	Language  string
	BatchSize int
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// MissingKeyError reports a required credential that was not configured.
// It aborts the whole process at load time; nothing downstream is attempted.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s is required", e.Key)
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvAsDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:  getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		},
		News: NewsConfig{
			Source:    getEnv("NEWS_SOURCE", "newsdata"),
			APIKey:    getEnv("NEWSDATA_API_KEY", ""),
			Country:   getEnv("NEWS_COUNTRY", "jp"),
			Language:  getEnv("NEWS_LANGUAGE", "en"),
			BatchSize: getEnvAsInt("NEWS_BATCH_SIZE", 5),
		},
		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			Model:   getEnv("LLM_MODEL", "gpt-4o-mini"),
			Timeout: getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
		},
	}

	if cfg.News.BatchSize < 1 || cfg.News.BatchSize > 10 {
		cfg.News.BatchSize = 5
	}

	if cfg.OpenAI.APIKey == "" {
		return nil, &MissingKeyError{Key: "OPENAI_API_KEY"}
	}
	if cfg.News.Source == "newsdata" && cfg.News.APIKey == "" {
		return nil, &MissingKeyError{Key: "NEWSDATA_API_KEY"}
	}

	return cfg, nil
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Chat     ChatConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	WebDir             string
}

type DatabaseConfig struct {
	Connection string `validate:"required"`
}

type AIConfig struct {
	LLMProvider       string `validate:"required,oneof=ollama openai"`
	LLMModel          string `validate:"required"`
	EmbeddingProvider string `validate:"required,oneof=ollama openai"`
	EmbeddingModel    string `validate:"required"`
	OllamaBaseURL     string
	OpenAIAPIKey      string
}

type ChatConfig struct {
	TopK            int           `validate:"min=1"`
	QuestionTimeout time.Duration `validate:"min=1s"`
	IngestTopicName string        `validate:"required"`
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			WebDir:             getEnv("WEB_DIR", "./web"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			LLMModel:          getEnv("LLM_MODEL", "gpt-4o-mini"),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "openai"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		},
		Chat: ChatConfig{
			TopK:            getEnvAsInt("RETRIEVAL_TOP_K", 1),
			QuestionTimeout: getEnvAsDuration("QUESTION_TIMEOUT", 120*time.Second),
			IngestTopicName: getEnv("EMBED_DOCUMENT_TOPIC_NAME", "EMBED_DOCUMENT"),
		},
	}
}

// Validate checks the loaded configuration before anything is wired up.
// Startup is the only place these failures are allowed to be fatal.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Ai.LLMProvider == "openai" || c.Ai.EmbeddingProvider == "openai" {
		if c.Ai.OpenAIAPIKey == "" {
			return fmt.Errorf("invalid configuration: OPENAI_API_KEY is required when an openai provider is selected")
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

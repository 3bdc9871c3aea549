package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverSQLite   = "sqlite"

	LLMProviderGemini = "gemini"
	LLMProviderOpenAI = "openai"
	// LLMProviderMock responde con un texto fijo, sin llamar a ningún servicio externo.
	LLMProviderMock = "mock"

	DefaultGeminiModel = "gemini-1.5-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

var (
	ErrUnknownStoreDriver = errors.New("unknown store driver")
	ErrUnknownLLMProvider = errors.New("unknown llm provider")
	ErrMissingSetting     = errors.New("missing required setting")
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	StoreDriver     string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL     string `env:"DATABASE_URL"`
	MongoURI        string `env:"MONGO_URI"`
	MongoDatabase   string `env:"MONGO_DATABASE" envDefault:"Chat"`
	MongoCollection string `env:"MONGO_COLLECTION" envDefault:"Chat"`
	SQLitePath      string `env:"SQLITE_PATH" envDefault:"chat.db"`

	LLMProvider  string `env:"LLM_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	LLMAPIKey    string `env:"LLM_API_KEY"`
	LLMBaseURL   string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	// LLMModel vacío toma el default del proveedor.
	LLMModel     string `env:"LLM_MODEL"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	ChatLockTTL   time.Duration `env:"CHAT_LOCK_TTL" envDefault:"30s"`

	// HistoryWindow es la cantidad de mensajes previos enviados como contexto al LLM.
	HistoryWindow int `env:"HISTORY_WINDOW" envDefault:"10"`
	// HistoryLimit acota GET /history; 0 devuelve el historial completo.
	HistoryLimit int `env:"HISTORY_LIMIT" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	cfg.LLMModel = strings.TrimSpace(cfg.LLMModel)
	if cfg.LLMModel == "" {
		cfg.LLMModel = DefaultModel(cfg.LLMProvider)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate verifica que las variables requeridas por el driver y el proveedor elegidos estén presentes.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL", ErrMissingSetting)
		}
	case StoreDriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("%w: MONGO_URI", ErrMissingSetting)
		}
	case StoreDriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: SQLITE_PATH", ErrMissingSetting)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStoreDriver, c.StoreDriver)
	}

	switch c.LLMProvider {
	case LLMProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY", ErrMissingSetting)
		}
	case LLMProviderOpenAI:
		if c.LLMAPIKey == "" {
			return fmt.Errorf("%w: LLM_API_KEY", ErrMissingSetting)
		}
	case LLMProviderMock:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLLMProvider, c.LLMProvider)
	}

	if c.HistoryWindow <= 0 {
		return fmt.Errorf("%w: HISTORY_WINDOW must be positive", ErrMissingSetting)
	}
	return nil
}

// DefaultModel devuelve el modelo usado cuando LLM_MODEL no está configurado.
func DefaultModel(provider string) string {
	switch provider {
	case LLMProviderOpenAI:
		return DefaultOpenAIModel
	case LLMProviderGemini:
		return DefaultGeminiModel
	default:
		return ""
	}
}

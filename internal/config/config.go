package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIBaseURL        = "https://ftcb.in/api/"
	DefaultTablePageSize     = 10
	DefaultViewRetentionDays = 30
)

type Config struct {
	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"`
	DBDSN         string `mapstructure:"DB_DSN"`
	Environment   string `mapstructure:"ENV"`

	APIBaseURL string        `mapstructure:"API_BASE_URL"`
	APITimeout time.Duration `mapstructure:"API_TIMEOUT"` // 0 - без таймаута

	TablePageSize     int `mapstructure:"TABLE_PAGE_SIZE"`
	ViewRetentionDays int `mapstructure:"VIEW_RETENTION_DAYS"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфиг из функции чтения переменных окружения
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DBDSN:             getenv("DB_DSN"),
		TelegramToken:     getenv("TELEGRAM_TOKEN"),
		Environment:       getenv("ENV"),
		APIBaseURL:        getenv("API_BASE_URL"),
		TablePageSize:     DefaultTablePageSize,
		ViewRetentionDays: DefaultViewRetentionDays,
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}

	if v := getenv("API_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil || timeout < 0 {
			return nil, fmt.Errorf("API_TIMEOUT must be a non-negative duration, got %q", v)
		}
		cfg.APITimeout = timeout
	}

	if v := getenv("TABLE_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("TABLE_PAGE_SIZE must be a positive integer, got %q", v)
		}
		cfg.TablePageSize = n
	}

	if v := getenv("VIEW_RETENTION_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("VIEW_RETENTION_DAYS must be a positive integer, got %q", v)
		}
		cfg.ViewRetentionDays = n
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// ViewRetention - сколько хранить неиспользуемые настройки таблиц
func (c *Config) ViewRetention() time.Duration {
	return time.Duration(c.ViewRetentionDays) * 24 * time.Hour
}

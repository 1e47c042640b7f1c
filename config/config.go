package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"diary-bot/internal/domain/entity"
)

// ErrConfiguration конфигурация неполна или некорректна, бот не стартует
var ErrConfiguration = errors.New("configuration error")

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	SessionsMemory = "memory"
	SessionsRedis  = "redis"

	PhotosLocal = "local"
	PhotosMinio = "minio"
)

type Config struct {
	TelegramToken string `yaml:"telegramToken"`
	LogLevel      string `yaml:"logLevel"`

	FontPath     string `yaml:"fontPath"`
	FontBoldPath string `yaml:"fontBoldPath"`

	DatabaseDriver string `yaml:"databaseDriver"`
	DatabasePath   string `yaml:"databasePath"`
	DatabaseURL    string `yaml:"databaseURL"`

	SessionBackend string        `yaml:"sessionBackend"`
	RedisAddr      string        `yaml:"redisAddr"`
	RedisPassword  string        `yaml:"redisPassword"`
	SessionTTL     time.Duration `yaml:"sessionTTL"`

	PhotoBackend   string `yaml:"photoBackend"`
	ImagesDir      string `yaml:"imagesDir"`
	ReportsDir     string `yaml:"reportsDir"`
	MinioEndpoint  string `yaml:"minioEndpoint"`
	MinioAccessKey string `yaml:"minioAccessKey"`
	MinioSecretKey string `yaml:"minioSecretKey"`
	MinioBucket    string `yaml:"minioBucket"`
	MinioUseSSL    bool   `yaml:"minioUseSSL"`

	ReminderTimes []string `yaml:"reminderTimes"`
	StatsDays     int      `yaml:"statsDays"`
	PhotoMaxSide  int      `yaml:"photoMaxSide"`

	NutrientLimits entity.Limits `yaml:"nutrientLimits"`
}

func defaults() *Config {
	return &Config{
		LogLevel:       "info",
		FontPath:       "fonts/DejaVuSans.ttf",
		DatabaseDriver: DriverSQLite,
		DatabasePath:   "nutrition_diary.db",
		SessionBackend: SessionsMemory,
		SessionTTL:     24 * time.Hour,
		PhotoBackend:   PhotosLocal,
		ImagesDir:      "images",
		ReportsDir:     "reports",
		MinioBucket:    "diary-photos",
		ReminderTimes:  []string{"08:00", "12:00", "18:00"},
		StatsDays:      7,
		PhotoMaxSide:   1024,
	}
}

// Load читает .env, затем YAML-файл path (или CONFIG_PATH, по умолчанию config.yaml),
// затем переменные окружения. Отсутствующие файлы пропускаются.
func Load(path string) (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config.yaml"
	}

	cfg := defaults()
	if err := cfg.loadYAML(path); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.NutrientLimits = entity.DefaultLimits().Merge(cfg.NutrientLimits)
	if cfg.FontBoldPath == "" {
		cfg.FontBoldPath = cfg.FontPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrConfiguration, path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.TelegramToken, "TELEGRAM_TOKEN")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.FontPath, "FONT_PATH")
	setString(&c.FontBoldPath, "FONT_BOLD_PATH")
	setString(&c.DatabaseDriver, "DATABASE_DRIVER")
	setString(&c.DatabasePath, "DATABASE_PATH")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.SessionBackend, "SESSION_BACKEND")
	setString(&c.RedisAddr, "REDIS_ADDR")
	setString(&c.RedisPassword, "REDIS_PASSWORD")
	setString(&c.PhotoBackend, "PHOTO_BACKEND")
	setString(&c.ImagesDir, "IMAGES_DIR")
	setString(&c.ReportsDir, "REPORTS_DIR")
	setString(&c.MinioEndpoint, "MINIO_ENDPOINT")
	setString(&c.MinioAccessKey, "MINIO_ACCESS_KEY")
	setString(&c.MinioSecretKey, "MINIO_SECRET_KEY")
	setString(&c.MinioBucket, "MINIO_BUCKET")

	if v := os.Getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: SESSION_TTL: %v", ErrConfiguration, err)
		}
		c.SessionTTL = ttl
	}
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		useSSL, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: MINIO_USE_SSL: %v", ErrConfiguration, err)
		}
		c.MinioUseSSL = useSSL
	}
	if v := os.Getenv("STATS_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: STATS_DAYS: %v", ErrConfiguration, err)
		}
		c.StatsDays = days
	}
	if v := os.Getenv("REMINDER_TIMES"); v != "" {
		var times []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				times = append(times, part)
			}
		}
		c.ReminderTimes = times
	}
	return nil
}

// Validate проверяет обязательные параметры и согласованность бэкендов
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("%w: TELEGRAM_TOKEN is required", ErrConfiguration)
	}
	if _, err := os.Stat(c.FontPath); err != nil {
		return fmt.Errorf("%w: font %q not found", ErrConfiguration, c.FontPath)
	}
	if _, err := os.Stat(c.FontBoldPath); err != nil {
		return fmt.Errorf("%w: bold font %q not found", ErrConfiguration, c.FontBoldPath)
	}

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("%w: DATABASE_PATH is required for sqlite", ErrConfiguration)
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required for postgres", ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown DATABASE_DRIVER %q", ErrConfiguration, c.DatabaseDriver)
	}

	switch c.SessionBackend {
	case SessionsMemory:
	case SessionsRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: REDIS_ADDR is required for redis sessions", ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown SESSION_BACKEND %q", ErrConfiguration, c.SessionBackend)
	}

	switch c.PhotoBackend {
	case PhotosLocal:
		if c.ImagesDir == "" {
			return fmt.Errorf("%w: IMAGES_DIR is required for local photos", ErrConfiguration)
		}
	case PhotosMinio:
		if c.MinioEndpoint == "" || c.MinioAccessKey == "" || c.MinioSecretKey == "" || c.MinioBucket == "" {
			return fmt.Errorf("%w: MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY and MINIO_BUCKET are required", ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown PHOTO_BACKEND %q", ErrConfiguration, c.PhotoBackend)
	}

	if c.ReportsDir == "" {
		return fmt.Errorf("%w: REPORTS_DIR is required", ErrConfiguration)
	}
	if len(c.ReminderTimes) == 0 {
		return fmt.Errorf("%w: REMINDER_TIMES must not be empty", ErrConfiguration)
	}
	if c.StatsDays <= 0 {
		return fmt.Errorf("%w: STATS_DAYS must be positive", ErrConfiguration)
	}

	for _, kind := range entity.NutrientOrder {
		b := c.NutrientLimits.Bounds(kind)
		if b.Min < 0 || b.Min > b.Max {
			return fmt.Errorf("%w: invalid limits for %s: [%d, %d]", ErrConfiguration, kind, b.Min, b.Max)
		}
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

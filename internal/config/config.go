// Package config загружает конфигурацию сервиса из переменных окружения.
// Используется envconfig для маппинга переменных на поля структуры,
// а godotenv: чтобы подхватить .env при локальном запуске.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Драйверы хранилища
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- HTTP ---
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	// Заголовок, в котором шлюз передаёт ID пользователя
	UserHeader string `envconfig:"USER_HEADER" default:"X-User-ID"`
	// Адреса прокси, которым разрешено передавать X-Forwarded-For.
	// Пусто: IP клиента берётся из сокета.
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`

	// --- Database ---
	DBDriver   string `envconfig:"DB_DRIVER" default:"postgres"`
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"economy"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"economy"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"economy.db"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	// Часовой пояс, по которому считается календарный день
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Asia/Shanghai"`

	// --- Admin ---
	// Пустой хеш отключает админские эндпоинты
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"60"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Lottery ---
	LotteryTriggerChance float64 `envconfig:"LOTTERY_TRIGGER_CHANCE" default:"0.3"`

	// --- Activities ---
	// Формат: daily_checkin:10,daily_post:5
	ActivityIPLimits        map[string]int `envconfig:"ACTIVITY_IP_LIMITS"`
	ActivityDefaultIPLimit  int            `envconfig:"ACTIVITY_DEFAULT_IP_LIMIT" default:"100"`
	ActivityIPRetentionDays int            `envconfig:"ACTIVITY_IP_RETENTION_DAYS" default:"30"`

	// --- Events ---
	PostsLotteryThreshold    int `envconfig:"POSTS_LOTTERY_THRESHOLD" default:"3"`
	CommentsLotteryThreshold int `envconfig:"COMMENTS_LOTTERY_THRESHOLD" default:"5"`

	// --- Feature Flags ---
	FeatureLotteryEnabled bool `envconfig:"FEATURE_LOTTERY_ENABLED" default:"true"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// Validate проверяет значения, которые envconfig проверить не может.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD не задан")
		}
		if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH не задан")
		}
	default:
		return fmt.Errorf("DB_DRIVER должен быть %s или %s, получено %q", DriverPostgres, DriverSQLite, c.DBDriver)
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS и RATE_LIMIT_WINDOW должны быть > 0")
	}
	if c.LotteryTriggerChance < 0 || c.LotteryTriggerChance > 1 {
		return fmt.Errorf("LOTTERY_TRIGGER_CHANCE должен быть в диапазоне [0, 1]")
	}
	for id, n := range c.ActivityIPLimits {
		if id == "" || n <= 0 {
			return fmt.Errorf("ACTIVITY_IP_LIMITS: лимит для %q должен быть > 0, получено %d", id, n)
		}
	}
	if c.ActivityDefaultIPLimit <= 0 {
		return fmt.Errorf("ACTIVITY_DEFAULT_IP_LIMIT должен быть > 0")
	}
	if c.ActivityIPRetentionDays <= 0 {
		return fmt.Errorf("ACTIVITY_IP_RETENTION_DAYS должен быть > 0")
	}
	return nil
}

// Load читает .env (если есть) и переменные окружения.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("не удалось прочитать .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

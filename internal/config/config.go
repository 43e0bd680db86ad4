package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

var (
	// ErrReadConfig возвращается, когда файл конфигурации не удалось прочитать или разобрать
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig возвращается, когда конфигурация не прошла валидацию
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Schedule ScheduleConfig `toml:"schedule"`
	Redis    RedisConfig    `toml:"redis"`
	Kafka    KafkaConfig    `toml:"kafka"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// ScheduleConfig настройки расписания
type ScheduleConfig struct {
	Timezone               string `toml:"timezone"`
	MaxRangeDays           int    `toml:"max_range_days"`
	RefreshIntervalSeconds int    `toml:"refresh_interval_seconds"`
}

// Location загружает часовой пояс салона
func (s ScheduleConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

// RefreshInterval возвращает период фоновой перезагрузки расписания
func (s ScheduleConfig) RefreshInterval() time.Duration {
	return time.Duration(s.RefreshIntervalSeconds) * time.Second
}

// RedisConfig настройки Redis для межинстансовой инвалидации расписания
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Channel  string `toml:"channel"`
}

// KafkaConfig настройки публикации событий записей
type KafkaConfig struct {
	Enabled bool     `toml:"enabled"`
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
}

// Load загружает конфигурацию из TOML файла, применяет значения по умолчанию,
// переменные окружения и проверяет результат
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "appointment-service",
		},
		Schedule: ScheduleConfig{
			Timezone:               "UTC",
			MaxRangeDays:           31,
			RefreshIntervalSeconds: 60,
		},
		Redis: RedisConfig{
			Addr:    "localhost:6379",
			Channel: "schedule.changed",
		},
		Kafka: KafkaConfig{
			Topic: "appointments.events",
		},
	}
}

// applyEnv переопределяет секреты из переменных окружения
func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv("DB_PASSWORD"); ok {
		c.Database.Password = v
	}
	if v, ok := os.LookupEnv("REDIS_PASSWORD"); ok {
		c.Redis.Password = v
	}
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, fmt.Sprintf("server.http_port %d is out of range", c.Server.HTTPPort))
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		problems = append(problems, "database.host and database.dbname are required")
	}
	if _, err := c.Schedule.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("schedule.timezone %q: %v", c.Schedule.Timezone, err))
	}
	if c.Schedule.MaxRangeDays <= 0 {
		problems = append(problems, "schedule.max_range_days must be positive")
	}
	if c.Schedule.RefreshIntervalSeconds < 0 {
		problems = append(problems, "schedule.refresh_interval_seconds must not be negative")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		problems = append(problems, "metrics.path must start with /")
	}
	if c.Redis.Enabled && (c.Redis.Addr == "" || c.Redis.Channel == "") {
		problems = append(problems, "redis.addr and redis.channel are required when redis is enabled")
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		problems = append(problems, "kafka.brokers and kafka.topic are required when kafka is enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

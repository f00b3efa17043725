// Package config loads the server configuration from environment variables
// and Docker secrets.
package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config содержит всю конфигурацию сервера мира.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
}

// ServerConfig содержит настройки HTTP сервера.
type ServerConfig struct {
	Port            string `envconfig:"PORT" default:"8085"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT_SECONDS" default:"10"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL.
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string // Загружается из секрета
	DBName   string `envconfig:"DB_NAME" default:"world"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
}

// RedisConfig содержит настройки подключения к Redis.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// CORSConfig содержит настройки CORS для HTTP API.
type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// LogConfig содержит настройки логирования.
type LogConfig struct {
	Level    string `envconfig:"LOG_LEVEL" default:"info"`
	Encoding string `envconfig:"LOG_ENCODING" default:"json"`
}

// Load загружает конфигурацию из .env (если есть), переменных окружения и секретов.
func Load() (*Config, error) {
	// .env существует только при локальной разработке
	if err := godotenv.Load(); err == nil {
		log.Println("Загружен .env файл")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	password, err := ReadSecret("db_password")
	if err != nil {
		// Вне Docker секретов нет, берем пароль из окружения
		var fallback struct {
			Password string `envconfig:"DB_PASSWORD" default:"postgres"`
		}
		if envErr := envconfig.Process("", &fallback); envErr != nil {
			return nil, fmt.Errorf("ошибка загрузки пароля БД: %w", envErr)
		}
		password = fallback.Password
	}
	cfg.Database.Password = password

	log.Printf("Конфигурация сервера мира загружена:")
	log.Printf("  Port: %s", cfg.Server.Port)
	log.Printf("  DB: %s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	log.Printf("  Redis: %s", cfg.Redis.Addr)

	return &cfg, nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DB       *DBconfig
	RabbitMq *RabbitMqconfig
	App      *Appconfig
	Srv      *Serviceconfig
	Log      *Loggerconfig
}

type DBconfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	Database   string
	MaxRetries int
}

type RabbitMqconfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
}

type Appconfig struct {
	// JwtSecret signs every session token. Rotating it invalidates all
	// outstanding tokens.
	JwtSecret string
	// TokenTTL is the absolute lifetime of an issued session token.
	TokenTTL time.Duration
	// BlacklistTTL is how long a revoked token stays on the blacklist.
	// It is deliberately shorter than TokenTTL; see token_blacklist notes.
	BlacklistTTL time.Duration
}

type Serviceconfig struct {
	AccountServicePort string
}

type Loggerconfig struct {
	Level string
}

func New() (*Config, error) {
	getEnv := func(key, def string) string {
		val := os.Getenv(key)
		if val == "" {
			fmt.Printf("using default %v for %v\n", def, key)
			return def
		}
		return val
	}

	getEnvInt := func(key string, def int) int {
		valStr := os.Getenv(key)
		if valStr == "" {
			fmt.Printf("using default %v for %v\n", def, key)
			return def
		}
		val, err := strconv.Atoi(valStr)
		if err != nil {
			fmt.Printf("using default %v for %v\n", def, key)
			return def
		}
		return val
	}

	cnf := &Config{
		DB: &DBconfig{
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", "postgres"),
			Database:   getEnv("DB_NAME", "ride_hail_accounts"),
			MaxRetries: getEnvInt("DB_MAX_RETRIES", 5),
		},
		RabbitMq: &RabbitMqconfig{
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnvInt("RABBITMQ_PORT", 5672),
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
			VHost:    getEnv("RABBITMQ_VHOST", ""),
		},
		App: &Appconfig{
			JwtSecret:    getEnv("JWT_SECRET_KEY", "dev-secret-change-me"),
			TokenTTL:     time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24*7)) * time.Hour,
			BlacklistTTL: time.Duration(getEnvInt("BLACKLIST_TTL_HOURS", 24)) * time.Hour,
		},
		Srv: &Serviceconfig{
			AccountServicePort: getEnv("ACCOUNT_SERVICE_PORT", "3000"),
		},
		Log: &Loggerconfig{
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
	}

	return cnf, nil
}

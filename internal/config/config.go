package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	LogLevel    string

	MaintenanceToken string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	DecayInterval       string
	DecayInactivityDays int
	DecayStep           int
	DecayBatchSize      int
}

// Load reads configuration from environment variables and an optional .env file.
func Load() Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_SERVICE", "formanet")
	v.SetDefault("APP_VERSION", "0.1.0")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAINTENANCE_TOKEN", "")
	v.SetDefault("DATABASE_TYPE", "postgres")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_NAME", "formanet")
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "postgres")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_IDLE_CONN", 5)
	v.SetDefault("DATABASE_MAX_OPEN_CONN", 25)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DECAY_INTERVAL", "1h")
	v.SetDefault("DECAY_INACTIVITY_DAYS", 7)
	v.SetDefault("DECAY_STEP", 10)
	v.SetDefault("DECAY_BATCH_SIZE", 100)

	return Config{
		AppName:             v.GetString("APP_SERVICE"),
		AppVersion:          v.GetString("APP_VERSION"),
		Environment:         v.GetString("ENVIRONMENT"),
		HTTPAddr:            v.GetString("HTTP_ADDR"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		MaintenanceToken:    strings.TrimSpace(v.GetString("MAINTENANCE_TOKEN")),
		DBType:              v.GetString("DATABASE_TYPE"),
		DBHost:              v.GetString("DATABASE_HOST"),
		DBPort:              v.GetString("DATABASE_PORT"),
		DBName:              v.GetString("DATABASE_NAME"),
		DBUser:              v.GetString("DATABASE_USER"),
		DBPassword:          v.GetString("DATABASE_PASSWORD"),
		DBSSLMode:           v.GetString("DATABASE_SSLMODE"),
		DBMaxIdleConn:       v.GetInt("DATABASE_MAX_IDLE_CONN"),
		DBMaxOpenConn:       v.GetInt("DATABASE_MAX_OPEN_CONN"),
		DBConnMaxLifetime:   v.GetInt("DATABASE_CONN_MAX_LIFETIME"),
		DecayInterval:       v.GetString("DECAY_INTERVAL"),
		DecayInactivityDays: v.GetInt("DECAY_INACTIVITY_DAYS"),
		DecayStep:           v.GetInt("DECAY_STEP"),
		DecayBatchSize:      v.GetInt("DECAY_BATCH_SIZE"),
	}
}

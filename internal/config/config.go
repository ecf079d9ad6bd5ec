// Package config loads service configuration from the environment.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/babyconnect/service-booking/internal/shared/database"
)

// KafkaConfig holds broker addresses and the consumer group prefix.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// JWTConfig holds the token signing parameters.
type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// GeocodeConfig holds the coordinate resolver endpoint.
type GeocodeConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port          string
	AppEnv        string
	DBConfig      database.PostgresConfig
	JWTConfig     JWTConfig
	KafkaConfig   KafkaConfig
	GeocodeConfig GeocodeConfig
}

// Load reads configuration from BOOKING_-prefixed environment variables.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("BOOKING")
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", "8083")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "babyconnect")
	v.SetDefault("DB_PASSWORD", "babyconnect")
	v.SetDefault("DB_NAME", "babyconnect_booking")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("JWT_SECRET", "dev-secret-change-me")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "babyconnect-")
	v.SetDefault("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("GEOCODE_TIMEOUT", "3s")

	cfg := &ServiceConfig{
		Port:   ":" + v.GetString("SERVICE_PORT"),
		AppEnv: v.GetString("APP_ENV"),
		DBConfig: database.PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		JWTConfig: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		KafkaConfig: KafkaConfig{
			Brokers:     strings.Split(v.GetString("KAFKA_BROKERS"), ","),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
		GeocodeConfig: GeocodeConfig{
			BaseURL: v.GetString("GEOCODE_BASE_URL"),
			Timeout: v.GetDuration("GEOCODE_TIMEOUT"),
		},
	}
	return cfg, nil
}

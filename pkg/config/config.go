package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Synergy  SynergyConfig
	Cache    CacheConfig
	Refresh  RefreshConfig
	Secrets  SecretsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SynergyConfig governs the upstream StudentVue SOAP client.
type SynergyConfig struct {
	DefaultHost string
	Timeout     time.Duration
	UserAgent   string
}

// CacheConfig tunes the parsed-gradebook Redis cache.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// RefreshConfig controls the background session refresh worker.
type RefreshConfig struct {
	Enabled  bool
	Interval time.Duration
	Workers  int
}

// SecretsConfig holds the key sealing persisted credentials.
type SecretsConfig struct {
	SealKey string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Synergy = SynergyConfig{
		DefaultHost: v.GetString("SYNERGY_DEFAULT_HOST"),
		Timeout:     parseDuration(v.GetString("SYNERGY_TIMEOUT"), 30*time.Second),
		UserAgent:   v.GetString("SYNERGY_USER_AGENT"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_GRADEBOOK_CACHE"),
		TTL:     parseDuration(v.GetString("GRADEBOOK_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Refresh = RefreshConfig{
		Enabled:  v.GetBool("ENABLE_BACKGROUND_REFRESH"),
		Interval: parseDuration(v.GetString("BACKGROUND_REFRESH_INTERVAL"), 30*time.Minute),
		Workers:  v.GetInt("BACKGROUND_REFRESH_WORKERS"),
	}

	cfg.Secrets = SecretsConfig{
		SealKey: v.GetString("CREDENTIAL_SEAL_KEY"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "gradevue")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "gradevue")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SYNERGY_DEFAULT_HOST", "")
	v.SetDefault("SYNERGY_TIMEOUT", "30s")
	v.SetDefault("SYNERGY_USER_AGENT", "GradeVue/1.0")

	v.SetDefault("ENABLE_GRADEBOOK_CACHE", false)
	v.SetDefault("GRADEBOOK_CACHE_TTL", "5m")

	v.SetDefault("ENABLE_BACKGROUND_REFRESH", false)
	v.SetDefault("BACKGROUND_REFRESH_INTERVAL", "30m")
	v.SetDefault("BACKGROUND_REFRESH_WORKERS", 1)

	v.SetDefault("CREDENTIAL_SEAL_KEY", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

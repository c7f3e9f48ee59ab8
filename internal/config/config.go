package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"merchandising-engine/internal/platform/postgres"
	"merchandising-engine/internal/platform/redis"
	"merchandising-engine/internal/promotion"
)

const (
	CacheDriverRedis  = "redis"
	CacheDriverMemory = "memory"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	Database    postgres.Config
	Redis       redis.Config
	Cache       CacheConfig
}

type CacheConfig struct {
	Driver string // redis | memory
	Prefix string
	TTLs   promotion.TTLs
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads configuration from the process environment, with an optional .env
// file in the working directory or one of its parents as a fallback source.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	v := viper.New()
	v.SetConfigType("env")
	v.SetConfigName(".env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")

	defaults := promotion.DefaultTTLs()
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "merchandising")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_DRIVER", CacheDriverRedis)
	v.SetDefault("CACHE_PREFIX", "merch:")
	v.SetDefault("CACHE_TTL_FLASH_SALES", defaults.FlashSales)
	v.SetDefault("CACHE_TTL_DAILY_DEALS", defaults.DailyDeals)
	v.SetDefault("CACHE_TTL_DAILY_DEALS_FALLBACK", defaults.DailyDealsFallback)
	v.SetDefault("CACHE_TTL_TRENDING", defaults.Trending)
	v.SetDefault("CACHE_TTL_FEATURED", defaults.Featured)
	v.SetDefault("CACHE_TTL_ALSO_LIKE", defaults.AlsoLike)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// .env is optional, the environment is enough
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper(v, "PORT"),
		Environment: strings.ToLower(getEnvOrViper(v, "ENVIRONMENT")),
		LogLevel:    strings.ToLower(getEnvOrViper(v, "LOG_LEVEL")),
		Database: postgres.Config{
			Host:     getEnvOrViper(v, "DB_HOST"),
			Port:     getEnvOrViper(v, "DB_PORT"),
			User:     getEnvOrViper(v, "DB_USER"),
			Password: getEnvOrViper(v, "DB_PASSWORD"),
			DBName:   getEnvOrViper(v, "DB_NAME"),
			SSLMode:  getEnvOrViper(v, "DB_SSLMODE"),
			MaxOpen:  v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdle:  v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Redis: redis.Config{
			Addr:     getEnvOrViper(v, "REDIS_ADDR"),
			Password: getEnvOrViper(v, "REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			Driver: strings.ToLower(getEnvOrViper(v, "CACHE_DRIVER")),
			Prefix: getEnvOrViper(v, "CACHE_PREFIX"),
			TTLs: promotion.TTLs{
				FlashSales:         v.GetDuration("CACHE_TTL_FLASH_SALES"),
				DailyDeals:         v.GetDuration("CACHE_TTL_DAILY_DEALS"),
				DailyDealsFallback: v.GetDuration("CACHE_TTL_DAILY_DEALS_FALLBACK"),
				Trending:           v.GetDuration("CACHE_TTL_TRENDING"),
				Featured:           v.GetDuration("CACHE_TTL_FEATURED"),
				AlsoLike:           v.GetDuration("CACHE_TTL_ALSO_LIKE"),
			},
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Driver {
	case CacheDriverRedis, CacheDriverMemory:
	default:
		return fmt.Errorf("CACHE_DRIVER must be %q or %q, got %q", CacheDriverRedis, CacheDriverMemory, c.Cache.Driver)
	}
	if c.Cache.Driver == CacheDriverRedis && c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required when CACHE_DRIVER=redis")
	}

	ttls := map[string]time.Duration{
		"CACHE_TTL_FLASH_SALES":          c.Cache.TTLs.FlashSales,
		"CACHE_TTL_DAILY_DEALS":          c.Cache.TTLs.DailyDeals,
		"CACHE_TTL_DAILY_DEALS_FALLBACK": c.Cache.TTLs.DailyDealsFallback,
		"CACHE_TTL_TRENDING":             c.Cache.TTLs.Trending,
		"CACHE_TTL_FEATURED":             c.Cache.TTLs.Featured,
		"CACHE_TTL_ALSO_LIKE":            c.Cache.TTLs.AlsoLike,
	}
	for key, ttl := range ttls {
		if ttl <= 0 {
			return fmt.Errorf("%s must be a positive duration", key)
		}
	}
	return nil
}

func getEnvOrViper(v *viper.Viper, key string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return strings.TrimSpace(v.GetString(key))
}

package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort      string
	DBDriver        string
	DatabaseDSN     string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	JWTSecret       string
	TokenTTL        time.Duration
	CatalogCacheTTL time.Duration
	CORSOrigins     []string
	SeedOnStart     bool
	ResetDB         bool
	LogLevel        string
	SwaggerHost     string
}

// Load builds Config from environment with sensible defaults. A .env file in the
// working directory is read first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: ignoring .env: %v", err)
	}

	driver := strings.ToLower(getEnv("DB_DRIVER", "mysql"))
	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		DBDriver:        driver,
		DatabaseDSN:     getEnv("DATABASE_DSN", getEnv("MYSQL_DSN", defaultDSN(driver))),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		RedisPass:       os.Getenv("REDIS_PASSWORD"),
		JWTSecret:       getEnv("JWT_SECRET", "change-me"),
		TokenTTL:        getEnvDuration("TOKEN_TTL", 24*time.Hour),
		CatalogCacheTTL: getEnvDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		CORSOrigins:     getEnvList("CORS_ORIGINS", []string{"*"}),
		SeedOnStart:     getEnvBool("SEED_ON_START", false),
		ResetDB:         getEnvBool("RESET_DB", false),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		SwaggerHost:     os.Getenv("SWAGGER_HOST"),
	}
}

func defaultDSN(driver string) string {
	if driver == "postgres" {
		return "host=localhost user=postgres password=postgres dbname=academy port=5432 sslmode=disable"
	}
	return "user:password@tcp(localhost:3306)/academy?charset=utf8mb4&parseTime=True&loc=Local"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "DB_DRIVER", "DATABASE_DSN", "MYSQL_DSN", "TOKEN_TTL", "CORS_ORIGINS", "SEED_ON_START"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Contains(t, cfg.DatabaseDSN, "tcp(localhost:3306)")
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.SeedOnStart)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("TOKEN_TTL", "1h30m")
	t.Setenv("CATALOG_CACHE_TTL", "not-a-duration")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("SEED_ON_START", "true")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Contains(t, cfg.DatabaseDSN, "dbname=academy")
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.SeedOnStart)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoad_LegacyMySQLDSN(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("MYSQL_DSN", "app:secret@tcp(db:3306)/portal")

	assert.Equal(t, "app:secret@tcp(db:3306)/portal", Load().DatabaseDSN)
}

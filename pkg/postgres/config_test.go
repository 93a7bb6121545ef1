package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_URL(t *testing.T) {
	cfg := Config{Host: "db", Port: 5433, User: "ledger", Password: "p@ss", DBName: "rinha", SSLMode: "disable"}
	assert.Equal(t, "postgres://ledger:p%40ss@db:5433/rinha?sslmode=disable", cfg.URL())
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{MaxConns: 4}.WithDefaults()
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, "disable", cfg.SSLMode)
	assert.Equal(t, int32(4), cfg.MaxConns)
	assert.Equal(t, int32(4), cfg.MinConns)
	assert.Equal(t, time.Hour, cfg.MaxConnLifetime)
	assert.Equal(t, 5*time.Minute, cfg.MaxConnIdleTime)
}

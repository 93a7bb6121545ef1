package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-credit-ledger/internal/app/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.HTTPAddr)
	assert.Equal(t, ":50051", cfg.Server.GRPCAddr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadHeaderTimeout)
	assert.Equal(t, StoreMemory, cfg.Ledger.Store)
	assert.Equal(t, AccountSourceConfig, cfg.Ledger.AccountSource)
	assert.Equal(t, 100, cfg.MySQL.MaxOpenConns)
	assert.Equal(t, 30*time.Minute, cfg.MySQL.ConnMaxLifetime)
	assert.Equal(t, int32(50), cfg.Postgres.MaxConns)
	require.Len(t, cfg.Accounts, 5)
	assert.Equal(t, domain.Account{ID: 4, Limit: 10000000}, cfg.Seeds()[3])
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: ":8080"
  request_timeout: 5s
  read_header_timeout: 2s
ledger:
  store: actor
  wal_path: /tmp/ledger.wal
  debit_policy: credit_limit
accounts:
  - id: 10
    limit: 500
mysql:
  host: mysql
  conn_max_lifetime: 1m
`)
	t.Setenv("GRPC_ADDR", ":6000")
	t.Setenv("LEDGER_STORE", "postgres")
	t.Setenv("POSTGRES_PORT", "6543")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, ":6000", cfg.Server.GRPCAddr)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 2*time.Second, cfg.Server.ReadHeaderTimeout)
	assert.Equal(t, StorePostgres, cfg.Ledger.Store)
	assert.Equal(t, "/tmp/ledger.wal", cfg.Ledger.WALPath)
	assert.Equal(t, "credit_limit", cfg.Ledger.DebitPolicy)
	assert.Equal(t, []domain.Account{{ID: 10, Limit: 500}}, cfg.Seeds())
	assert.Equal(t, "mysql", cfg.MySQL.Host)
	assert.Equal(t, time.Minute, cfg.MySQL.ConnMaxLifetime)
	assert.Equal(t, 6543, cfg.Postgres.Port)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"store":          "ledger:\n  store: redis\n",
		"debit policy":   "ledger:\n  debit_policy: overdraft\n",
		"negative limit": "accounts:\n  - id: 1\n    limit: -1\n",
		"duplicate":      "accounts:\n  - id: 1\n  - id: 1\n",
		"source":         "ledger:\n  account_source: database\n",
		"yaml":           "ledger: [",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_InvalidEnvPort(t *testing.T) {
	t.Setenv("MYSQL_PORT", "abc")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

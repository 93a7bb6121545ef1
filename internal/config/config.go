package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/go-credit-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-credit-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-credit-ledger/internal/logging"
	"github.com/JoeShih716/go-credit-ledger/pkg/mysql"
	"github.com/JoeShih716/go-credit-ledger/pkg/postgres"
)

// DefaultPath 預設設定檔位置
const DefaultPath = "config/config.yaml"

// StoreType 選用哪一種 AccountStore
type StoreType string

const (
	StoreMemory   StoreType = "memory"   // per-account mutex
	StoreActor    StoreType = "actor"    // per-account goroutine
	StoreMySQL    StoreType = "mysql"    // gorm + SELECT ... FOR UPDATE
	StorePostgres StoreType = "postgres" // pgx + SELECT ... FOR UPDATE
)

// AccountSource 記憶體 store 的初始帳戶來源
type AccountSource string

const (
	AccountSourceConfig   AccountSource = "config"
	AccountSourceDatabase AccountSource = "database"
)

type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Ledger   LedgerConfig    `yaml:"ledger"`
	Accounts []AccountConfig `yaml:"accounts"`
	MySQL    mysql.Config    `yaml:"mysql"`
	Postgres postgres.Config `yaml:"postgres"`
	Log      logging.Config  `yaml:"log"`
}

type ServerConfig struct {
	HTTPAddr        string        `yaml:"http_addr"`
	GRPCAddr        string        `yaml:"grpc_addr"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

type LedgerConfig struct {
	Store       StoreType `yaml:"store"`
	WALPath     string    `yaml:"wal_path"` // 空字串表示不啟用 WAL
	DebitPolicy string    `yaml:"debit_policy"`
	QueueSize   int       `yaml:"queue_size"`
	// AccountSource 為 database 時，記憶體 store 從 mysql/postgres 載入帳戶 (需設定 SeedDatabase)
	AccountSource AccountSource `yaml:"account_source"`
	SeedDatabase  StoreType     `yaml:"seed_database"`
}

type AccountConfig struct {
	ID      int64 `yaml:"id"`
	Limit   int64 `yaml:"limit"`
	Balance int64 `yaml:"balance"`
}

// defaultAccounts 系統預設的五個帳戶
var defaultAccounts = []AccountConfig{
	{ID: 1, Limit: 100000},
	{ID: 2, Limit: 80000},
	{ID: 3, Limit: 1000000},
	{ID: 4, Limit: 10000000},
	{ID: 5, Limit: 500000},
}

// Load 讀取設定，優先順序: 環境變數 (.env) > yaml 檔案 > 預設值
// 設定檔不存在時只使用環境變數與預設值
func Load(path string) (Config, error) {
	// .env 不存在不是錯誤
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.HTTPAddr = getEnv("HTTP_ADDR", c.Server.HTTPAddr)
	c.Server.GRPCAddr = getEnv("GRPC_ADDR", c.Server.GRPCAddr)
	c.Ledger.Store = StoreType(getEnv("LEDGER_STORE", string(c.Ledger.Store)))
	c.Ledger.WALPath = getEnv("LEDGER_WAL_PATH", c.Ledger.WALPath)
	c.Ledger.DebitPolicy = getEnv("LEDGER_DEBIT_POLICY", c.Ledger.DebitPolicy)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)

	c.MySQL.Host = getEnv("MYSQL_HOST", c.MySQL.Host)
	c.MySQL.User = getEnv("MYSQL_USER", c.MySQL.User)
	c.MySQL.Password = getEnv("MYSQL_PASSWORD", c.MySQL.Password)
	c.MySQL.DBName = getEnv("MYSQL_DB", c.MySQL.DBName)
	c.Postgres.Host = getEnv("POSTGRES_HOST", c.Postgres.Host)
	c.Postgres.User = getEnv("POSTGRES_USER", c.Postgres.User)
	c.Postgres.Password = getEnv("POSTGRES_PASSWORD", c.Postgres.Password)
	c.Postgres.DBName = getEnv("POSTGRES_DB", c.Postgres.DBName)

	var err error
	if c.MySQL.Port, err = getEnvInt("MYSQL_PORT", c.MySQL.Port); err != nil {
		return err
	}
	if c.Postgres.Port, err = getEnvInt("POSTGRES_PORT", c.Postgres.Port); err != nil {
		return err
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = ":9999"
	}
	if c.Server.GRPCAddr == "" {
		c.Server.GRPCAddr = ":50051"
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 30 * time.Second
	}
	if c.Server.ReadHeaderTimeout == 0 {
		c.Server.ReadHeaderTimeout = 5 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Ledger.Store == "" {
		c.Ledger.Store = StoreMemory
	}
	if c.Ledger.AccountSource == "" {
		c.Ledger.AccountSource = AccountSourceConfig
	}
	if len(c.Accounts) == 0 {
		c.Accounts = append([]AccountConfig(nil), defaultAccounts...)
	}
	c.MySQL = c.MySQL.WithDefaults()
	c.Postgres = c.Postgres.WithDefaults()
}

// Validate 檢查設定是否合法
func (c *Config) Validate() error {
	switch c.Ledger.Store {
	case StoreMemory, StoreActor, StoreMySQL, StorePostgres:
	default:
		return fmt.Errorf("unknown ledger store %q", c.Ledger.Store)
	}
	if _, err := usecase.ParseDebitPolicy(c.Ledger.DebitPolicy); err != nil {
		return err
	}
	switch c.Ledger.AccountSource {
	case AccountSourceConfig:
	case AccountSourceDatabase:
		if c.Ledger.SeedDatabase != StoreMySQL && c.Ledger.SeedDatabase != StorePostgres {
			return fmt.Errorf("account_source database requires seed_database mysql or postgres, got %q", c.Ledger.SeedDatabase)
		}
	default:
		return fmt.Errorf("unknown account source %q", c.Ledger.AccountSource)
	}

	seen := make(map[int64]struct{}, len(c.Accounts))
	for _, acc := range c.Accounts {
		if acc.Limit < 0 {
			return fmt.Errorf("account %d: limit must be non-negative", acc.ID)
		}
		if _, ok := seen[acc.ID]; ok {
			return fmt.Errorf("account %d: duplicate id", acc.ID)
		}
		seen[acc.ID] = struct{}{}
	}
	return nil
}

// Seeds 回傳初始帳戶
func (c *Config) Seeds() []domain.Account {
	accounts := make([]domain.Account, 0, len(c.Accounts))
	for _, acc := range c.Accounts {
		accounts = append(accounts, domain.Account{ID: acc.ID, Limit: acc.Limit, Balance: acc.Balance})
	}
	return accounts
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

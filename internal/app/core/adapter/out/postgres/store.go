package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/JoeShih716/go-credit-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-credit-ledger/internal/app/core/usecase"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id           BIGINT PRIMARY KEY,
	credit_limit BIGINT NOT NULL,
	balance      BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS transactions (
	id          BIGSERIAL PRIMARY KEY,
	ref_id      UUID NOT NULL UNIQUE,
	account_id  BIGINT NOT NULL REFERENCES accounts (id),
	amount      BIGINT NOT NULL,
	kind        SMALLINT NOT NULL,
	description VARCHAR(10) NOT NULL,
	occurred_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_account
	ON transactions (account_id, id DESC);
`

const (
	selectAccount          = `SELECT id, credit_limit, balance FROM accounts WHERE id = $1`
	selectAccountForUpdate = selectAccount + ` FOR UPDATE`
	selectAllAccounts      = `SELECT id, credit_limit, balance FROM accounts ORDER BY id`
	selectRefOwner         = `SELECT account_id FROM transactions WHERE ref_id = $1`
	selectLastOccurredAt   = `SELECT COALESCE(MAX(occurred_at), 0) FROM transactions WHERE account_id = $1`
	updateBalance          = `UPDATE accounts SET balance = $2 WHERE id = $1`
	insertTransaction      = `INSERT INTO transactions (ref_id, account_id, amount, kind, description, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	insertAccount = `INSERT INTO accounts (id, credit_limit, balance) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING`
	selectLastTransactions = `SELECT ref_id, account_id, amount, kind, description, occurred_at
		FROM transactions WHERE account_id = $1
		ORDER BY id DESC
		LIMIT $2`
)

// DB PostgresStore 使用的連線操作，*pgxpool.Pool 即滿足此介面
type DB interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type PostgresStore struct {
	db     DB
	logger *zap.Logger
}

func NewPostgresStore(db DB, logger *zap.Logger) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{db: db, logger: logger}
}

// EnsureSchema 建立資料表 (已存在則略過)
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schema)
	return err
}

// Seed 寫入初始帳戶，已存在的帳戶不會被覆蓋
func (s *PostgresStore) Seed(ctx context.Context, accounts []domain.Account) error {
	batch := &pgx.Batch{}
	for _, acc := range accounts {
		batch.Queue(insertAccount, acc.ID, acc.Limit, acc.Balance)
	}
	return s.db.SendBatch(ctx, batch).Close()
}

// LoadAccounts 載入所有帳戶
func (s *PostgresStore) LoadAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := s.db.Query(ctx, selectAllAccounts)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Account, error) {
		return scanAccount(row)
	})
}

// Find 取得帳戶
func (s *PostgresStore) Find(ctx context.Context, accountID int64) (domain.Account, error) {
	acc, err := scanAccount(s.db.QueryRow(ctx, selectAccount, accountID))
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return acc, nil
}

// Apply 在資料庫交易中以 SELECT ... FOR UPDATE 鎖定帳戶後更新餘額並寫入交易紀錄
//
// 同一個 ref_id 在同帳戶重送時回傳目前帳戶，屬於其他帳戶時回傳 domain.ErrTransactionIDConflict
// 入帳時間不早於同帳戶上一筆交易
func (s *PostgresStore) Apply(ctx context.Context, accountID int64, delta int64, tran *domain.Transaction, accept domain.BalancePredicate) (domain.Account, error) {
	var result domain.Account
	err := s.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		acc, err := scanAccount(tx.QueryRow(ctx, selectAccountForUpdate, accountID))
		if err != nil {
			return mapNotFound(err)
		}

		var owner int64
		err = tx.QueryRow(ctx, selectRefOwner, tran.TransactionID).Scan(&owner)
		switch {
		case err == nil && owner == accountID:
			result = acc
			return nil
		case err == nil:
			return domain.ErrTransactionIDConflict
		case !errors.Is(err, pgx.ErrNoRows):
			return fmt.Errorf("%w: %w", domain.ErrSelectTransactionFailed, err)
		}

		candidate, err := domain.AddBalance(acc.Balance, delta)
		if err != nil {
			return err
		}
		if accept != nil && !accept(acc, candidate) {
			return domain.ErrBalanceRejected
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		var last int64
		if err := tx.QueryRow(ctx, selectLastOccurredAt, accountID).Scan(&last); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrSelectTransactionFailed, err)
		}
		rec := *tran
		rec.NotBefore(last)

		if _, err := tx.Exec(ctx, updateBalance, accountID, candidate); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, insertTransaction,
			rec.TransactionID, accountID, rec.Amount, int16(rec.Kind), rec.Description, rec.OccurredAt,
		); err != nil {
			return err
		}

		acc.Balance = candidate
		result = acc
		return nil
	})
	if err != nil {
		if !isExpected(err) {
			s.logger.Error("apply transaction failed", zap.Int64("account_id", accountID), zap.Error(err))
		}
		return domain.Account{}, err
	}
	return result, nil
}

// Statement 在唯讀的 Repeatable Read 交易中讀取餘額與最近 10 筆交易
func (s *PostgresStore) Statement(ctx context.Context, accountID int64) (*domain.Statement, error) {
	var st *domain.Statement
	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	err := s.inTx(ctx, opts, func(tx pgx.Tx) error {
		acc, err := scanAccount(tx.QueryRow(ctx, selectAccount, accountID))
		if err != nil {
			return mapNotFound(err)
		}

		rows, err := tx.Query(ctx, selectLastTransactions, accountID, domain.StatementSize)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrSelectTransactionFailed, err)
		}
		trans, err := pgx.CollectRows(rows, scanTransaction)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrSelectTransactionFailed, err)
		}
		reverse(trans)

		st = &domain.Statement{
			Balance:          acc.Balance,
			Limit:            acc.Limit,
			LastTransactions: trans,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// inTx 在交易中執行 fn，fn 回傳錯誤時 rollback
func (s *PostgresStore) inTx(ctx context.Context, opts pgx.TxOptions, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}
	// Commit 之後的 Rollback 不會有作用
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func scanAccount(row pgx.Row) (domain.Account, error) {
	var acc domain.Account
	err := row.Scan(&acc.ID, &acc.Limit, &acc.Balance)
	return acc, err
}

func scanTransaction(row pgx.CollectableRow) (domain.Transaction, error) {
	var (
		tran domain.Transaction
		id   uuid.UUID
		kind int16
	)
	if err := row.Scan(&id, &tran.AccountID, &tran.Amount, &kind, &tran.Description, &tran.OccurredAt); err != nil {
		return domain.Transaction{}, err
	}
	tran.TransactionID = id
	tran.Kind = domain.TransactionKind(kind)
	return tran, nil
}

func reverse(trans []domain.Transaction) {
	for i, j := 0, len(trans)-1; i < j; i, j = i+1, j-1 {
		trans[i], trans[j] = trans[j], trans[i]
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrAccountNotFound
	}
	return err
}

func isExpected(err error) bool {
	return errors.Is(err, domain.ErrBalanceRejected) ||
		errors.Is(err, domain.ErrAccountNotFound) ||
		errors.Is(err, domain.ErrInvalidTransaction)
}

var _ usecase.AccountStore = (*PostgresStore)(nil)

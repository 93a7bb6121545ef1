package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JoeShih716/go-credit-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-credit-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-credit-ledger/pkg/mysql"
)

// sqlAccount 對應資料庫的 accounts 表
type sqlAccount struct {
	ID          int64 `gorm:"primaryKey;autoIncrement:false"`
	CreditLimit int64 `gorm:"column:credit_limit;not null"`
	Balance     int64 `gorm:"not null"`
	UpdatedAt   int64 `gorm:"autoUpdateTime:milli"` // 自動更新時間
}

func (*sqlAccount) TableName() string {
	return "accounts"
}

// sqlTransaction 對應資料庫的 transactions 表
type sqlTransaction struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	RefID       []byte `gorm:"column:ref_id;type:binary(16);uniqueIndex"` // 對應 domain.TransactionID
	AccountID   int64  `gorm:"not null;index:idx_transactions_account"`
	Amount      int64  `gorm:"not null"`
	Kind        uint8  `gorm:"not null"`
	Description string `gorm:"type:varchar(10);not null"`
	OccurredAt  int64  `gorm:"not null"` // epoch milliseconds
}

func (*sqlTransaction) TableName() string {
	return "transactions"
}

type MySQLStore struct {
	client *mysql.Client
	logger *zap.Logger
}

func NewMySQLStore(client *mysql.Client, logger *zap.Logger) *MySQLStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MySQLStore{
		client: client,
		logger: logger,
	}
}

// Migrate 建立或更新資料表
func (s *MySQLStore) Migrate(ctx context.Context) error {
	return s.client.DB().WithContext(ctx).AutoMigrate(&sqlAccount{}, &sqlTransaction{})
}

// Seed 寫入初始帳戶，已存在的帳戶不會被覆蓋
func (s *MySQLStore) Seed(ctx context.Context, accounts []domain.Account) error {
	if len(accounts) == 0 {
		return nil
	}
	rows := make([]sqlAccount, 0, len(accounts))
	for _, acc := range accounts {
		rows = append(rows, sqlAccount{ID: acc.ID, CreditLimit: acc.Limit, Balance: acc.Balance})
	}
	return s.client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

// LoadAccounts 載入所有帳戶
func (s *MySQLStore) LoadAccounts(ctx context.Context) ([]domain.Account, error) {
	var rows []sqlAccount
	if err := s.client.DB().WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	accounts := make([]domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, row.toDomain())
	}
	return accounts, nil
}

// Find 取得帳戶
func (s *MySQLStore) Find(ctx context.Context, accountID int64) (domain.Account, error) {
	var row sqlAccount
	if err := s.client.DB().WithContext(ctx).Take(&row, accountID).Error; err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return row.toDomain(), nil
}

// Apply 在資料庫交易中以悲觀鎖 (SELECT ... FOR UPDATE) 更新餘額並寫入交易紀錄
//
// 同一個 ref_id 在同帳戶重送時回傳目前帳戶，屬於其他帳戶時回傳 domain.ErrTransactionIDConflict
// 入帳時間不早於同帳戶上一筆交易
func (s *MySQLStore) Apply(ctx context.Context, accountID int64, delta int64, tran *domain.Transaction, accept domain.BalancePredicate) (domain.Account, error) {
	var result domain.Account
	err := s.client.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 鎖定帳戶
		var row sqlAccount
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Take(&row, accountID).Error; err != nil {
			return mapNotFound(err)
		}

		// 2. 冪等檢查，在帳戶鎖之後做才能擋住同時送入的重複交易
		var owners []int64
		if err := tx.Model(&sqlTransaction{}).Where("ref_id = ?", tran.TransactionID[:]).Pluck("account_id", &owners).Error; err != nil {
			return fmt.Errorf("%w: %w", domain.ErrSelectTransactionFailed, err)
		}
		if len(owners) > 0 {
			if owners[0] != accountID {
				return domain.ErrTransactionIDConflict
			}
			result = row.toDomain()
			return nil
		}

		// 3. 餘額檢查
		acc := row.toDomain()
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

		// 4. 入帳時間不早於上一筆
		var last int64
		if err := tx.Model(&sqlTransaction{}).
			Select("COALESCE(MAX(occurred_at), 0)").
			Where("account_id = ?", accountID).
			Row().Scan(&last); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrSelectTransactionFailed, err)
		}
		rec := *tran
		rec.NotBefore(last)

		// 5. 更新餘額並建立交易紀錄
		if err := tx.Model(&row).Update("balance", candidate).Error; err != nil {
			return err
		}
		record := fromDomainTransaction(accountID, &rec)
		if err := tx.Create(&record).Error; err != nil {
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
func (s *MySQLStore) Statement(ctx context.Context, accountID int64) (*domain.Statement, error) {
	var st *domain.Statement
	err := s.client.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row sqlAccount
		if err := tx.Take(&row, accountID).Error; err != nil {
			return mapNotFound(err)
		}

		var records []sqlTransaction
		if err := tx.Where("account_id = ?", accountID).
			Order("id DESC").
			Limit(domain.StatementSize).
			Find(&records).Error; err != nil {
			return fmt.Errorf("%w: %w", domain.ErrSelectTransactionFailed, err)
		}

		st = &domain.Statement{
			Balance:          row.Balance,
			Limit:            row.CreditLimit,
			LastTransactions: toDomainTransactions(records),
		}
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (row *sqlAccount) toDomain() domain.Account {
	return domain.Account{ID: row.ID, Limit: row.CreditLimit, Balance: row.Balance}
}

func fromDomainTransaction(accountID int64, tran *domain.Transaction) sqlTransaction {
	return sqlTransaction{
		RefID:       tran.TransactionID[:],
		AccountID:   accountID,
		Amount:      tran.Amount,
		Kind:        uint8(tran.Kind),
		Description: tran.Description,
		OccurredAt:  tran.OccurredAt,
	}
}

// toDomainTransactions 將新到舊的查詢結果轉為舊到新
func toDomainTransactions(records []sqlTransaction) []domain.Transaction {
	out := make([]domain.Transaction, len(records))
	for i, rec := range records {
		var id uuid.UUID
		copy(id[:], rec.RefID)
		out[len(records)-1-i] = domain.Transaction{
			Amount:        rec.Amount,
			OccurredAt:    rec.OccurredAt,
			AccountID:     rec.AccountID,
			TransactionID: id,
			Description:   rec.Description,
			Kind:          domain.TransactionKind(rec.Kind),
		}
	}
	return out
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrAccountNotFound
	}
	return err
}

func isExpected(err error) bool {
	return errors.Is(err, domain.ErrBalanceRejected) ||
		errors.Is(err, domain.ErrAccountNotFound) ||
		errors.Is(err, domain.ErrInvalidTransaction)
}

var _ usecase.AccountStore = (*MySQLStore)(nil)

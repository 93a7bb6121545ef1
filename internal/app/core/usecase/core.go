package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JoeShih716/go-credit-ledger/internal/app/core/domain"
)

// Outcome 交易或查詢的業務結果
type Outcome uint8

const (
	OutcomeAccepted Outcome = iota
	OutcomeAccountNotFound
	OutcomeInsufficientFunds
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeAccountNotFound:
		return "account_not_found"
	case OutcomeInsufficientFunds:
		return "insufficient_funds"
	}
	return "unknown"
}

// DebitPolicy 扣款後餘額的下限規則
type DebitPolicy string

const (
	// DebitPolicyFloorZero 扣款後餘額必須 >= 0
	DebitPolicyFloorZero DebitPolicy = "floor_zero"
	// DebitPolicyCreditLimit 扣款後餘額必須 >= -limit
	DebitPolicyCreditLimit DebitPolicy = "credit_limit"
)

// ParseDebitPolicy 空字串視為 DebitPolicyFloorZero
func ParseDebitPolicy(s string) (DebitPolicy, error) {
	switch DebitPolicy(s) {
	case "", DebitPolicyFloorZero:
		return DebitPolicyFloorZero, nil
	case DebitPolicyCreditLimit:
		return DebitPolicyCreditLimit, nil
	}
	return "", fmt.Errorf("unknown debit policy %q", s)
}

// predicate 回傳此規則對應的扣款檢查
func (p DebitPolicy) predicate() domain.BalancePredicate {
	if p == DebitPolicyCreditLimit {
		return func(acc domain.Account, candidate int64) bool {
			return candidate >= -acc.Limit
		}
	}
	return func(_ domain.Account, candidate int64) bool {
		return candidate >= 0
	}
}

// PostTransactionRequest 交易請求
type PostTransactionRequest struct {
	// RefID 可選，若提供則作為冪等鍵
	RefID       uuid.UUID
	AccountID   int64
	Amount      int64
	Kind        domain.TransactionKind
	Description string
}

// PostResult 交易結果，Outcome 為 OutcomeAccepted 時 Limit / Balance 才有意義
type PostResult struct {
	Outcome Outcome
	Limit   int64
	Balance int64
}

// StatementResult 對帳單結果
type StatementResult struct {
	Outcome   Outcome
	Statement *domain.Statement
}

// Option 設定 CoreUseCase
type Option func(*CoreUseCase)

// WithClock 替換時間來源 (測試用)
func WithClock(now func() time.Time) Option {
	return func(c *CoreUseCase) {
		c.now = now
	}
}

// WithDebitPolicy 設定扣款規則，預設 DebitPolicyFloorZero
func WithDebitPolicy(p DebitPolicy) Option {
	return func(c *CoreUseCase) {
		c.debitAccept = p.predicate()
	}
}

// WithIDGenerator 替換未帶 RefID 時的交易 ID 產生方式
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(c *CoreUseCase) {
		c.newID = gen
	}
}

// WithLogger 設定 logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *CoreUseCase) {
		c.logger = logger
	}
}

// CoreUseCase 是核心業務邏輯層
type CoreUseCase struct {
	store       AccountStore
	now         func() time.Time
	newID       func() uuid.UUID
	debitAccept domain.BalancePredicate
	logger      *zap.Logger
}

func NewCoreUseCase(store AccountStore, opts ...Option) *CoreUseCase {
	c := &CoreUseCase{
		store:       store,
		now:         time.Now,
		newID:       uuid.New,
		debitAccept: DebitPolicyFloorZero.predicate(),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PostTransaction 處理一筆入帳或扣款
// 帳戶不存在與餘額不足以 Outcome 表示，其他錯誤原樣回傳
func (c *CoreUseCase) PostTransaction(ctx context.Context, req PostTransactionRequest) (PostResult, error) {
	if err := domain.ValidateInput(req.Amount, req.Kind, req.Description); err != nil {
		return PostResult{}, err
	}

	id := req.RefID
	if id == uuid.Nil {
		id = c.newID()
	}
	tran := &domain.Transaction{
		Amount:        req.Amount,
		OccurredAt:    c.now().UnixMilli(),
		AccountID:     req.AccountID,
		TransactionID: id,
		Description:   req.Description,
		Kind:          req.Kind,
	}

	accept := domain.AcceptAll
	if req.Kind == domain.TransactionKindDebit {
		accept = c.debitAccept
	}

	acc, err := c.store.Apply(ctx, req.AccountID, tran.Delta(), tran, accept)
	switch {
	case err == nil:
		return PostResult{Outcome: OutcomeAccepted, Limit: acc.Limit, Balance: acc.Balance}, nil
	case errors.Is(err, domain.ErrAccountNotFound):
		return PostResult{Outcome: OutcomeAccountNotFound}, nil
	case errors.Is(err, domain.ErrBalanceRejected):
		c.logger.Debug("debit rejected",
			zap.Int64("account_id", req.AccountID),
			zap.Int64("amount", req.Amount),
		)
		return PostResult{Outcome: OutcomeInsufficientFunds}, nil
	default:
		return PostResult{}, err
	}
}

// GetStatement 取得對帳單，StatementDate 為讀取當下的時間
func (c *CoreUseCase) GetStatement(ctx context.Context, accountID int64) (StatementResult, error) {
	st, err := c.store.Statement(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return StatementResult{Outcome: OutcomeAccountNotFound}, nil
		}
		return StatementResult{}, err
	}
	st.StatementDate = c.now()
	return StatementResult{Outcome: OutcomeAccepted, Statement: st}, nil
}

// GetAccount 取得帳戶目前狀態
func (c *CoreUseCase) GetAccount(ctx context.Context, accountID int64) (domain.Account, error) {
	return c.store.Find(ctx, accountID)
}

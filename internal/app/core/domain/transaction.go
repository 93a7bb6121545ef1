package domain

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DescriptionMaxLen 描述最多 10 個字元 (以 rune 計)
const DescriptionMaxLen = 10

// TransactionKind 交易類型
// 為了節省記憶體，使用 uint8
type TransactionKind uint8

const (
	// 入帳
	TransactionKindCredit TransactionKind = 1
	// 扣款
	TransactionKindDebit TransactionKind = 2
)

// ParseTransactionKind 將對外的代碼 ("c" / "d") 轉為 TransactionKind
func ParseTransactionKind(code string) (TransactionKind, error) {
	switch code {
	case "c":
		return TransactionKindCredit, nil
	case "d":
		return TransactionKindDebit, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTransactionKind, code)
}

// Code 回傳對外的代碼
func (k TransactionKind) Code() string {
	switch k {
	case TransactionKindCredit:
		return "c"
	case TransactionKindDebit:
		return "d"
	}
	return ""
}

func (k TransactionKind) Valid() bool {
	return k == TransactionKindCredit || k == TransactionKindDebit
}

// Transaction 交易 注意欄位排序以避免 Padding
type Transaction struct {
	// Amount: 金額 (非負)
	Amount int64 `json:"amount"`
	// OccurredAt: 入帳時間 (epoch milliseconds)，由核心在接受時填入
	OccurredAt int64 `json:"occurred_at"`
	// AccountID: 所屬帳戶
	AccountID int64 `json:"account_id"`
	// TransactionID: 外部追蹤號 (UUID)，同時作為冪等鍵
	TransactionID uuid.UUID `json:"transaction_id"`
	// Description: 1~10 字元
	Description string `json:"description"`
	// Kind: 放到最後面，利用 Padding 空間
	Kind TransactionKind `json:"kind"`
}

// Delta 回傳此交易對餘額的影響 (credit 為正, debit 為負)
func (t *Transaction) Delta() int64 {
	if t.Kind == TransactionKindDebit {
		return -t.Amount
	}
	return t.Amount
}

// OccurredTime 回傳 UTC 的入帳時間
func (t *Transaction) OccurredTime() time.Time {
	return time.UnixMilli(t.OccurredAt).UTC()
}

// NotBefore 確保入帳時間不早於同帳戶上一筆交易 (在帳戶鎖內呼叫)
func (t *Transaction) NotBefore(last int64) {
	if t.OccurredAt < last {
		t.OccurredAt = last
	}
}

// Validate 檢查金額、類型與描述
func (t *Transaction) Validate() error {
	return ValidateInput(t.Amount, t.Kind, t.Description)
}

// ValidateInput 檢查一筆交易請求的欄位，錯誤皆包裝 ErrInvalidTransaction
func ValidateInput(amount int64, kind TransactionKind, description string) error {
	if amount < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidTransaction, ErrAmountMustBeNonNegative)
	}
	if !kind.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidTransaction, ErrInvalidTransactionKind)
	}
	if n := utf8.RuneCountInString(description); n < 1 || n > DescriptionMaxLen {
		return fmt.Errorf("%w: %w", ErrInvalidTransaction, ErrInvalidDescription)
	}
	return nil
}

package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAmountMustBeNonNegative 金額不可為負數
	ErrAmountMustBeNonNegative = errors.New("amount must be non-negative")

	// ErrInvalidTransactionKind 交易類型只允許 c / d
	ErrInvalidTransactionKind = errors.New("invalid transaction kind")

	// ErrInvalidDescription 描述長度須為 1~10 字元
	ErrInvalidDescription = errors.New("description must have 1 to 10 characters")

	// ErrInvalidTransaction 交易欄位不合法
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrInsufficientBalance 餘額不足
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrBalanceRejected 新餘額未通過檢查，帳戶未被修改
	ErrBalanceRejected = errors.New("balance rejected")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrWALWriteFailed 寫入 WAL 失敗
	ErrWALWriteFailed = errors.New("wal write failed")

	// ErrSelectTransactionFailed 查詢交易失敗
	ErrSelectTransactionFailed = errors.New("select transaction failed")
)

var (
	// ErrBalanceOverflow 新餘額超出 int64 範圍
	ErrBalanceOverflow = fmt.Errorf("%w: balance out of range", ErrInvalidTransaction)

	// ErrTransactionIDConflict 交易 ID 已經屬於其他帳戶
	ErrTransactionIDConflict = fmt.Errorf("%w: transaction id belongs to another account", ErrInvalidTransaction)
)

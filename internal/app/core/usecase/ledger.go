package usecase

import (
	"context"

	"github.com/JoeShih716/go-credit-ledger/internal/app/core/domain"
)

// AccountStore 是帳戶儲存的介面
// 每個帳戶的 Apply 必須是原子的，不同帳戶之間不可共用同一把全域鎖
type AccountStore interface {
	// Find 取得帳戶 (唯讀)
	Find(ctx context.Context, accountID int64) (domain.Account, error)
	// Apply 以 balance+delta 為候選餘額，accept 通過後寫入餘額並附加交易，回傳寫入後的帳戶
	// accept 拒絕時回傳 domain.ErrBalanceRejected，帳戶不變
	// 同一個 TransactionID 重複送入時直接回傳目前帳戶，不會重複入帳
	Apply(ctx context.Context, accountID int64, delta int64, tran *domain.Transaction, accept domain.BalancePredicate) (domain.Account, error)
	// Statement 取得餘額、額度與最近 10 筆交易的一致快照
	Statement(ctx context.Context, accountID int64) (*domain.Statement, error)
}

package memory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/JoeShih716/go-credit-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-credit-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-credit-ledger/pkg/wal"
)

// mutexSlot 每個帳戶一把 RWMutex
type mutexSlot struct {
	mu    sync.RWMutex
	state *accountState
}

// MutexStore 是一個使用 per-account Mutex 實現的帳戶儲存
//
// 結構:
//
//	slots: 帳戶 ID 對應的 slot，建立後不再增減，讀取 map 本身不需要鎖
//	wal: Write-Ahead Log 實例 (可為 nil)
//	owners: 交易 ID 與帳戶的對應，確保同一個 ID 只入帳一次
type MutexStore struct {
	slots  map[int64]*mutexSlot
	wal    *wal.WAL
	owners *transactionOwners
	logger *zap.Logger
}

// NewMutexStore 建立一個新的 MutexStore 實例
//
// 參數:
//
//	accounts: 初始帳戶
//	opts: WithWAL / WithLogger
//
// 回傳:
//
//	*MutexStore: MutexStore 實例
//	error: 初始化錯誤 (如帳戶重複、WAL 恢復失敗)
func NewMutexStore(accounts []domain.Account, opts ...Option) (*MutexStore, error) {
	o := newOptions(opts)
	states, err := buildStates(accounts)
	if err != nil {
		return nil, err
	}
	owners := &transactionOwners{}

	if o.wal != nil {
		n, err := recoverFromWAL(o.wal, states, owners)
		if err != nil {
			return nil, err
		}
		o.logger.Info("recovered from wal", zap.String("path", o.wal.Path()), zap.Int("transactions", n))
	}

	slots := make(map[int64]*mutexSlot, len(states))
	for id, st := range states {
		slots[id] = &mutexSlot{state: st}
	}
	return &MutexStore{
		slots:  slots,
		wal:    o.wal,
		owners: owners,
		logger: o.logger,
	}, nil
}

// Find 取得帳戶目前狀態
func (m *MutexStore) Find(ctx context.Context, accountID int64) (domain.Account, error) {
	slot, ok := m.slots[accountID]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	slot.mu.RLock()
	defer slot.mu.RUnlock()
	return slot.state.account, nil
}

// Apply 在帳戶鎖內執行交易
//
// 參數:
//
//	ctx: 上下文
//	accountID: 帳戶 ID
//	delta: 餘額變動量
//	tran: 交易物件
//	accept: 新餘額檢查
//
// 回傳:
//
//	domain.Account: 寫入後的帳戶
//	error: 處理錯誤
func (m *MutexStore) Apply(ctx context.Context, accountID int64, delta int64, tran *domain.Transaction, accept domain.BalancePredicate) (domain.Account, error) {
	slot, ok := m.slots[accountID]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()

	acc, err := slot.state.apply(ctx, delta, tran, accept, m.wal, m.owners)
	if err != nil && !isExpected(err) {
		m.logger.Error("apply transaction failed", zap.Int64("account_id", accountID), zap.Error(err))
	}
	return acc, err
}

// Statement 取得帳戶快照
func (m *MutexStore) Statement(ctx context.Context, accountID int64) (*domain.Statement, error) {
	slot, ok := m.slots[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	slot.mu.RLock()
	defer slot.mu.RUnlock()
	return slot.state.statement(), nil
}

var _ usecase.AccountStore = (*MutexStore)(nil)

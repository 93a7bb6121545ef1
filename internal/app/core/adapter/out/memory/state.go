package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-credit-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-credit-ledger/pkg/wal"
)

// ErrStoreClosed ActorStore 已停止，不再接受請求
var ErrStoreClosed = errors.New("memory: store closed")

// accountState 單一帳戶在記憶體中的狀態
// 本身不含鎖，由呼叫端 (mutex 或 actor goroutine) 保證互斥
type accountState struct {
	account domain.Account
	history domain.History
	// 已處理過的交易
	processed map[uuid.UUID]struct{}
}

// transactionOwners 記錄交易 ID 屬於哪個帳戶，所有帳戶共用
// 同一個 ID 只能入帳到一個帳戶
type transactionOwners struct {
	owners sync.Map // uuid.UUID -> int64
}

// claim 為 accountID 佔用交易 ID，ID 已屬於其他帳戶時回傳 false
func (o *transactionOwners) claim(id uuid.UUID, accountID int64) bool {
	owner, loaded := o.owners.LoadOrStore(id, accountID)
	return !loaded || owner.(int64) == accountID
}

// release 交易未入帳時釋放佔用
func (o *transactionOwners) release(id uuid.UUID) {
	o.owners.Delete(id)
}

func newAccountState(acc domain.Account) *accountState {
	return &accountState{
		account:   domain.Account{ID: acc.ID, Limit: acc.Limit, Balance: acc.Balance},
		processed: make(map[uuid.UUID]struct{}),
	}
}

// apply 執行交易核心邏輯
//
// 順序: 冪等檢查 -> 佔用交易 ID -> 餘額檢查 -> ctx 檢查 -> 寫入 WAL -> 更新記憶體
// 任何一步失敗時記憶體狀態不變，並釋放交易 ID
// 入帳時間不早於同帳戶上一筆交易
//
// 參數:
//
//	ctx: 上下文，已取消則不寫入
//	delta: 餘額變動量
//	tran: 交易物件
//	accept: 新餘額檢查
//	w: WAL，可為 nil
//	owners: 跨帳戶的交易 ID 表
//
// 回傳:
//
//	domain.Account: 寫入後的帳戶
//	error: domain.ErrBalanceRejected / domain.ErrBalanceOverflow / domain.ErrTransactionIDConflict / domain.ErrWALWriteFailed / ctx.Err()
func (s *accountState) apply(ctx context.Context, delta int64, tran *domain.Transaction, accept domain.BalancePredicate, w *wal.WAL, owners *transactionOwners) (domain.Account, error) {
	if _, ok := s.processed[tran.TransactionID]; ok {
		return s.account, nil
	}
	if !owners.claim(tran.TransactionID, s.account.ID) {
		return s.account, domain.ErrTransactionIDConflict
	}

	acc, err := s.write(ctx, delta, tran, accept, w)
	if err != nil {
		owners.release(tran.TransactionID)
	}
	return acc, err
}

func (s *accountState) write(ctx context.Context, delta int64, tran *domain.Transaction, accept domain.BalancePredicate, w *wal.WAL) (domain.Account, error) {
	next := s.account
	candidate, err := next.Apply(delta, accept)
	if err != nil {
		return s.account, err
	}

	if err := ctx.Err(); err != nil {
		return s.account, err
	}

	rec := *tran
	rec.AccountID = s.account.ID
	rec.NotBefore(s.history.LastOccurredAt())

	// 1. 寫入 WAL (Critical Path)
	if w != nil {
		if err := w.Write(&rec); err != nil {
			return s.account, fmt.Errorf("%w: %w", domain.ErrWALWriteFailed, err)
		}
	}

	// 2. 更新記憶體
	s.commit(candidate, rec)
	return s.account, nil
}

func (s *accountState) commit(balance int64, rec domain.Transaction) {
	s.account.Balance = balance
	s.history.Append(rec)
	s.processed[rec.TransactionID] = struct{}{}
}

func (s *accountState) statement() *domain.Statement {
	return &domain.Statement{
		Balance:          s.account.Balance,
		Limit:            s.account.Limit,
		LastTransactions: s.history.Last(domain.StatementSize),
	}
}

// buildStates 建立帳戶狀態表，建立後只讀
func buildStates(accounts []domain.Account) (map[int64]*accountState, error) {
	states := make(map[int64]*accountState, len(accounts))
	for _, acc := range accounts {
		if _, ok := states[acc.ID]; ok {
			return nil, fmt.Errorf("memory: duplicate account id %d", acc.ID)
		}
		states[acc.ID] = newAccountState(acc)
	}
	return states, nil
}

// recoverFromWAL 從 WAL 檔案恢復帳本狀態 (不寫入 WAL)
// 只在建構時呼叫，無需 Lock
//
// 回傳:
//
//	int: 重放的交易筆數
//	error: 恢復過程錯誤
func recoverFromWAL(w *wal.WAL, states map[int64]*accountState, owners *transactionOwners) (int, error) {
	replayed := 0
	_, err := w.Replay(func(raw json.RawMessage) error {
		var tran domain.Transaction
		if err := json.Unmarshal(raw, &tran); err != nil {
			return err
		}
		st, ok := states[tran.AccountID]
		if !ok {
			return fmt.Errorf("memory: wal references unknown account %d", tran.AccountID)
		}
		if _, ok := st.processed[tran.TransactionID]; ok {
			return nil
		}
		if !owners.claim(tran.TransactionID, st.account.ID) {
			return fmt.Errorf("memory: wal transaction %s recorded on two accounts", tran.TransactionID)
		}
		balance, err := domain.AddBalance(st.account.Balance, tran.Delta())
		if err != nil {
			return fmt.Errorf("memory: wal transaction %s: %w", tran.TransactionID, err)
		}
		st.commit(balance, tran)
		replayed++
		return nil
	})
	return replayed, err
}

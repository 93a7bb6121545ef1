package memory

import (
	"context"
	"math"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-credit-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-credit-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-credit-ledger/pkg/wal"
)

type storeFactory func(t *testing.T, accounts []domain.Account, opts ...Option) usecase.AccountStore

func newMutexFactory(t *testing.T, accounts []domain.Account, opts ...Option) usecase.AccountStore {
	s, err := NewMutexStore(accounts, opts...)
	require.NoError(t, err)
	return s
}

func newActorFactory(t *testing.T, accounts []domain.Account, opts ...Option) usecase.AccountStore {
	s, err := NewActorStore(accounts, opts...)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	t.Cleanup(func() {
		cancel()
		s.Wait()
	})
	return s
}

var factories = map[string]storeFactory{
	"mutex": newMutexFactory,
	"actor": newActorFactory,
}

func floorZero(_ domain.Account, candidate int64) bool { return candidate >= 0 }

func newTran(kind domain.TransactionKind, amount int64, desc string) *domain.Transaction {
	return &domain.Transaction{
		Amount:        amount,
		OccurredAt:    time.Now().UnixMilli(),
		TransactionID: uuid.New(),
		Description:   desc,
		Kind:          kind,
	}
}

func seeds() []domain.Account {
	return []domain.Account{
		{ID: 1, Limit: 100000},
		{ID: 2, Limit: 80000},
	}
}

func TestStores_FindAndNotFound(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			s := factory(t, seeds())
			ctx := context.Background()

			acc, err := s.Find(ctx, 2)
			require.NoError(t, err)
			assert.Equal(t, domain.Account{ID: 2, Limit: 80000}, acc)

			_, err = s.Find(ctx, 6)
			assert.ErrorIs(t, err, domain.ErrAccountNotFound)

			_, err = s.Apply(ctx, 6, 10, newTran(domain.TransactionKindCredit, 10, "x"), nil)
			assert.ErrorIs(t, err, domain.ErrAccountNotFound)

			_, err = s.Statement(ctx, 6)
			assert.ErrorIs(t, err, domain.ErrAccountNotFound)
		})
	}
}

func TestStores_ApplyAndReject(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			s := factory(t, seeds())
			ctx := context.Background()

			_, err := s.Apply(ctx, 1, -1000, newTran(domain.TransactionKindDebit, 1000, "debit"), floorZero)
			assert.ErrorIs(t, err, domain.ErrBalanceRejected)

			st, err := s.Statement(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, int64(0), st.Balance)
			assert.Empty(t, st.LastTransactions)

			acc, err := s.Apply(ctx, 1, 1000, newTran(domain.TransactionKindCredit, 1000, "credit"), domain.AcceptAll)
			require.NoError(t, err)
			assert.Equal(t, int64(1000), acc.Balance)
			assert.Equal(t, int64(100000), acc.Limit)

			acc, err = s.Apply(ctx, 1, -1000, newTran(domain.TransactionKindDebit, 1000, "debit"), floorZero)
			require.NoError(t, err)
			assert.Equal(t, int64(0), acc.Balance)

			st, err = s.Statement(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, int64(0), st.Balance)
			assert.Equal(t, int64(100000), st.Limit)
			require.Len(t, st.LastTransactions, 2)
			assert.Equal(t, domain.TransactionKindCredit, st.LastTransactions[0].Kind)
			assert.Equal(t, domain.TransactionKindDebit, st.LastTransactions[1].Kind)
			assert.Equal(t, int64(1), st.LastTransactions[0].AccountID)

			// 其他帳戶不受影響
			other, err := s.Find(ctx, 2)
			require.NoError(t, err)
			assert.Equal(t, int64(0), other.Balance)
		})
	}
}

func TestStores_Idempotent(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			s := factory(t, seeds())
			ctx := context.Background()
			tran := newTran(domain.TransactionKindCredit, 500, "once")

			_, err := s.Apply(ctx, 1, 500, tran, nil)
			require.NoError(t, err)
			acc, err := s.Apply(ctx, 1, 500, tran, nil)
			require.NoError(t, err)
			assert.Equal(t, int64(500), acc.Balance)

			st, err := s.Statement(ctx, 1)
			require.NoError(t, err)
			assert.Len(t, st.LastTransactions, 1)
		})
	}
}

func TestStores_CanceledContextDoesNotMutate(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			s := factory(t, seeds())
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := s.Apply(ctx, 1, 100, newTran(domain.TransactionKindCredit, 100, "late"), nil)
			assert.ErrorIs(t, err, context.Canceled)

			acc, err := s.Find(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, int64(0), acc.Balance)
		})
	}
}

func TestStores_StatementKeepsLastTen(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			s := factory(t, seeds())
			ctx := context.Background()
			for i := 1; i <= 12; i++ {
				_, err := s.Apply(ctx, 2, int64(i), newTran(domain.TransactionKindCredit, int64(i), "c"), nil)
				require.NoError(t, err)
			}

			st, err := s.Statement(ctx, 2)
			require.NoError(t, err)
			require.Len(t, st.LastTransactions, domain.StatementSize)
			assert.Equal(t, int64(3), st.LastTransactions[0].Amount)
			assert.Equal(t, int64(12), st.LastTransactions[9].Amount)
			assert.Equal(t, int64(78), st.Balance)
		})
	}
}

// 餘額 B，同時送出 N 筆金額 A 的扣款，只能成功 floor(B/A) 筆
func TestStores_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	const (
		balance     = 10000
		amount      = 300
		concurrency = 100
	)
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			s := factory(t, seeds())
			ctx := context.Background()
			_, err := s.Apply(ctx, 1, balance, newTran(domain.TransactionKindCredit, balance, "seed"), nil)
			require.NoError(t, err)

			var accepted atomic.Int64
			var wg sync.WaitGroup
			wg.Add(concurrency)
			for i := 0; i < concurrency; i++ {
				go func() {
					defer wg.Done()
					_, err := s.Apply(ctx, 1, -amount, newTran(domain.TransactionKindDebit, amount, "d"), floorZero)
					if err == nil {
						accepted.Add(1)
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, int64(balance/amount), accepted.Load())
			acc, err := s.Find(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, int64(balance-accepted.Load()*amount), acc.Balance)
			assert.GreaterOrEqual(t, acc.Balance, int64(0))
		})
	}
}

func TestStores_RecoverFromWAL(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ledger.wal")
			w, err := wal.Open(path)
			require.NoError(t, err)

			s := factory(t, seeds(), WithWAL(w))
			ctx := context.Background()
			credit := newTran(domain.TransactionKindCredit, 700, "credit")
			_, err = s.Apply(ctx, 1, 700, credit, nil)
			require.NoError(t, err)
			_, err = s.Apply(ctx, 1, -200, newTran(domain.TransactionKindDebit, 200, "debit"), floorZero)
			require.NoError(t, err)
			// 被拒絕的交易不會寫入 WAL
			_, err = s.Apply(ctx, 1, -9999, newTran(domain.TransactionKindDebit, 9999, "big"), floorZero)
			require.ErrorIs(t, err, domain.ErrBalanceRejected)
			require.NoError(t, w.Close())

			w2, err := wal.Open(path)
			require.NoError(t, err)
			defer w2.Close()
			recovered := factory(t, seeds(), WithWAL(w2))

			st, err := recovered.Statement(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, int64(500), st.Balance)
			require.Len(t, st.LastTransactions, 2)
			assert.Equal(t, "credit", st.LastTransactions[0].Description)
			assert.Equal(t, "debit", st.LastTransactions[1].Description)

			// 重放後仍然記得已處理過的交易
			acc, err := recovered.Apply(ctx, 1, 700, credit, nil)
			require.NoError(t, err)
			assert.Equal(t, int64(500), acc.Balance)
		})
	}
}

func TestStores_WALFailureLeavesStateUnchanged(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			w, err := wal.Open(filepath.Join(t.TempDir(), "closed.wal"))
			require.NoError(t, err)
			s := factory(t, seeds(), WithWAL(w))
			require.NoError(t, w.Close())

			ctx := context.Background()
			_, err = s.Apply(ctx, 1, 100, newTran(domain.TransactionKindCredit, 100, "lost"), nil)
			assert.ErrorIs(t, err, domain.ErrWALWriteFailed)

			st, err := s.Statement(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, int64(0), st.Balance)
			assert.Empty(t, st.LastTransactions)
		})
	}
}

func TestNewStore_DuplicateAccount(t *testing.T) {
	dup := []domain.Account{{ID: 1}, {ID: 1}}

	_, err := NewMutexStore(dup)
	assert.Error(t, err)
	_, err = NewActorStore(dup)
	assert.Error(t, err)
}

func TestActorStore_Closed(t *testing.T) {
	s, err := NewActorStore(seeds())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()
	s.Wait()

	_, err = s.Find(context.Background(), 1)
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestActorStore_EnqueueHonorsContext(t *testing.T) {
	// 未 Start，輸送帶滿了之後只能等 ctx
	s, err := NewActorStore(seeds(), WithQueueSize(1))
	require.NoError(t, err)

	s.actors[1].queue <- &actorRequest{result: make(chan actorResponse, 1)}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = s.Apply(ctx, 1, 100, newTran(domain.TransactionKindCredit, 100, "c"), nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStores_RefIDOwnedByOtherAccount(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			s := factory(t, seeds())
			ctx := context.Background()
			tran := newTran(domain.TransactionKindCredit, 500, "once")

			_, err := s.Apply(ctx, 1, 500, tran, nil)
			require.NoError(t, err)

			_, err = s.Apply(ctx, 2, 500, tran, nil)
			assert.ErrorIs(t, err, domain.ErrTransactionIDConflict)

			other, err := s.Find(ctx, 2)
			require.NoError(t, err)
			assert.Zero(t, other.Balance)

			// 同帳戶重送仍然是冪等
			acc, err := s.Apply(ctx, 1, 500, tran, nil)
			require.NoError(t, err)
			assert.Equal(t, int64(500), acc.Balance)
		})
	}
}

func TestStores_RejectedRefIDCanBeReused(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			s := factory(t, seeds())
			ctx := context.Background()
			tran := newTran(domain.TransactionKindDebit, 100, "retry")

			_, err := s.Apply(ctx, 1, -100, tran, floorZero)
			require.ErrorIs(t, err, domain.ErrBalanceRejected)

			// 未入帳的交易 ID 不會被佔用
			_, err = s.Apply(ctx, 2, 100, tran, nil)
			require.NoError(t, err)
		})
	}
}

func TestStores_BalanceOverflow(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			s := factory(t, seeds())
			ctx := context.Background()

			_, err := s.Apply(ctx, 1, math.MaxInt64, newTran(domain.TransactionKindCredit, math.MaxInt64, "max"), nil)
			require.NoError(t, err)

			_, err = s.Apply(ctx, 1, 1, newTran(domain.TransactionKindCredit, 1, "one"), nil)
			assert.ErrorIs(t, err, domain.ErrBalanceOverflow)

			st, err := s.Statement(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, int64(math.MaxInt64), st.Balance)
			assert.Len(t, st.LastTransactions, 1)
		})
	}
}

func TestStores_OccurredAtNeverGoesBack(t *testing.T) {
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			s := factory(t, seeds())
			ctx := context.Background()

			late := newTran(domain.TransactionKindCredit, 10, "late")
			late.OccurredAt = 2000
			early := newTran(domain.TransactionKindCredit, 10, "early")
			early.OccurredAt = 1000

			_, err := s.Apply(ctx, 1, 10, late, nil)
			require.NoError(t, err)
			_, err = s.Apply(ctx, 1, 10, early, nil)
			require.NoError(t, err)

			st, err := s.Statement(ctx, 1)
			require.NoError(t, err)
			require.Len(t, st.LastTransactions, 2)
			assert.Equal(t, int64(2000), st.LastTransactions[0].OccurredAt)
			assert.Equal(t, int64(2000), st.LastTransactions[1].OccurredAt)
			// 呼叫端的交易物件不被修改
			assert.Equal(t, int64(1000), early.OccurredAt)
		})
	}
}

package memory

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/JoeShih716/go-credit-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-credit-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-credit-ledger/pkg/wal"
)

type requestKind uint8

const (
	requestApply requestKind = iota
	requestFind
	requestStatement
)

// actorRequest 請求包裝 channel，讓呼叫端可以等待結果
type actorRequest struct {
	ctx    context.Context
	kind   requestKind
	delta  int64
	tran   *domain.Transaction
	accept domain.BalancePredicate
	result chan actorResponse // 呼叫端等這個 channel
}

type actorResponse struct {
	account   domain.Account
	statement *domain.Statement
	err       error
}

// accountActor 每個帳戶一個 goroutine 與一條輸送帶
type accountActor struct {
	state *accountState
	queue chan *actorRequest
	done  chan struct{}
}

// ActorStore 每個帳戶由單一 goroutine 依序處理所有讀寫
//
// 呼叫端 -> 帳戶輸送帶 -> actor (核心) -> WAL -> 更新狀態 -> result channel -> 呼叫端
//
// 必須先呼叫 Start 才會開始處理請求
type ActorStore struct {
	actors map[int64]*accountActor
	wal    *wal.WAL
	owners *transactionOwners
	logger *zap.Logger
	// Pool 減少 GC 壓力
	requestPool sync.Pool
	startOnce   sync.Once
	wg          sync.WaitGroup
}

// NewActorStore 建立一個新的 ActorStore 實例 (WAL 恢復在這裡完成)
//
// 參數:
//
//	accounts: 初始帳戶
//	opts: WithWAL / WithLogger / WithQueueSize
//
// 回傳:
//
//	*ActorStore: ActorStore 實例
//	error: 初始化錯誤
func NewActorStore(accounts []domain.Account, opts ...Option) (*ActorStore, error) {
	o := newOptions(opts)
	states, err := buildStates(accounts)
	if err != nil {
		return nil, err
	}
	owners := &transactionOwners{}

	// 在啟動前先恢復資料
	if o.wal != nil {
		n, err := recoverFromWAL(o.wal, states, owners)
		if err != nil {
			return nil, err
		}
		o.logger.Info("recovered from wal", zap.String("path", o.wal.Path()), zap.Int("transactions", n))
	}

	actors := make(map[int64]*accountActor, len(states))
	for id, st := range states {
		actors[id] = &accountActor{
			state: st,
			queue: make(chan *actorRequest, o.queueSize),
			done:  make(chan struct{}),
		}
	}
	return &ActorStore{
		actors: actors,
		wal:    o.wal,
		owners: owners,
		logger: o.logger,
		requestPool: sync.Pool{
			New: func() any {
				return &actorRequest{
					result: make(chan actorResponse, 1),
				}
			},
		},
	}, nil
}

// Start 啟動每個帳戶的 goroutine (非同步)
// ctx 結束時會把輸送帶剩下的請求處理完才退出
func (a *ActorStore) Start(ctx context.Context) {
	a.startOnce.Do(func() {
		for _, actor := range a.actors {
			a.wg.Add(1)
			go a.run(ctx, actor)
		}
	})
}

// Wait 等待所有帳戶 goroutine 結束
func (a *ActorStore) Wait() {
	a.wg.Wait()
}

func (a *ActorStore) run(ctx context.Context, actor *accountActor) {
	defer a.wg.Done()
	defer close(actor.done)
	for {
		select {
		case <-ctx.Done():
			// 收到關閉信號，把剩下的請求處理完
			a.drain(actor)
			return
		case req := <-actor.queue:
			a.process(actor, req)
		}
	}
}

func (a *ActorStore) drain(actor *accountActor) {
	for {
		select {
		case req := <-actor.queue:
			a.process(actor, req)
		default:
			return
		}
	}
}

// process 處理單筆請求並回傳結果
func (a *ActorStore) process(actor *accountActor, req *actorRequest) {
	var res actorResponse
	switch req.kind {
	case requestApply:
		res.account, res.err = actor.state.apply(req.ctx, req.delta, req.tran, req.accept, a.wal, a.owners)
		if res.err != nil && !isExpected(res.err) {
			a.logger.Error("apply transaction failed", zap.Int64("account_id", actor.state.account.ID), zap.Error(res.err))
		}
	case requestFind:
		res.account = actor.state.account
	case requestStatement:
		res.statement = actor.state.statement()
	}
	req.result <- res
}

// submit 放入帳戶輸送帶並等待結果
// 放入前 ctx 結束則直接回傳；放入後一定等待 actor 回覆
func (a *ActorStore) submit(ctx context.Context, accountID int64, fill func(req *actorRequest)) (actorResponse, error) {
	actor, ok := a.actors[accountID]
	if !ok {
		return actorResponse{}, domain.ErrAccountNotFound
	}

	// 1. 放入輸送帶 (使用 sync.Pool 減少 GC)
	req := a.requestPool.Get().(*actorRequest)
	req.ctx = ctx
	fill(req)

	select {
	case actor.queue <- req:
	case <-ctx.Done():
		a.release(req)
		return actorResponse{}, ctx.Err()
	case <-actor.done:
		a.release(req)
		return actorResponse{}, ErrStoreClosed
	}

	select {
	case res := <-req.result:
		a.release(req)
		return res, res.err
	case <-actor.done:
		// actor 已退出；若結果已送出仍以結果為準
		select {
		case res := <-req.result:
			a.release(req)
			return res, res.err
		default:
			// 請求仍留在輸送帶中，不放回 Pool
			return actorResponse{}, ErrStoreClosed
		}
	}
}

func (a *ActorStore) release(req *actorRequest) {
	req.ctx = nil
	req.tran = nil
	req.accept = nil
	req.delta = 0
	a.requestPool.Put(req)
}

// Find 取得帳戶目前狀態
func (a *ActorStore) Find(ctx context.Context, accountID int64) (domain.Account, error) {
	res, err := a.submit(ctx, accountID, func(req *actorRequest) {
		req.kind = requestFind
	})
	return res.account, err
}

// Apply 交給帳戶 goroutine 執行交易
func (a *ActorStore) Apply(ctx context.Context, accountID int64, delta int64, tran *domain.Transaction, accept domain.BalancePredicate) (domain.Account, error) {
	res, err := a.submit(ctx, accountID, func(req *actorRequest) {
		req.kind = requestApply
		req.delta = delta
		req.tran = tran
		req.accept = accept
	})
	return res.account, err
}

// Statement 取得帳戶快照，與寫入走同一條輸送帶
func (a *ActorStore) Statement(ctx context.Context, accountID int64) (*domain.Statement, error) {
	res, err := a.submit(ctx, accountID, func(req *actorRequest) {
		req.kind = requestStatement
	})
	if err != nil {
		return nil, err
	}
	return res.statement, nil
}

// isExpected 業務上預期的錯誤不需要記錄
func isExpected(err error) bool {
	return errors.Is(err, domain.ErrBalanceRejected) ||
		errors.Is(err, domain.ErrInvalidTransaction) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

var _ usecase.AccountStore = (*ActorStore)(nil)

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JoeShih716/go-credit-ledger/pkg/grpc"
	pb "github.com/JoeShih716/go-credit-ledger/proto"
)

const (
	TotalCount  = 100000
	Concurrency = 1000
	AccountID   = 1
	Amount      = 10
)

// 對同一個帳戶先入帳再同時大量扣款，最後檢查餘額沒有低於 0 且成功筆數正確
func main() {
	logger, _ := zap.NewDevelopment()
	defer func() { _ = logger.Sync() }()

	target := os.Getenv("GRPC_TARGET")
	if target == "" {
		target = "localhost:50051"
	}
	totalCount := envInt("TOTAL_COUNT", TotalCount)
	concurrency := envInt("CONCURRENCY", Concurrency)

	pool := grpc.NewPool()
	defer pool.Close()
	conn, err := pool.GetConnection(target)
	if err != nil {
		logger.Fatal("did not connect", zap.Error(err))
	}
	c := pb.NewLedgerServiceClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	before, err := c.GetStatement(ctx, &pb.GetStatementRequest{AccountId: AccountID})
	if err != nil {
		logger.Fatal("get statement failed", zap.Error(err))
	}

	// 只入帳一半的金額，讓一半的扣款被拒絕
	credit := int64(totalCount/2) * Amount
	if _, err := c.PostTransaction(ctx, &pb.PostTransactionRequest{
		RefId:       uuid.NewString(),
		AccountId:   AccountID,
		Amount:      credit,
		Kind:        pb.KindCredit,
		Description: "loadtest",
	}); err != nil {
		logger.Fatal("credit failed", zap.Error(err))
	}

	var (
		wg       sync.WaitGroup
		accepted atomic.Int64
		rejected atomic.Int64
		failed   atomic.Int64
	)
	wg.Add(totalCount)
	sem := make(chan struct{}, concurrency)
	startTime := time.Now()

	for i := 0; i < totalCount; i++ {
		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := c.PostTransaction(ctx, &pb.PostTransactionRequest{
				RefId:       uuid.NewString(),
				AccountId:   AccountID,
				Amount:      Amount,
				Kind:        pb.KindDebit,
				Description: "loadtest",
			})
			switch {
			case err != nil:
				failed.Add(1)
				if idx%10000 == 0 {
					logger.Warn("debit failed", zap.Int("idx", idx), zap.Error(err))
				}
			case res.Success:
				accepted.Add(1)
			default:
				rejected.Add(1)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(startTime)

	after, err := c.GetStatement(ctx, &pb.GetStatementRequest{AccountId: AccountID})
	if err != nil {
		logger.Fatal("get statement failed", zap.Error(err))
	}

	fmt.Printf("Completed %d requests in %v\n", totalCount, elapsed)
	fmt.Printf("TPS: %.2f\n", float64(totalCount)/elapsed.Seconds())
	fmt.Printf("accepted=%d rejected=%d failed=%d\n", accepted.Load(), rejected.Load(), failed.Load())
	fmt.Printf("balance before=%d after=%d\n", before.Balance, after.Balance)

	want := before.Balance + credit - accepted.Load()*Amount
	if after.Balance != want {
		logger.Fatal("balance mismatch", zap.Int64("want", want), zap.Int64("got", after.Balance))
	}
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

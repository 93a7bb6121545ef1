package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_adapter "github.com/JoeShih716/go-credit-ledger/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-credit-ledger/internal/app/core/adapter/in/rest"
	memory_adapter "github.com/JoeShih716/go-credit-ledger/internal/app/core/adapter/out/memory"
	mysql_adapter "github.com/JoeShih716/go-credit-ledger/internal/app/core/adapter/out/mysql"
	postgres_adapter "github.com/JoeShih716/go-credit-ledger/internal/app/core/adapter/out/postgres"
	"github.com/JoeShih716/go-credit-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-credit-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-credit-ledger/internal/config"
	"github.com/JoeShih716/go-credit-ledger/internal/logging"
	"github.com/JoeShih716/go-credit-ledger/pkg/mysql"
	"github.com/JoeShih716/go-credit-ledger/pkg/postgres"
	"github.com/JoeShih716/go-credit-ledger/pkg/wal"
	pb "github.com/JoeShih716/go-credit-ledger/proto"
)

func main() {
	// 1. 載入設定
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}
	logger.Info("server exited")
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. 初始化 AccountStore
	store, cleanup, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	// 3. 初始化 UseCase
	policy, err := usecase.ParseDebitPolicy(cfg.Ledger.DebitPolicy)
	if err != nil {
		return err
	}
	coreUseCase := usecase.NewCoreUseCase(store,
		usecase.WithDebitPolicy(policy),
		usecase.WithLogger(logger.Named("core")),
	)

	// 4. HTTP Adapter
	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           rest.NewRouter(rest.NewHandler(coreUseCase, logger), logger.Named("http"), cfg.Server.RequestTimeout),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	// 5. gRPC Adapter
	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.GRPCAddr, err)
	}
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(grpc_adapter.UnaryLoggingInterceptor(logger.Named("grpc"))))
	pb.RegisterLedgerServiceServer(grpcServer, grpc_adapter.NewGrpcServer(coreUseCase, logger))
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer) // 方便 gRPC Client 測試

	errCh := make(chan error, 2)
	go func() {
		logger.Info("starting grpc server", zap.String("addr", cfg.Server.GRPCAddr))
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.Server.HTTPAddr), zap.String("store", string(cfg.Ledger.Store)))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	// Graceful Shutdown
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down server...")
	case runErr = <-errCh:
	}

	healthServer.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	return runErr
}

// buildStore 依設定建立 AccountStore，回傳的 cleanup 在 server 停止後呼叫
func buildStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (usecase.AccountStore, func(), error) {
	storeLogger := logger.Named("store")

	switch cfg.Ledger.Store {
	case config.StoreMySQL:
		dbStore, closeDB, err := openMySQL(ctx, cfg, storeLogger)
		if err != nil {
			return nil, nil, err
		}
		return dbStore, closeDB, nil

	case config.StorePostgres:
		dbStore, closeDB, err := openPostgres(ctx, cfg, storeLogger)
		if err != nil {
			return nil, nil, err
		}
		return dbStore, closeDB, nil

	case config.StoreMemory, config.StoreActor:
		accounts, err := loadAccounts(ctx, cfg, storeLogger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("loaded accounts", zap.Int("count", len(accounts)))

		opts := []memory_adapter.Option{
			memory_adapter.WithLogger(storeLogger),
			memory_adapter.WithQueueSize(cfg.Ledger.QueueSize),
		}
		cleanup := func() {}
		if cfg.Ledger.WALPath != "" {
			walFile, err := wal.Open(cfg.Ledger.WALPath, wal.WithLogger(storeLogger))
			if err != nil {
				return nil, nil, fmt.Errorf("failed to open wal: %w", err)
			}
			opts = append(opts, memory_adapter.WithWAL(walFile))
			cleanup = func() { _ = walFile.Close() }
		}

		if cfg.Ledger.Store == config.StoreMemory {
			mutexStore, err := memory_adapter.NewMutexStore(accounts, opts...)
			if err != nil {
				cleanup()
				return nil, nil, err
			}
			return mutexStore, cleanup, nil
		}

		actorStore, err := memory_adapter.NewActorStore(accounts, opts...)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		actorCtx, cancel := context.WithCancel(context.Background())
		actorStore.Start(actorCtx)
		return actorStore, func() {
			// 先讓 actor 處理完輸送帶，再關閉 WAL
			cancel()
			actorStore.Wait()
			cleanup()
		}, nil
	}
	return nil, nil, fmt.Errorf("invalid ledger store: %s", cfg.Ledger.Store)
}

// loadAccounts 記憶體 store 的初始帳戶，來源為設定檔或資料庫
func loadAccounts(ctx context.Context, cfg config.Config, logger *zap.Logger) ([]domain.Account, error) {
	if cfg.Ledger.AccountSource != config.AccountSourceDatabase {
		return cfg.Seeds(), nil
	}

	type accountLoader interface {
		LoadAccounts(ctx context.Context) ([]domain.Account, error)
	}
	var (
		loader  accountLoader
		closeDB func()
		err     error
	)
	switch cfg.Ledger.SeedDatabase {
	case config.StoreMySQL:
		loader, closeDB, err = openMySQL(ctx, cfg, logger)
	case config.StorePostgres:
		loader, closeDB, err = openPostgres(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("invalid seed database: %s", cfg.Ledger.SeedDatabase)
	}
	if err != nil {
		return nil, err
	}
	defer closeDB()
	return loader.LoadAccounts(ctx)
}

func openMySQL(ctx context.Context, cfg config.Config, logger *zap.Logger) (*mysql_adapter.MySQLStore, func(), error) {
	client, err := mysql.NewClient(cfg.MySQL, logger)
	if err != nil {
		return nil, nil, err
	}
	dbStore := mysql_adapter.NewMySQLStore(client, logger)
	if err := dbStore.Migrate(ctx); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to migrate mysql: %w", err)
	}
	if err := dbStore.Seed(ctx, cfg.Seeds()); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to seed mysql: %w", err)
	}
	return dbStore, func() { _ = client.Close() }, nil
}

func openPostgres(ctx context.Context, cfg config.Config, logger *zap.Logger) (*postgres_adapter.PostgresStore, func(), error) {
	pool, err := postgres.NewPool(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, nil, err
	}
	dbStore := postgres_adapter.NewPostgresStore(pool, logger)
	if err := dbStore.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to create postgres schema: %w", err)
	}
	if err := dbStore.Seed(ctx, cfg.Seeds()); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to seed postgres: %w", err)
	}
	return dbStore, pool.Close, nil
}

package memory

import (
	"go.uber.org/zap"

	"github.com/JoeShih716/go-credit-ledger/pkg/wal"
)

type options struct {
	wal       *wal.WAL
	logger    *zap.Logger
	queueSize int
}

// Option 設定 MutexStore / ActorStore
type Option func(*options)

// WithWAL 啟用 Write-Ahead Log，建構時會先重放
func WithWAL(w *wal.WAL) Option {
	return func(o *options) {
		o.wal = w
	}
}

// WithLogger 設定 logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithQueueSize 設定 ActorStore 每個帳戶的輸送帶長度 (預設 1000)
func WithQueueSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:    zap.NewNop(),
		queueSize: 1000,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

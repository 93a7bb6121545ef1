package wal

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"go.uber.org/zap"
)

// FileMode rw-r--r-- (擁有者讀寫，其他人唯讀)
const FileMode fs.FileMode = 0644

// ErrCorrupted 檔案中間出現無法解析的資料
var ErrCorrupted = errors.New("wal: corrupted record")

// WAL 是一個 JSON-lines 格式的 append-only 日誌
// 每筆 Write 都會 fsync 後才回傳
type WAL struct {
	file   *os.File
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

// Option 設定 WAL
type Option func(*WAL)

// WithLogger 設定 logger (截斷殘缺資料時記錄)
func WithLogger(logger *zap.Logger) Option {
	return func(w *WAL) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Open 開啟或建立一個 WAL 檔案
// O_RDWR讀寫模式
// O_APPEND 每次寫入時自動跳到文件末尾
// O_CREATE 如果文件不存在則建立
func Open(path string, opts ...Option) (*WAL, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, FileMode)
	if err != nil {
		return nil, err
	}
	w := &WAL{file: file, path: path, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path 回傳檔案路徑
func (w *WAL) Path() string {
	return w.path
}

// Write 寫入一筆資料並刷入硬碟
func (w *WAL) Write(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	raw = append(raw, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.file.Write(raw); err != nil {
		return err
	}
	return w.file.Sync()
}

// Sync 強制刷入硬碟
func (w *WAL) Sync() error {
	return w.file.Sync()
}

// Close 關閉檔案
func (w *WAL) Close() error {
	return w.file.Close()
}

// Replay 從頭依序讀取每一筆資料交給 callback，回傳讀到的筆數
//
// 沒有換行結尾的最後一行是寫到一半的資料 (Write 未回傳成功)，會被截斷
// 其他無法解析的資料視為損毀，回傳 ErrCorrupted
func (w *WAL) Replay(callback func(raw json.RawMessage) error) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	reader := bufio.NewReader(w.file)
	var offset int64
	count := 0
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return count, err
		}
		if errors.Is(err, io.EOF) {
			if len(line) > 0 {
				return count, w.truncate(offset, len(line))
			}
			return count, nil
		}

		start := offset
		offset += int64(len(line))
		record := bytes.TrimSpace(line)
		if len(record) == 0 {
			continue
		}
		if !json.Valid(record) {
			return count, fmt.Errorf("%w at offset %d", ErrCorrupted, start)
		}
		if err := callback(json.RawMessage(record)); err != nil {
			return count, err
		}
		count++
	}
}

// truncate 移除 offset 之後殘缺的資料
func (w *WAL) truncate(offset int64, size int) error {
	w.logger.Warn("truncating torn wal record",
		zap.String("path", w.path),
		zap.Int64("offset", offset),
		zap.Int("bytes", size),
	)
	if err := w.file.Truncate(offset); err != nil {
		return err
	}
	return w.file.Sync()
}

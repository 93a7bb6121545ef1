package wal

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID     int   `json:"id"`
	Amount int64 `json:"amount"`
}

func TestWAL_WriteAndReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.wal")

	w, err := Open(path)
	require.NoError(t, err)
	for i := 1; i <= 3; i++ {
		require.NoError(t, w.Write(record{ID: i, Amount: int64(i * 100)}))
	}
	require.NoError(t, w.Close())

	w, err = Open(path)
	require.NoError(t, err)
	defer w.Close()

	var got []record
	n, err := w.Replay(func(raw json.RawMessage) error {
		var r record
		if err := json.Unmarshal(raw, &r); err != nil {
			return err
		}
		got = append(got, r)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []record{{1, 100}, {2, 200}, {3, 300}}, got)

	// Replay 之後仍然是 append
	require.NoError(t, w.Write(record{ID: 4, Amount: 400}))
	n, err = w.Replay(func(json.RawMessage) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestWAL_ReplayEmpty(t *testing.T) {
	w, err := Open(filepath.Join(t.TempDir(), "empty.wal"))
	require.NoError(t, err)
	defer w.Close()

	n, err := w.Replay(func(json.RawMessage) error {
		t.Fatal("callback should not be called")
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWAL_ReplayCallbackError(t *testing.T) {
	w, err := Open(filepath.Join(t.TempDir(), "cb.wal"))
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Write(record{ID: 1}))

	boom := errors.New("boom")
	_, err = w.Replay(func(json.RawMessage) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestWAL_ReplayCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wal")
	require.NoError(t, os.WriteFile(path, []byte("{\"id\":1}\n{not json\n"), FileMode))

	w, err := Open(path)
	require.NoError(t, err)
	defer w.Close()

	n, err := w.Replay(func(json.RawMessage) error { return nil })
	assert.ErrorIs(t, err, ErrCorrupted)
	assert.Equal(t, 1, n)
}

func TestWAL_ReplayTruncatesTornTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "torn.wal")
	first := "{\"id\":1,\"amount\":100}\n"
	require.NoError(t, os.WriteFile(path, []byte(first+"{\"id\":2,\"amo"), FileMode))

	w, err := Open(path)
	require.NoError(t, err)
	defer w.Close()

	n, err := w.Replay(func(json.RawMessage) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(first)), info.Size())

	// 截斷後的寫入接在完整資料之後
	require.NoError(t, w.Write(record{ID: 2, Amount: 200}))
	var got []record
	n, err = w.Replay(func(raw json.RawMessage) error {
		var r record
		if err := json.Unmarshal(raw, &r); err != nil {
			return err
		}
		got = append(got, r)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []record{{1, 100}, {2, 200}}, got)
}

func TestWAL_ReplayCorruptedLastCompleteLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badtail.wal")
	require.NoError(t, os.WriteFile(path, []byte("{\"id\":1}\n{\"id\":\n"), FileMode))

	w, err := Open(path)
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Replay(func(json.RawMessage) error { return nil })
	assert.ErrorIs(t, err, ErrCorrupted)
}

func TestWAL_WriteAfterClose(t *testing.T) {
	w, err := Open(filepath.Join(t.TempDir(), "closed.wal"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Error(t, w.Write(record{ID: 1}))
}

package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"github.com/JoeShih716/go-credit-ledger/internal/app/core/domain"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		*(d.(*int64)) = r.values[i].(int64)
	}
	return nil
}

func TestScanAccount(t *testing.T) {
	acc, err := scanAccount(fakeRow{values: []any{int64(3), int64(1000000), int64(-20)}})
	assert.NoError(t, err)
	assert.Equal(t, domain.Account{ID: 3, Limit: 1000000, Balance: -20}, acc)

	_, err = scanAccount(fakeRow{err: pgx.ErrNoRows})
	assert.ErrorIs(t, mapNotFound(err), domain.ErrAccountNotFound)
}

func TestMapNotFound(t *testing.T) {
	other := errors.New("serialization failure")
	assert.Equal(t, other, mapNotFound(other))
}

func TestReverse(t *testing.T) {
	trans := []domain.Transaction{{Amount: 3}, {Amount: 2}, {Amount: 1}}
	reverse(trans)
	assert.Equal(t, []domain.Transaction{{Amount: 1}, {Amount: 2}, {Amount: 3}}, trans)

	var empty []domain.Transaction
	reverse(empty)
	assert.Empty(t, empty)
}

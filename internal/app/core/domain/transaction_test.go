package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransactionKind(t *testing.T) {
	kind, err := ParseTransactionKind("c")
	require.NoError(t, err)
	assert.Equal(t, TransactionKindCredit, kind)

	kind, err = ParseTransactionKind("d")
	require.NoError(t, err)
	assert.Equal(t, TransactionKindDebit, kind)

	_, err = ParseTransactionKind("x")
	assert.ErrorIs(t, err, ErrInvalidTransactionKind)
}

func TestTransaction_Delta(t *testing.T) {
	credit := Transaction{Amount: 500, Kind: TransactionKindCredit}
	debit := Transaction{Amount: 500, Kind: TransactionKindDebit}

	assert.Equal(t, int64(500), credit.Delta())
	assert.Equal(t, int64(-500), debit.Delta())
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name        string
		amount      int64
		kind        TransactionKind
		description string
		want        error
	}{
		{"valid", 100, TransactionKindCredit, "deposit", nil},
		{"zero amount", 0, TransactionKindDebit, "x", nil},
		{"ten runes", 1, TransactionKindDebit, "áéíóúáéíóú", nil},
		{"negative amount", -1, TransactionKindCredit, "x", ErrAmountMustBeNonNegative},
		{"unknown kind", 1, TransactionKind(9), "x", ErrInvalidTransactionKind},
		{"empty description", 1, TransactionKindCredit, "", ErrInvalidDescription},
		{"too long", 1, TransactionKindCredit, "12345678901", ErrInvalidDescription},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInput(tt.amount, tt.kind, tt.description)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidTransaction))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAccount_Apply(t *testing.T) {
	acc := NewAccount(1, 1000)
	floorZero := func(_ Account, candidate int64) bool { return candidate >= 0 }

	balance, err := acc.Apply(-1, floorZero)
	assert.ErrorIs(t, err, ErrBalanceRejected)
	assert.Equal(t, int64(0), balance)
	assert.Equal(t, int64(0), acc.Balance)

	balance, err = acc.Apply(300, floorZero)
	require.NoError(t, err)
	assert.Equal(t, int64(300), balance)

	balance, err = acc.Apply(-300, floorZero)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	balance, err = acc.Apply(-50, AcceptAll)
	require.NoError(t, err)
	assert.Equal(t, int64(-50), balance)
}

func TestAddBalance(t *testing.T) {
	tests := []struct {
		name    string
		balance int64
		delta   int64
		want    int64
		wantErr bool
	}{
		{"credit", 10, 5, 15, false},
		{"debit", 10, -15, -5, false},
		{"reach max", math.MaxInt64 - 1, 1, math.MaxInt64, false},
		{"above max", math.MaxInt64, 1, 0, true},
		{"reach min", -1, -math.MaxInt64, math.MinInt64, false},
		{"below min", -2, -math.MaxInt64, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddBalance(tt.balance, tt.delta)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBalanceOverflow)
				assert.ErrorIs(t, err, ErrInvalidTransaction)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAccount_ApplyOverflowKeepsBalance(t *testing.T) {
	acc := &Account{ID: 1, Balance: math.MaxInt64}
	balance, err := acc.Apply(1, AcceptAll)
	assert.ErrorIs(t, err, ErrBalanceOverflow)
	assert.Equal(t, int64(math.MaxInt64), balance)
	assert.Equal(t, int64(math.MaxInt64), acc.Balance)
}

func TestTransaction_NotBefore(t *testing.T) {
	tran := Transaction{OccurredAt: 1000}
	tran.NotBefore(500)
	assert.Equal(t, int64(1000), tran.OccurredAt)
	tran.NotBefore(2000)
	assert.Equal(t, int64(2000), tran.OccurredAt)
}

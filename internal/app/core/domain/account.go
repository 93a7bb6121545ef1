package domain

import "math"

// BalancePredicate 判斷帳戶是否可以接受新的餘額 candidate
type BalancePredicate func(acc Account, candidate int64) bool

// AcceptAll 永遠接受 (WAL 重放時使用)
func AcceptAll(Account, int64) bool { return true }

type Account struct {
	ID int64
	// Limit 建立後不再改變
	Limit   int64
	Balance int64
}

func NewAccount(id int64, limit int64) *Account {
	return &Account{
		ID:    id,
		Limit: limit,
	}
}

// Apply 計算 balance + delta，通過 accept 後才寫回
// 若被拒絕則回傳 ErrBalanceRejected 且餘額不變，溢位回傳 ErrBalanceOverflow
func (a *Account) Apply(delta int64, accept BalancePredicate) (int64, error) {
	candidate, err := AddBalance(a.Balance, delta)
	if err != nil {
		return a.Balance, err
	}
	if accept != nil && !accept(*a, candidate) {
		return a.Balance, ErrBalanceRejected
	}
	a.Balance = candidate
	return candidate, nil
}

// AddBalance 計算 balance + delta，超出 int64 範圍時回傳 ErrBalanceOverflow
func AddBalance(balance, delta int64) (int64, error) {
	if (delta > 0 && balance > math.MaxInt64-delta) || (delta < 0 && balance < math.MinInt64-delta) {
		return balance, ErrBalanceOverflow
	}
	return balance + delta, nil
}

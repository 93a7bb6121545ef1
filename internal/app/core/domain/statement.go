package domain

import "time"

// Statement 某個時間點的帳戶快照
type Statement struct {
	Balance          int64
	Limit            int64
	StatementDate    time.Time
	LastTransactions []Transaction
}

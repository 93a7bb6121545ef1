package domain

// StatementSize 對帳單顯示的最近交易筆數
const StatementSize = 10

// History 只保留最近 StatementSize 筆交易的環狀緩衝區
// 完整歷史由 WAL 或資料庫保存
type History struct {
	entries [StatementSize]Transaction
	next    int
	total   int
}

// Append 加入一筆已被接受的交易，覆蓋最舊的一筆
func (h *History) Append(tran Transaction) {
	h.entries[h.next] = tran
	h.next = (h.next + 1) % StatementSize
	h.total++
}

// Len 回傳曾經加入的總筆數
func (h *History) Len() int {
	return h.total
}

// LastOccurredAt 回傳最後一筆交易的時間 (epoch ms)，沒有交易時為 0
func (h *History) LastOccurredAt() int64 {
	if h.total == 0 {
		return 0
	}
	return h.entries[(h.next-1+StatementSize)%StatementSize].OccurredAt
}

// Last 回傳最近 n 筆交易，最舊的在前
func (h *History) Last(n int) []Transaction {
	size := h.total
	if size > StatementSize {
		size = StatementSize
	}
	if n > size {
		n = size
	}
	if n <= 0 {
		return []Transaction{}
	}
	out := make([]Transaction, n)
	start := (h.next - n + StatementSize) % StatementSize
	for i := 0; i < n; i++ {
		out[i] = h.entries[(start+i)%StatementSize]
	}
	return out
}

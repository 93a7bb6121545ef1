package proto

//go:generate protoc --go_out=. --go_opt=paths=source_relative --go-grpc_out=. --go-grpc_opt=paths=source_relative ledger.proto

// PostTransactionRequest.Kind 與 StatementTransaction.Kind 的代碼
const (
	KindCredit = "c"
	KindDebit  = "d"
)

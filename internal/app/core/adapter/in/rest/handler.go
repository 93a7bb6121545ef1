package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JoeShih716/go-credit-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-credit-ledger/internal/app/core/usecase"
)

// DateLayout 對外的時間格式 (UTC, 毫秒)
const DateLayout = "2006-01-02T15:04:05.000Z"

// maxBodyBytes 交易請求 body 上限
const maxBodyBytes = 4 << 10

type transactionRequest struct {
	Valor     json.RawMessage `json:"valor"`
	Tipo      *string         `json:"tipo"`
	Descricao *string         `json:"descricao"`
}

type transactionResponse struct {
	Limite int64 `json:"limite"`
	Saldo  int64 `json:"saldo"`
}

type balanceResponse struct {
	Total       int64  `json:"total"`
	DataExtrato string `json:"data_extrato"`
	Limite      int64  `json:"limite"`
}

type statementEntry struct {
	Valor       int64  `json:"valor"`
	Tipo        string `json:"tipo"`
	Descricao   string `json:"descricao"`
	RealizadaEm string `json:"realizada_em"`
}

type statementResponse struct {
	Saldo             balanceResponse  `json:"saldo"`
	UltimasTransacoes []statementEntry `json:"ultimas_transacoes"`
}

type Handler struct {
	core   *usecase.CoreUseCase
	logger *zap.Logger
}

func NewHandler(core *usecase.CoreUseCase, logger *zap.Logger) *Handler {
	return &Handler{core: core, logger: logger}
}

// PostTransaction POST /clientes/{id}/transacoes
func (h *Handler) PostTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	req, err := decodeTransaction(w, r)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}
	req.AccountID = id

	res, err := h.core.PostTransaction(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	switch res.Outcome {
	case usecase.OutcomeAccepted:
		writeJSON(w, http.StatusOK, transactionResponse{Limite: res.Limit, Saldo: res.Balance})
	case usecase.OutcomeAccountNotFound:
		w.WriteHeader(http.StatusNotFound)
	case usecase.OutcomeInsufficientFunds:
		w.WriteHeader(http.StatusUnprocessableEntity)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// GetStatement GET /clientes/{id}/extrato
func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	res, err := h.core.GetStatement(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if res.Outcome == usecase.OutcomeAccountNotFound {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, newStatementResponse(res.Statement))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrInvalidTransaction) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}
	h.logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	w.WriteHeader(http.StatusInternalServerError)
}

func accountID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// decodeTransaction 解析並檢查請求，valor 必須是整數，tipo 只接受 c / d
func decodeTransaction(w http.ResponseWriter, r *http.Request) (usecase.PostTransactionRequest, error) {
	var body transactionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		return usecase.PostTransactionRequest{}, err
	}
	if body.Tipo == nil || body.Descricao == nil {
		return usecase.PostTransactionRequest{}, domain.ErrInvalidTransaction
	}

	amount, err := strconv.ParseInt(strings.TrimSpace(string(body.Valor)), 10, 64)
	if err != nil {
		return usecase.PostTransactionRequest{}, fmt.Errorf("%w: valor must be an integer", domain.ErrInvalidTransaction)
	}
	kind, err := domain.ParseTransactionKind(*body.Tipo)
	if err != nil {
		return usecase.PostTransactionRequest{}, err
	}
	if err := domain.ValidateInput(amount, kind, *body.Descricao); err != nil {
		return usecase.PostTransactionRequest{}, err
	}

	return usecase.PostTransactionRequest{
		Amount:      amount,
		Kind:        kind,
		Description: *body.Descricao,
	}, nil
}

func newStatementResponse(st *domain.Statement) statementResponse {
	entries := make([]statementEntry, 0, len(st.LastTransactions))
	for _, tran := range st.LastTransactions {
		entries = append(entries, statementEntry{
			Valor:       tran.Amount,
			Tipo:        tran.Kind.Code(),
			Descricao:   tran.Description,
			RealizadaEm: formatDate(tran.OccurredTime()),
		})
	}
	return statementResponse{
		Saldo: balanceResponse{
			Total:       st.Balance,
			DataExtrato: formatDate(st.StatementDate),
			Limite:      st.Limit,
		},
		UltimasTransacoes: entries,
	}
}

func formatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Jaber-riyan/Mamar-Bank/internal/httputil"
	"github.com/Jaber-riyan/Mamar-Bank/internal/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type TransferRequest struct {
	AccountNo uint64          `json:"account_no"`
	Amount    decimal.Decimal `json:"amount"`
}

func writeLedgerErr(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.Log.Error("ledger operation failed", zap.Error(err))
		httputil.WriteError(w, code, "internal error")
		return
	}
	httputil.WriteError(w, code, err.Error())
}

func (h *Handlers) DepositHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(uint64)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acc, err := accountForUser(userID)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "account not found")
		return
	}

	rec, err := h.Ledger.Deposit(r.Context(), uint64(acc.ID), req.Amount)
	if err != nil {
		writeLedgerErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

func (h *Handlers) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(uint64)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acc, err := accountForUser(userID)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "account not found")
		return
	}

	rec, err := h.Ledger.Withdraw(r.Context(), uint64(acc.ID), req.Amount)
	if err != nil {
		writeLedgerErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

func (h *Handlers) TransferHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(uint64)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acc, err := accountForUser(userID)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "account not found")
		return
	}

	if err := h.Ledger.Transfer(r.Context(), uint64(acc.ID), req.AccountNo, req.Amount); err != nil {
		writeLedgerErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "transfer successful"})
}

// TransactionsHandler is the transaction report: the caller's ledger,
// optionally narrowed by start_date/end_date (YYYY-MM-DD, both inclusive).
// When a range is given the response includes the bank-wide signed sum for
// that period.
func (h *Handlers) TransactionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(uint64)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	acc, err := accountForUser(userID)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "account not found")
		return
	}

	var from, to time.Time
	startStr := r.URL.Query().Get("start_date")
	endStr := r.URL.Query().Get("end_date")
	if startStr != "" && endStr != "" {
		from, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "invalid start_date")
			return
		}
		to, err = time.Parse("2006-01-02", endStr)
		if err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "invalid end_date")
			return
		}
	}

	recs, err := h.Ledger.Query(r.Context(), uint64(acc.ID), from, to)
	if err != nil {
		writeLedgerErr(w, err)
		return
	}

	resp := map[string]any{"transactions": recs}
	if !from.IsZero() {
		sum, err := h.Ledger.SumAmounts(r.Context(), from, to)
		if err != nil {
			writeLedgerErr(w, err)
			return
		}
		resp["sum"] = sum
	} else {
		resp["balance"] = acc.Balance
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *Handlers) AccountBalanceHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(uint64)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	acc, err := accountForUser(userID)
	if err != nil || uint64(acc.ID) != id {
		httputil.WriteError(w, http.StatusNotFound, "account not found")
		return
	}

	balance, err := h.Ledger.GetBalance(r.Context(), id)
	if err != nil {
		writeLedgerErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"account_id": id, "balance": balance})
}

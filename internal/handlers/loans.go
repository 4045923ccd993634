package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Jaber-riyan/Mamar-Bank/internal/httputil"
	"github.com/go-chi/chi/v5"
)

func (h *Handlers) LoanRequestHandler(w http.ResponseWriter, r *http.Request) {
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

	loan, err := h.Ledger.RequestLoan(r.Context(), uint64(acc.ID), req.Amount)
	if err != nil {
		writeLedgerErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(loan)
}

func (h *Handlers) LoansHandler(w http.ResponseWriter, r *http.Request) {
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

	loans, err := h.Ledger.Loans(r.Context(), uint64(acc.ID))
	if err != nil {
		writeLedgerErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loans)
}

func (h *Handlers) PayLoanHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(uint64)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	loanID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	acc, err := accountForUser(userID)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "account not found")
		return
	}

	rec, err := h.Ledger.PayLoan(r.Context(), uint64(acc.ID), loanID)
	if err != nil {
		writeLedgerErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

// ApproveLoanHandler is the administrative approval action: it credits the
// borrower's balance and marks the loan approved in one atomic step.
func (h *Handlers) ApproveLoanHandler(w http.ResponseWriter, r *http.Request) {
	loanID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid loan id")
		return
	}

	loan, err := h.Ledger.ApproveLoan(r.Context(), loanID)
	if err != nil {
		writeLedgerErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loan)
}

func (h *Handlers) SuspendHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Ledger.Suspend(r.Context()); err != nil {
		writeLedgerErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "suspended"})
}

func (h *Handlers) ResumeHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Ledger.Resume(r.Context()); err != nil {
		writeLedgerErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "active"})
}

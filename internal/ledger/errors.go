package ledger

import "errors"

var (
	// ErrInvalidAmount rejects non-positive amounts before any mutation.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrAccountNotFound indicates an unknown account identifier.
	ErrAccountNotFound = errors.New("account not found")
	// ErrReceiverNotFound indicates the transfer receiver does not exist.
	ErrReceiverNotFound = errors.New("receiver account not found")
	// ErrInsufficientFunds indicates the amount exceeds the available balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrLoanLimitExceeded indicates the account already carries the maximum
	// number of outstanding approved loans.
	ErrLoanLimitExceeded = errors.New("loan limit exceeded")
	// ErrBankSuspended indicates the bank-wide bankruptcy gate is set.
	ErrBankSuspended = errors.New("bank is bankrupt")
	// ErrNotFound indicates the referenced transaction does not exist.
	ErrNotFound = errors.New("transaction not found")
	// ErrLoanNotApproved indicates a repayment attempt against a pending loan.
	ErrLoanNotApproved = errors.New("loan is not approved")
	// ErrLoanSettled indicates the loan has already been paid off.
	ErrLoanSettled = errors.New("loan already paid")
	// ErrLoanApproved indicates an approval attempt against an already
	// approved loan; approving twice would credit the balance twice.
	ErrLoanApproved = errors.New("loan already approved")
)

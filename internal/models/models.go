package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType tags every ledger entry. The stored amount is always
// non-negative; the sign applied to the balance comes from the type.
type TransactionType string

const (
	TypeDeposit     TransactionType = "DEPOSIT"
	TypeWithdrawal  TransactionType = "WITHDRAWAL"
	TypeLoan        TransactionType = "LOAN"
	TypeLoanPaid    TransactionType = "LOAN_PAID"
	TypeTransferIn  TransactionType = "TRANSFER_IN"
	TypeTransferOut TransactionType = "TRANSFER_OUT"
)

type User struct {
	gorm.Model
	Name     string `gorm:"size:50;not null"`
	Email    string `gorm:"uniqueIndex;size:255;not null"`
	Password string `gorm:"size:255"`
	Admin    bool   `gorm:"default:false"`
}

type Account struct {
	gorm.Model
	UserID  uint64          `gorm:"index;not null"`
	Balance decimal.Decimal `gorm:"not null"`
}

// Transaction is one ledger entry. CreatedAt is the immutable timestamp.
// BalanceAfter is the account balance snapshotted right after the entry's
// effect was applied; it is stamped at commit time and never recomputed.
// RefID links a LOAN_PAID entry to the LOAN it settles.
type Transaction struct {
	gorm.Model
	AccountID    uint64          `gorm:"index;not null"`
	Amount       decimal.Decimal `gorm:"not null"`
	BalanceAfter decimal.Decimal `gorm:"not null"`
	Type         TransactionType `gorm:"size:16;index;not null"`
	LoanApprove  bool            `gorm:"default:false"`
	Bankrupt     bool            `gorm:"default:false"`
	RefID        uint64          `gorm:"index;default:0"`
}

// Signed returns the entry's contribution to the account balance.
// An unapproved LOAN contributes nothing: the credit is applied at
// approval time, not at request time.
func (t Transaction) Signed() decimal.Decimal {
	switch t.Type {
	case TypeDeposit, TypeTransferIn:
		return t.Amount
	case TypeLoan:
		if t.LoanApprove {
			return t.Amount
		}
		return decimal.Zero
	case TypeWithdrawal, TypeLoanPaid, TypeTransferOut:
		return t.Amount.Neg()
	}
	return decimal.Zero
}

// BankStatus is a singleton row holding the bank-wide suspension flag.
// While Suspended is true all withdrawal-class operations are rejected.
type BankStatus struct {
	ID        uint `gorm:"primarykey"`
	Suspended bool `gorm:"default:false"`
}

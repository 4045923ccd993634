package ledger

import (
	"context"
	"errors"

	"github.com/Jaber-riyan/Mamar-Bank/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// maxOutstandingLoans caps how many approved, unpaid loans one account may
// carry at a time. Paying a loan off frees its slot.
const maxOutstandingLoans = 3

// outstandingLoanCount counts approved LOAN entries not yet settled by a
// LOAN_PAID entry referencing them.
func outstandingLoanCount(tx *gorm.DB, accountID uint64) (int64, error) {
	settled := tx.Model(&models.Transaction{}).
		Select("ref_id").
		Where("type = ?", models.TypeLoanPaid)

	var n int64
	err := tx.Model(&models.Transaction{}).
		Where("account_id = ? AND type = ? AND loan_approve = ?", accountID, models.TypeLoan, true).
		Where("id NOT IN (?)", settled).
		Count(&n).Error
	return n, err
}

// RequestLoan appends a pending LOAN entry. The balance is untouched: the
// credit happens at approval time, not at request time. The request is
// rejected once the account holds the maximum number of outstanding
// approved loans.
func (s *Service) RequestLoan(ctx context.Context, accountID uint64, amount decimal.Decimal) (*models.Transaction, error) {
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	unlock := s.locks.lock(accountID)
	defer unlock()

	var rec models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		acc, err := fetchAccount(tx, accountID)
		if err != nil {
			return err
		}
		n, err := outstandingLoanCount(tx, accountID)
		if err != nil {
			return err
		}
		if n >= maxOutstandingLoans {
			return ErrLoanLimitExceeded
		}
		rec = models.Transaction{
			AccountID:    accountID,
			Amount:       amount,
			BalanceAfter: acc.Balance,
			Type:         models.TypeLoan,
			LoanApprove:  false,
		}
		return appendTx(tx, &rec)
	})
	if err != nil {
		if errors.Is(err, ErrLoanLimitExceeded) {
			s.notify(ctx, "Loan Request Message", amount, accountID, "Loan Rejected", "loan_reject_mail")
		}
		return nil, err
	}

	s.notify(ctx, "Loan Request Message", amount, accountID, "Loan Request", "loan_request_mail")
	return &rec, nil
}

// ApproveLoan is the administrative approval action. It credits the account
// by the loan amount, marks the loan approved, and restamps the loan's
// balance snapshot with the post-credit balance, all in one transaction.
func (s *Service) ApproveLoan(ctx context.Context, loanID uint64) (*models.Transaction, error) {
	var probe models.Transaction
	if err := s.db.WithContext(ctx).Where("id = ? AND type = ?", loanID, models.TypeLoan).
		First(&probe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	unlock := s.locks.lock(probe.AccountID)
	defer unlock()

	var loan models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Re-read under the account lock: the probe above was unlocked.
		if err := tx.Where("id = ? AND type = ?", loanID, models.TypeLoan).First(&loan).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if loan.LoanApprove {
			return ErrLoanApproved
		}
		acc, err := fetchAccount(tx, loan.AccountID)
		if err != nil {
			return err
		}
		acc.Balance = acc.Balance.Add(loan.Amount)
		if err := setBalance(tx, loan.AccountID, acc.Balance); err != nil {
			return err
		}
		loan.LoanApprove = true
		loan.BalanceAfter = acc.Balance
		return tx.Model(&models.Transaction{}).Where("id = ?", loan.ID).
			Updates(map[string]any{"loan_approve": true, "balance_after": acc.Balance}).Error
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, "Loan Approval Message", loan.Amount, loan.AccountID, "Loan Approve", "admin_mail")
	return &loan, nil
}

// PayLoan settles an approved loan: it debits the account by the loan
// amount and appends a LOAN_PAID entry referencing the original LOAN. The
// original entry is never rewritten, so the full history stays auditable.
// Repayment needs the loan amount to be strictly below the balance.
func (s *Service) PayLoan(ctx context.Context, accountID, loanID uint64) (*models.Transaction, error) {
	unlock := s.locks.lock(accountID)
	defer unlock()

	var rec models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var loan models.Transaction
		if err := tx.Where("id = ? AND account_id = ? AND type = ?", loanID, accountID, models.TypeLoan).
			First(&loan).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !loan.LoanApprove {
			return ErrLoanNotApproved
		}
		var settled int64
		if err := tx.Model(&models.Transaction{}).
			Where("type = ? AND ref_id = ?", models.TypeLoanPaid, loan.ID).
			Count(&settled).Error; err != nil {
			return err
		}
		if settled > 0 {
			return ErrLoanSettled
		}
		acc, err := fetchAccount(tx, accountID)
		if err != nil {
			return err
		}
		if loan.Amount.GreaterThanOrEqual(acc.Balance) {
			return ErrInsufficientFunds
		}
		acc.Balance = acc.Balance.Sub(loan.Amount)
		if err := setBalance(tx, accountID, acc.Balance); err != nil {
			return err
		}
		rec = models.Transaction{
			AccountID:    accountID,
			Amount:       loan.Amount,
			BalanceAfter: acc.Balance,
			Type:         models.TypeLoanPaid,
			LoanApprove:  true,
			RefID:        uint64(loan.ID),
		}
		return appendTx(tx, &rec)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, "Loan Paid Message", rec.Amount, accountID, "Loan Paid", "loan_paid_mail")
	return &rec, nil
}

// Loans lists an account's LOAN entries, oldest first.
func (s *Service) Loans(ctx context.Context, accountID uint64) ([]models.Transaction, error) {
	var loans []models.Transaction
	err := s.db.WithContext(ctx).
		Where("account_id = ? AND type = ?", accountID, models.TypeLoan).
		Order("created_at asc").
		Find(&loans).Error
	return loans, err
}

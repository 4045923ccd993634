// Package ledger is the consistency engine of the bank: every balance
// mutation goes through here, paired with its ledger entry inside a single
// database transaction. Handlers stay thin; all business rules live in
// this package.
package ledger

import (
	"context"
	"errors"

	"github.com/Jaber-riyan/Mamar-Bank/internal/logger"
	"github.com/Jaber-riyan/Mamar-Bank/internal/models"
	"github.com/Jaber-riyan/Mamar-Bank/internal/notifier"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	notifier notifier.Notifier
	locks    *accountLocks
}

func New(db *gorm.DB, n notifier.Notifier) *Service {
	return &Service{db: db, notifier: n, locks: newAccountLocks()}
}

// fetchAccount loads an account inside the given transaction scope.
func fetchAccount(tx *gorm.DB, id uint64) (*models.Account, error) {
	var acc models.Account
	if err := tx.First(&acc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &acc, nil
}

// setBalance persists a new balance for the account row.
func setBalance(tx *gorm.DB, accountID uint64, balance decimal.Decimal) error {
	return tx.Model(&models.Account{}).Where("id = ?", accountID).
		Update("balance", balance).Error
}

// appendTx writes one ledger entry inside the caller's transaction. Entries
// carrying the bankrupt flag also trip the bank-wide gate in the same
// transaction, so the halt and the row that caused it commit together.
func appendTx(tx *gorm.DB, rec *models.Transaction) error {
	if err := tx.Create(rec).Error; err != nil {
		return err
	}
	if rec.Bankrupt {
		return setSuspendedTx(tx, true)
	}
	return nil
}

// Append writes a ledger entry stamped with the account's current balance.
// It is a pure write: no business rule runs here, those belong to the
// operation that decided to append.
func (s *Service) Append(ctx context.Context, accountID uint64, amount decimal.Decimal, typ models.TransactionType, approve, bankrupt bool) (*models.Transaction, error) {
	unlock := s.locks.lock(accountID)
	defer unlock()

	var rec models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		acc, err := fetchAccount(tx, accountID)
		if err != nil {
			return err
		}
		rec = models.Transaction{
			AccountID:    accountID,
			Amount:       amount,
			BalanceAfter: acc.Balance,
			Type:         typ,
			LoanApprove:  approve,
			Bankrupt:     bankrupt,
		}
		return appendTx(tx, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetBalance returns the account's current balance.
func (s *Service) GetBalance(ctx context.Context, accountID uint64) (decimal.Decimal, error) {
	acc, err := fetchAccount(s.db.WithContext(ctx), accountID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return acc.Balance, nil
}

// Deposit credits the account and appends a DEPOSIT entry. Deposits are
// deliberately not idempotent: the same amount twice means two entries.
func (s *Service) Deposit(ctx context.Context, accountID uint64, amount decimal.Decimal) (*models.Transaction, error) {
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
		acc.Balance = acc.Balance.Add(amount)
		if err := setBalance(tx, accountID, acc.Balance); err != nil {
			return err
		}
		rec = models.Transaction{
			AccountID:    accountID,
			Amount:       amount,
			BalanceAfter: acc.Balance,
			Type:         models.TypeDeposit,
		}
		return appendTx(tx, &rec)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, "Deposit Message", amount, accountID, "Deposit", "deposit_mail")
	return &rec, nil
}

// Withdraw debits the account and appends a WITHDRAWAL entry. The gate is
// checked inside the storage transaction, so a concurrent suspension cannot
// slip a withdrawal through. There is no sufficient-funds guard: the
// balance may go negative, matching the bank's permissive withdrawal policy.
func (s *Service) Withdraw(ctx context.Context, accountID uint64, amount decimal.Decimal) (*models.Transaction, error) {
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	unlock := s.locks.lock(accountID)
	defer unlock()

	var rec models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		halted, err := suspendedTx(tx)
		if err != nil {
			return err
		}
		if halted {
			return ErrBankSuspended
		}
		acc, err := fetchAccount(tx, accountID)
		if err != nil {
			return err
		}
		acc.Balance = acc.Balance.Sub(amount)
		if err := setBalance(tx, accountID, acc.Balance); err != nil {
			return err
		}
		rec = models.Transaction{
			AccountID:    accountID,
			Amount:       amount,
			BalanceAfter: acc.Balance,
			Type:         models.TypeWithdrawal,
		}
		return appendTx(tx, &rec)
	})
	if err != nil {
		if errors.Is(err, ErrBankSuspended) {
			s.notify(ctx, "Bankrupt Message", decimal.Zero, accountID, "Withdrawal", "is_bankrupt")
		}
		return nil, err
	}

	s.notify(ctx, "Withdrawal Message", amount, accountID, "Withdrawal", "withdrawal_mail")
	return &rec, nil
}

// notify dispatches fire-and-forget: the operation has already committed
// and must not be affected by a slow, failing, or panicking notifier.
func (s *Service) notify(ctx context.Context, subject string, amount decimal.Decimal, accountID uint64, messageType, template string) {
	if s.notifier == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.Warn("notifier panicked", zap.Any("reason", r))
			}
		}()
		s.notifier.Notify(context.WithoutCancel(ctx), subject, amount, accountID, messageType, template)
	}()
}

package ledger

import (
	"context"
	"errors"

	"github.com/Jaber-riyan/Mamar-Bank/internal/models"
	"gorm.io/gorm"
)

// The bankruptcy gate is a single BankStatus row. Missing row means the
// bank is operating normally.
const bankStatusID = 1

func suspendedTx(tx *gorm.DB) (bool, error) {
	var st models.BankStatus
	if err := tx.First(&st, bankStatusID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return st.Suspended, nil
}

func setSuspendedTx(tx *gorm.DB, v bool) error {
	st := models.BankStatus{ID: bankStatusID}
	if err := tx.FirstOrCreate(&st, models.BankStatus{ID: bankStatusID}).Error; err != nil {
		return err
	}
	return tx.Model(&st).Update("suspended", v).Error
}

// Suspended reports whether the bank-wide halt is in effect.
func (s *Service) Suspended(ctx context.Context) (bool, error) {
	return suspendedTx(s.db.WithContext(ctx))
}

// Suspend halts all withdrawal-class operations bank-wide. Administrative
// action; deposits keep working so customers can still cover debts.
func (s *Service) Suspend(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return setSuspendedTx(tx, true)
	})
}

// Resume lifts the bank-wide halt.
func (s *Service) Resume(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return setSuspendedTx(tx, false)
	})
}

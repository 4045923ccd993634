package ledger

import (
	"context"
	"errors"

	"github.com/Jaber-riyan/Mamar-Bank/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transfer moves amount from sender to receiver. Both legs commit in one
// database transaction: there is no state where the debit exists without
// the credit. Both account locks are held for the duration, acquired in
// ascending id order.
func (s *Service) Transfer(ctx context.Context, senderID, receiverID uint64, amount decimal.Decimal) error {
	if amount.Sign() <= 0 || senderID == receiverID {
		return ErrInvalidAmount
	}

	unlock := s.locks.lockPair(senderID, receiverID)
	defer unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sender, err := fetchAccount(tx, senderID)
		if err != nil {
			return err
		}
		receiver, err := fetchAccount(tx, receiverID)
		if err != nil {
			if errors.Is(err, ErrAccountNotFound) {
				return ErrReceiverNotFound
			}
			return err
		}
		if amount.GreaterThan(sender.Balance) {
			return ErrInsufficientFunds
		}

		sender.Balance = sender.Balance.Sub(amount)
		receiver.Balance = receiver.Balance.Add(amount)
		if err := setBalance(tx, senderID, sender.Balance); err != nil {
			return err
		}
		if err := setBalance(tx, receiverID, receiver.Balance); err != nil {
			return err
		}

		out := models.Transaction{
			AccountID:    senderID,
			Amount:       amount,
			BalanceAfter: sender.Balance,
			Type:         models.TypeTransferOut,
		}
		if err := appendTx(tx, &out); err != nil {
			return err
		}
		in := models.Transaction{
			AccountID:    receiverID,
			Amount:       amount,
			BalanceAfter: receiver.Balance,
			Type:         models.TypeTransferIn,
			RefID:        uint64(out.ID),
		}
		return appendTx(tx, &in)
	})
	if err != nil {
		return err
	}

	s.notify(ctx, "Transfer Message", amount, senderID, "Transfer Sent", "transfer_mail")
	s.notify(ctx, "Transfer Message", amount, receiverID, "Transfer Received", "transfer_mail")
	return nil
}

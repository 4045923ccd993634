package ledger

import (
	"context"
	"time"

	"github.com/Jaber-riyan/Mamar-Bank/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// rangeScope narrows a query to entries created within [from, to] by
// calendar date, both bounds inclusive. Zero times leave that side open.
func rangeScope(tx *gorm.DB, from, to time.Time) *gorm.DB {
	if !from.IsZero() {
		day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
		tx = tx.Where("created_at >= ?", day)
	}
	if !to.IsZero() {
		next := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location()).AddDate(0, 0, 1)
		tx = tx.Where("created_at < ?", next)
	}
	return tx
}

// Query returns one account's ledger entries ordered by creation time
// ascending. Each call returns a fresh slice.
func (s *Service) Query(ctx context.Context, accountID uint64, from, to time.Time) ([]models.Transaction, error) {
	if _, err := fetchAccount(s.db.WithContext(ctx), accountID); err != nil {
		return nil, err
	}
	var recs []models.Transaction
	err := rangeScope(s.db.WithContext(ctx), from, to).
		Where("account_id = ?", accountID).
		Order("created_at asc").
		Find(&recs).Error
	return recs, err
}

// SumAmounts totals the signed amounts of all entries in the date range,
// across every account. Summed in Go with decimals rather than in SQL:
// the sign of an entry depends on its type and approval state, and the
// decimal arithmetic must not round-trip through database floats.
func (s *Service) SumAmounts(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var recs []models.Transaction
	if err := rangeScope(s.db.WithContext(ctx), from, to).Find(&recs).Error; err != nil {
		return decimal.Decimal{}, err
	}
	sum := decimal.Zero
	for _, r := range recs {
		sum = sum.Add(r.Signed())
	}
	return sum, nil
}

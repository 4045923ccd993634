package notifier

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Notifier delivers out-of-band messages about ledger events (email, SMS,
// whatever the deployment wires in). Delivery is best-effort: the ledger
// never waits on it and never fails an operation because delivery failed.
type Notifier interface {
	Notify(ctx context.Context, subject string, amount decimal.Decimal, accountID uint64, messageType, template string)
}

// LogNotifier writes notifications to the application log. It is the
// default implementation and doubles as the dev/test stand-in for a real
// mail sender.
type LogNotifier struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, subject string, amount decimal.Decimal, accountID uint64, messageType, template string) {
	n.log.Info("notification sent",
		zap.String("subject", subject),
		zap.String("amount", amount.String()),
		zap.Uint64("account_id", accountID),
		zap.String("message_type", messageType),
		zap.String("template", template),
	)
}

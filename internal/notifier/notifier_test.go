package notifier

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogNotifierWritesStructuredEntry(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLog(zap.New(core))

	n.Notify(context.Background(), "Deposit Message", decimal.RequireFromString("25.5"), 7, "Deposit", "deposit_mail")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "notification sent", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "Deposit Message", fields["subject"])
	assert.Equal(t, "25.5", fields["amount"])
	assert.Equal(t, uint64(7), fields["account_id"])
	assert.Equal(t, "Deposit", fields["message_type"])
	assert.Equal(t, "deposit_mail", fields["template"])
}

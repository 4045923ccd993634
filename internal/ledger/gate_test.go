package ledger

import (
	"context"
	"testing"

	"github.com/Jaber-riyan/Mamar-Bank/internal/models"
	"github.com/stretchr/testify/require"
)

func TestBankruptcyGateBlocksAllWithdrawals(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	a := newAccount(t, db, 1, "100")
	b := newAccount(t, db, 2, "100")

	require.NoError(t, svc.Suspend(ctx))

	halted, err := svc.Suspended(ctx)
	require.NoError(t, err)
	require.True(t, halted)

	// The gate is bank-wide: it does not matter which account withdraws.
	for _, id := range []uint64{a, b} {
		_, err := svc.Withdraw(ctx, id, dec("10"))
		require.ErrorIs(t, err, ErrBankSuspended)
		require.True(t, balanceOf(t, db, id).Equal(dec("100")))
		require.Len(t, entriesOf(t, db, id), 1)
	}

	// Deposits still work while suspended.
	_, err = svc.Deposit(ctx, a, dec("10"))
	require.NoError(t, err)

	require.NoError(t, svc.Resume(ctx))
	_, err = svc.Withdraw(ctx, b, dec("10"))
	require.NoError(t, err)
	require.True(t, balanceOf(t, db, b).Equal(dec("90")))
}

func TestSuspendedDefaultsToFalse(t *testing.T) {
	svc, _ := newTestService(t)
	halted, err := svc.Suspended(context.Background())
	require.NoError(t, err)
	require.False(t, halted)
}

// An appended entry carrying the bankrupt flag trips the gate in the same
// transaction, preserving the historical "flag on a row" behavior.
func TestBankruptEntryTripsGate(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	a := newAccount(t, db, 1, "100")
	b := newAccount(t, db, 2, "100")

	_, err := svc.Append(ctx, a, dec("0.01"), models.TypeWithdrawal, false, true)
	require.NoError(t, err)

	_, err = svc.Withdraw(ctx, b, dec("10"))
	require.ErrorIs(t, err, ErrBankSuspended)
}

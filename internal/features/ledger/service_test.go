package ledger

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seaseed.dev/economy/internal/common"
	"seaseed.dev/economy/internal/currency"
	"seaseed.dev/economy/internal/db/sqlite"
	"seaseed.dev/economy/internal/store"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	s, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return NewService(s)
}

func TestCreditDebit(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	// Arrange
	_, err := svc.Deposit(ctx, 1, currency.Shells, 100, "")
	require.NoError(t, err)

	// Act
	tx, err := svc.Withdraw(ctx, 1, currency.Shells, 40, "")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(-40), tx.Amount)
	assert.Equal(t, int64(60), tx.BalanceAfter)
	assert.Equal(t, store.TxWithdraw, tx.Kind)

	_, err = svc.Withdraw(ctx, 1, currency.Shells, 61, "")
	assert.ErrorIs(t, err, common.ErrInsufficientFunds)

	acc, err := svc.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(60), acc.Shells)
}

func TestCredit_InvalidAmount(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	_, err := svc.Deposit(ctx, 1, currency.Shells, 0, "")
	assert.ErrorIs(t, err, common.ErrInvalidAmount)
	_, err = svc.Withdraw(ctx, 1, currency.Shells, -5, "")
	assert.ErrorIs(t, err, common.ErrInvalidAmount)
}

func TestDeposit_Overflow(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	_, err := svc.Deposit(ctx, 1, currency.Gems, 10, "")
	require.NoError(t, err)
	_, err = svc.Deposit(ctx, 1, currency.Gems, math.MaxInt64, "")
	assert.ErrorIs(t, err, common.ErrInvalidAmount)

	acc, err := svc.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), acc.Gems)
}

func TestTransfer_DoubleEntry(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)
	_, err := svc.Deposit(ctx, 1, currency.Pearls, 10, "")
	require.NoError(t, err)
	require.NoError(t, svc.EnsureAccount(ctx, 2))

	txs, err := svc.Transfer(ctx, 1, 2, currency.Pearls, 4)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, store.TxTransfer, txs[0].Kind)
	assert.Equal(t, store.TxTransfer, txs[1].Kind)
	assert.Equal(t, int64(-4), txs[0].Amount)
	assert.Equal(t, int64(4), txs[1].Amount)
	assert.Equal(t, int64(6), txs[0].BalanceAfter)
	assert.Equal(t, int64(4), txs[1].BalanceAfter)

	_, err = svc.Transfer(ctx, 1, 1, currency.Pearls, 1)
	assert.ErrorIs(t, err, common.ErrSelfTransfer)

	_, err = svc.Transfer(ctx, 1, 99, currency.Pearls, 1)
	assert.ErrorIs(t, err, common.ErrAccountNotFound)

	_, err = svc.Transfer(ctx, 1, 2, currency.Pearls, 7)
	assert.ErrorIs(t, err, common.ErrInsufficientFunds)

	require.NoError(t, svc.SetStatus(ctx, 1, store.StatusInactive))
	_, err = svc.Transfer(ctx, 1, 2, currency.Pearls, 1)
	assert.ErrorIs(t, err, common.ErrAccountInactive)
}

func TestHistory_FilterAndLimit(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)
	for i := 0; i < 3; i++ {
		_, err := svc.Deposit(ctx, 1, currency.Shells, 10, "")
		require.NoError(t, err)
	}
	_, err := svc.Withdraw(ctx, 1, currency.Shells, 5, "")
	require.NoError(t, err)

	all, err := svc.History(ctx, 1, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, store.TxWithdraw, all[0].Kind, "newest first")

	deposits, err := svc.History(ctx, 1, store.TxDeposit, 2)
	require.NoError(t, err)
	assert.Len(t, deposits, 2)

	unknown, err := svc.History(ctx, 1, "bogus", 10)
	require.NoError(t, err)
	assert.Len(t, unknown, 4, "unknown kind falls back to no filter")
}

func TestSetStatus_Invalid(t *testing.T) {
	svc := setupService(t)
	assert.ErrorIs(t, svc.SetStatus(context.Background(), 1, "banned"), common.ErrInvalidStatus)
}

package exchange

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seaseed.dev/economy/internal/common"
	"seaseed.dev/economy/internal/currency"
	"seaseed.dev/economy/internal/db/sqlite"
	"seaseed.dev/economy/internal/features/ledger"
	"seaseed.dev/economy/internal/store"
)

func setup(t *testing.T) (*Service, *ledger.Service) {
	t.Helper()
	s, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	l := ledger.NewService(s)
	return NewService(l), l
}

func fund(t *testing.T, l *ledger.Service, userID int64, tier currency.Tier, amount int64) {
	t.Helper()
	_, err := l.Deposit(context.Background(), userID, tier, amount, "")
	require.NoError(t, err)
}

func TestExchange_ExactMultiple(t *testing.T) {
	ctx := context.Background()
	svc, l := setup(t)
	fund(t, l, 1, currency.Shells, 300)

	res, err := svc.Exchange(ctx, 1, currency.Shells, currency.Pearls, 300)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Gained)
	assert.Equal(t, int64(0), res.FromBalance)
	assert.Equal(t, int64(3), res.ToBalance)
}

func TestExchange_RemainderIsConsumed(t *testing.T) {
	ctx := context.Background()
	svc, l := setup(t)
	fund(t, l, 1, currency.Shells, 260)

	res, err := svc.Exchange(ctx, 1, currency.Shells, currency.Pearls, 250)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Gained)
	assert.Equal(t, int64(250), res.Cost)

	acc, err := l.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), acc.Shells, "all 250 debited, 50 not refunded")
	assert.Equal(t, int64(2), acc.Pearls)

	// Обе записи журнала делят одно описание
	txs, err := l.History(ctx, 1, "", 10)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, store.TxIncome, txs[0].Kind)
	assert.Equal(t, store.TxExpense, txs[1].Kind)
	assert.Equal(t, txs[0].Description, txs[1].Description)
}

func TestExchange_BelowRateCreditsNothing(t *testing.T) {
	ctx := context.Background()
	svc, l := setup(t)
	fund(t, l, 1, currency.Gems, 50)

	res, err := svc.Exchange(ctx, 1, currency.Gems, currency.Crystals, 50)
	require.NoError(t, err)
	assert.Zero(t, res.Gained)

	acc, err := l.Account(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, acc.Gems)
	assert.Zero(t, acc.Crystals)

	txs, err := l.History(ctx, 1, store.TxIncome, 10)
	require.NoError(t, err)
	assert.Empty(t, txs, "no zero-amount credit row")
}

func TestExchange_Rejections(t *testing.T) {
	ctx := context.Background()
	svc, l := setup(t)
	fund(t, l, 1, currency.Shells, 100)

	cases := []struct {
		name     string
		from, to currency.Tier
		amount   int64
		want     error
	}{
		{"non adjacent", currency.Shells, currency.Gems, 100, common.ErrUnsupportedExchange},
		{"reverse", currency.Pearls, currency.Shells, 1, common.ErrUnsupportedExchange},
		{"same tier", currency.Shells, currency.Shells, 100, common.ErrUnsupportedExchange},
		{"unknown tier", currency.Shells, currency.Tier(9), 100, common.ErrUnknownCurrency},
		{"zero amount", currency.Shells, currency.Pearls, 0, common.ErrInvalidAmount},
		{"insufficient", currency.Shells, currency.Pearls, 101, common.ErrInsufficientFunds},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Exchange(ctx, 1, tc.from, tc.to, tc.amount)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	acc, err := l.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), acc.Shells, "rejections leave the balance unchanged")
	assert.Zero(t, acc.Pearls)
}

func TestExchange_ConcurrentNeverNegative(t *testing.T) {
	ctx := context.Background()
	svc, l := setup(t)
	fund(t, l, 1, currency.Shells, 500)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Exchange(ctx, 1, currency.Shells, currency.Pearls, 200)
			if err != nil {
				assert.ErrorIs(t, err, common.ErrInsufficientFunds)
			}
		}()
	}
	wg.Wait()

	acc, err := l.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), acc.Shells)
	assert.Equal(t, int64(4), acc.Pearls)
}

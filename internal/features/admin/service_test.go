package admin

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seaseed.dev/economy/internal/common"
	"seaseed.dev/economy/internal/config"
	"seaseed.dev/economy/internal/currency"
	"seaseed.dev/economy/internal/db/sqlite"
	"seaseed.dev/economy/internal/features/ledger"
	"seaseed.dev/economy/internal/features/lottery"
	"seaseed.dev/economy/internal/server"
	"seaseed.dev/economy/internal/store"
)

const testPassword = "correct horse"

func setup(t *testing.T) (*Service, *ledger.Service, *lottery.Service) {
	t.Helper()
	st, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return newService(t, st)
}

func newService(t *testing.T, st *sqlite.Store) (*Service, *ledger.Service, *lottery.Service) {
	t.Helper()
	hash, err := HashPassword(testPassword)
	require.NoError(t, err)

	l := ledger.NewService(st)
	lot := lottery.NewService(l, nil, lottery.Settings{Enabled: true, TriggerChance: 0.3})
	return NewService(l, lot, st, hash), l, lot
}

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=2$"))

	assert.True(t, VerifyPassword("secret", hash))
	assert.False(t, VerifyPassword("Secret", hash))
	assert.False(t, VerifyPassword("secret", "not-a-hash"))

	other, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "random salt")
}

func TestAuthenticate(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	assert.NoError(t, svc.Authenticate(ctx, "1.1.1.1", testPassword))

	for i := 0; i < MaxAttempts; i++ {
		assert.ErrorIs(t, svc.Authenticate(ctx, "1.1.1.1", "wrong"), common.ErrWrongPassword)
	}
	// Даже верный пароль отклоняется, пока не истечёт окно.
	assert.ErrorIs(t, svc.Authenticate(ctx, "1.1.1.1", testPassword), common.ErrTooManyAttempts)
	assert.NoError(t, svc.Authenticate(ctx, "2.2.2.2", testPassword), "other client")

	clock = clock.Add(AttemptWindow)
	assert.NoError(t, svc.Authenticate(ctx, "1.1.1.1", testPassword))
}

func TestAuthenticate_SurvivesRestart(t *testing.T) {
	st, err := sqlite.OpenMemory()
	require.NoError(t, err)
	defer st.Close()
	ctx := context.Background()
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	first, _, _ := newService(t, st)
	first.now = func() time.Time { return clock }
	for i := 0; i < MaxAttempts; i++ {
		assert.ErrorIs(t, first.Authenticate(ctx, "1.1.1.1", "wrong"), common.ErrWrongPassword)
	}

	// Новый экземпляр сервиса на той же базе помнит неудачи.
	second, _, _ := newService(t, st)
	second.now = func() time.Time { return clock.Add(time.Minute) }
	assert.ErrorIs(t, second.Authenticate(ctx, "1.1.1.1", testPassword), common.ErrTooManyAttempts)
}

func TestAuthenticate_LongClient(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	long := strings.Repeat("a", 200)

	for i := 0; i < MaxAttempts; i++ {
		assert.ErrorIs(t, svc.Authenticate(ctx, long, "wrong"), common.ErrWrongPassword)
	}
	// Совпадающий префикс считается тем же клиентом.
	assert.ErrorIs(t, svc.Authenticate(ctx, long[:maxClientLen]+"zzz", testPassword), common.ErrTooManyAttempts)
}

func TestAuthenticate_Disabled(t *testing.T) {
	svc := NewService(nil, nil, nil, "")
	assert.ErrorIs(t, svc.Authenticate(context.Background(), "1.1.1.1", "anything"), common.ErrAdminDisabled)
}

func TestGrantAndStatus(t *testing.T) {
	svc, l, _ := setup(t)
	ctx := context.Background()

	tx, err := svc.Grant(ctx, GrantRequest{UserID: 5, Currency: currency.Gems, Amount: 3})
	require.NoError(t, err)
	assert.Equal(t, store.TxBonus, tx.Kind)
	assert.Equal(t, int64(3), tx.BalanceAfter)

	_, err = svc.Grant(ctx, GrantRequest{UserID: 5, Currency: currency.Gems, Amount: 0})
	assert.ErrorIs(t, err, common.ErrInvalidAmount)

	require.NoError(t, svc.SetStatus(ctx, 5, store.StatusInactive))
	acc, err := l.Account(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, store.StatusInactive, acc.Status)

	assert.ErrorIs(t, svc.SetStatus(ctx, 5, "banned"), common.ErrInvalidStatus)
}

func TestLotteryControls(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.ConfigureLottery(lottery.Settings{Enabled: true, TriggerChance: 2}), common.ErrInvalidChance)

	require.NoError(t, svc.ConfigureLottery(lottery.Settings{Enabled: false, TriggerChance: 0.5}))
	assert.Equal(t, 0.5, svc.LotterySettings().TriggerChance)

	_, err := svc.TriggerLottery(ctx, TriggerRequest{UserID: 1})
	assert.ErrorIs(t, err, common.ErrLotteryDisabled)
}

func TestHandler_RequiresPassword(t *testing.T) {
	svc, _, _ := setup(t)
	app := fiber.New()
	NewHandler(svc).Register(app)

	do := func(password string) int {
		req := httptest.NewRequest("POST", "/admin/grant", strings.NewReader(`{"user_id":1,"currency":"shells","amount":10}`))
		req.Header.Set("Content-Type", "application/json")
		if password != "" {
			req.Header.Set(PasswordHeader, password)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusUnauthorized, do(""))
	assert.Equal(t, fiber.StatusOK, do(testPassword))
}

func TestHandler_ForwardedForIgnoredFromUntrustedPeer(t *testing.T) {
	svc, _, _ := setup(t)
	app := fiber.New(server.FiberConfig(&config.Config{}))
	NewHandler(svc).Register(app)

	codes := make([]int, 0, 6)
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest("GET", "/admin/lottery", nil)
		req.Header.Set(PasswordHeader, "wrong")
		// Каждый запрос выдаёт себя за новый адрес.
		req.Header.Set(fiber.HeaderXForwardedFor, fmt.Sprintf("198.51.100.%d", i+1))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}

	assert.Equal(t, []int{
		fiber.StatusUnauthorized, fiber.StatusUnauthorized, fiber.StatusUnauthorized,
		fiber.StatusTooManyRequests, fiber.StatusTooManyRequests, fiber.StatusTooManyRequests,
	}, codes)
}

package activity

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seaseed.dev/economy/internal/api"
	"seaseed.dev/economy/internal/common"
	"seaseed.dev/economy/internal/config"
	"seaseed.dev/economy/internal/currency"
	"seaseed.dev/economy/internal/db/sqlite"
	"seaseed.dev/economy/internal/features/ledger"
	"seaseed.dev/economy/internal/features/lottery"
	"seaseed.dev/economy/internal/server"
)

type countingSource struct {
	value float64
	calls int
}

func (s *countingSource) Float64() float64 {
	s.calls++
	return s.value
}

type env struct {
	svc    *Service
	ledger *ledger.Service
	src    *countingSource
	clock  *time.Time
}

func setup(t *testing.T, limits map[string]int, lotteryOn bool) *env {
	t.Helper()
	st, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	l := ledger.NewService(st)
	src := &countingSource{value: 0}
	lot := lottery.NewService(l, src, lottery.Settings{Enabled: lotteryOn, TriggerChance: 1})

	cfg := &config.Config{
		AppTimezone:            "Asia/Shanghai",
		ActivityDefaultIPLimit: 100,
		ActivityIPLimits:       limits,
	}
	svc := NewService(st, lot, cfg)

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, svc.loc)
	svc.now = func() time.Time { return clock }
	return &env{svc: svc, ledger: l, src: src, clock: &clock}
}

func (e *env) shells(t *testing.T, userID int64) int64 {
	t.Helper()
	acc, err := e.ledger.Account(context.Background(), userID)
	require.NoError(t, err)
	return acc.Shells
}

func TestJoin_CreditsReward(t *testing.T) {
	e := setup(t, nil, false)

	res, err := e.svc.Join(context.Background(), 1, "daily_checkin", "10.0.0.1", "")
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Reward)
	assert.Equal(t, "2026-03-01", res.Day)
	assert.Equal(t, 10, res.IPLimit)
	assert.Equal(t, 1, res.IPUsed)
	assert.Equal(t, 9, res.IPRemaining)
	assert.Equal(t, int64(5), res.TodayTotal)
	assert.False(t, res.Lottery.Triggered)

	assert.Equal(t, int64(5), e.shells(t, 1))
}

func TestJoin_IPCapBoundary(t *testing.T) {
	e := setup(t, nil, false)
	ctx := context.Background()

	for user := int64(1); user <= 10; user++ {
		res, err := e.svc.Join(ctx, user, "daily_checkin", "10.0.0.1", "")
		require.NoError(t, err, "join #%d", user)
		assert.Equal(t, int(user), res.IPUsed)
	}

	_, err := e.svc.Join(ctx, 11, "daily_checkin", "10.0.0.1", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrIPLimitExceeded))
	var le *common.LimitError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 10, le.Limit)
	assert.Zero(t, e.shells(t, 11), "rejected join credits nothing")

	// Другой IP: свой лимит.
	_, err = e.svc.Join(ctx, 11, "daily_checkin", "10.0.0.2", "")
	assert.NoError(t, err)
}

func TestJoin_OncePerDay(t *testing.T) {
	e := setup(t, nil, false)
	ctx := context.Background()

	_, err := e.svc.Join(ctx, 1, "daily_checkin", "10.0.0.1", "")
	require.NoError(t, err)

	_, err = e.svc.Join(ctx, 1, "daily_checkin", "10.0.0.2", "")
	assert.ErrorIs(t, err, common.ErrAlreadyCompletedToday)
	assert.Equal(t, int64(5), e.shells(t, 1))

	// Другая активность независима.
	res, err := e.svc.Join(ctx, 1, "daily_post", "10.0.0.1", "")
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.TodayTotal)
}

func TestJoin_DayRollover(t *testing.T) {
	e := setup(t, nil, false)
	ctx := context.Background()

	// 23:59 по Шанхаю и 00:01 следующего дня: разные дни.
	*e.clock = time.Date(2026, 3, 1, 23, 59, 0, 0, e.svc.loc)
	_, err := e.svc.Join(ctx, 1, "daily_checkin", "10.0.0.1", "")
	require.NoError(t, err)

	*e.clock = time.Date(2026, 3, 2, 0, 1, 0, 0, e.svc.loc)
	res, err := e.svc.Join(ctx, 1, "daily_checkin", "10.0.0.1", "")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", res.Day)
	assert.Equal(t, 1, res.IPUsed)
	assert.Equal(t, int64(10), e.shells(t, 1))
}

func TestJoin_UnknownActivity(t *testing.T) {
	e := setup(t, map[string]int{"daily_checkin": 1}, false)

	_, err := e.svc.Join(context.Background(), 1, "daily_dance", "10.0.0.1", "")
	assert.ErrorIs(t, err, common.ErrUnknownActivity)
}

func TestIPLimit_Resolution(t *testing.T) {
	e := setup(t, map[string]int{"daily_checkin": 3}, false)

	checkin, _ := Find("daily_checkin")
	post, _ := Find("daily_post")
	like, _ := Find("daily_like")
	bare := Activity{ID: "custom", Reward: 1, Currency: currency.Shells}
	assert.Equal(t, 3, e.svc.IPLimit(checkin), "override")
	assert.Equal(t, 5, e.svc.IPLimit(post), "catalog")
	assert.Equal(t, 20, e.svc.IPLimit(like), "catalog")
	assert.Equal(t, 100, e.svc.IPLimit(bare), "default")

	ctx := context.Background()
	for user := int64(1); user <= 3; user++ {
		_, err := e.svc.Join(ctx, user, "daily_checkin", "10.0.0.1", "")
		require.NoError(t, err)
	}
	_, err := e.svc.Join(ctx, 4, "daily_checkin", "10.0.0.1", "")
	assert.ErrorIs(t, err, common.ErrIPLimitExceeded)
}

// После участия разыгрывается ровно одна лотерейная возможность:
// один бросок на срабатывание и один розыгрыш приза.
func TestJoin_SingleLotteryOpportunity(t *testing.T) {
	e := setup(t, nil, true)

	res, err := e.svc.Join(context.Background(), 1, "daily_checkin", "10.0.0.1", "")
	require.NoError(t, err)
	assert.Equal(t, 2, e.src.calls)
	assert.True(t, res.Lottery.Triggered)
	require.NotNil(t, res.Lottery.Prize)
	assert.Equal(t, "lucky_star", res.Lottery.Prize.Code)

	assert.Equal(t, int64(5+88), e.shells(t, 1))
	// Приз лотереи не входит в сумму наград за активности.
	assert.Equal(t, int64(5), res.TodayTotal)
}

func TestRecordsAndTodayPoints(t *testing.T) {
	e := setup(t, nil, false)
	ctx := context.Background()

	_, err := e.svc.Join(ctx, 1, "daily_checkin", "10.0.0.1", "привет")
	require.NoError(t, err)
	_, err = e.svc.Join(ctx, 1, "daily_comment", "10.0.0.1", "")
	require.NoError(t, err)

	recs, err := e.svc.Records(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "daily_comment", recs[0].ActivityID)
	assert.Equal(t, "привет", recs[1].Content)

	pts, err := e.svc.TodayPoints(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(6), pts)
}

func TestHandler_Join(t *testing.T) {
	e := setup(t, map[string]int{"daily_checkin": 1}, false)
	// app.Test подключается с 0.0.0.0: объявляем его доверенным прокси.
	app := fiber.New(server.FiberConfig(&config.Config{TrustedProxies: []string{"0.0.0.0"}}))
	app.Use(func(c *fiber.Ctx) error {
		if id, err := strconv.ParseInt(c.Get("X-User-ID"), 10, 64); err == nil {
			c.Locals(api.LocalUserID, id)
		}
		return c.Next()
	})
	NewHandler(e.svc).Register(app)

	join := func(user int64) int {
		req := httptest.NewRequest("POST", "/activities/daily_checkin/join", strings.NewReader(`{"content":"hi"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", fmt.Sprint(user))
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, join(1))
	assert.Equal(t, fiber.StatusTooManyRequests, join(2))

	recs, err := e.svc.Records(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "203.0.113.7", recs[0].IP, "first X-Forwarded-For entry")
	assert.Equal(t, "hi", recs[0].Content)
}

package score

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seaseed.dev/economy/internal/db/sqlite"
	"seaseed.dev/economy/internal/store"
)

func setup(t *testing.T) (*Service, *sqlite.Store) {
	t.Helper()
	s, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return NewService(s), s
}

func TestRules(t *testing.T) {
	want := map[Action]string{
		ActionBottlePost:      "5",
		ActionTopicPost:       "10",
		ActionComment:         "2",
		ActionView:            "0.1",
		ActionLikeReceived:    "0.5",
		ActionCollectReceived: "1",
	}
	require.Len(t, Rules, len(want))
	for action, points := range want {
		got, ok := PointsFor(action)
		require.True(t, ok, action)
		assert.Equal(t, points, got.String(), action)
	}
}

func TestAward(t *testing.T) {
	ctx := context.Background()
	svc, s := setup(t)
	require.NoError(t, s.EnsureAccount(ctx, 1))

	for i := 0; i < 3; i++ {
		svc.Award(ctx, 1, ActionView, 10, "")
	}
	got := svc.Award(ctx, 1, ActionTopicPost, 10, "статья")
	assert.Equal(t, "10", got.String())

	acc, err := s.GetAccount(ctx, 1)
	require.NoError(t, err)
	assert.True(t, acc.Score.Equal(decimal.RequireFromString("10.3")), acc.Score.String())

	recs, err := svc.Records(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, recs, 4)
	assert.Equal(t, string(ActionTopicPost), recs[0].Action)
	assert.Equal(t, int64(10), recs[0].RelatedID)
}

func TestAward_NoOpOnBadInput(t *testing.T) {
	ctx := context.Background()
	svc, s := setup(t)
	require.NoError(t, s.EnsureAccount(ctx, 1))

	assert.True(t, svc.Award(ctx, 1, Action("not_a_real_action"), 0, "").IsZero())
	assert.True(t, svc.Award(ctx, 0, ActionComment, 0, "").IsZero())
	assert.True(t, svc.Award(ctx, -3, ActionComment, 0, "").IsZero())
	assert.True(t, svc.Award(ctx, 404, ActionComment, 0, "").IsZero(), "no account, no award")

	acc, err := s.GetAccount(ctx, 1)
	require.NoError(t, err)
	assert.True(t, acc.Score.IsZero())

	recs, err := svc.Records(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRank_DeterministicTies(t *testing.T) {
	ctx := context.Background()
	svc, s := setup(t)

	// 7 пользователей: у 3, 5 и 6 одинаковые очки
	awards := map[int64][]Action{
		1: {ActionComment},
		2: {ActionTopicPost, ActionTopicPost},
		3: {ActionBottlePost},
		4: {ActionView},
		5: {ActionBottlePost},
		6: {ActionBottlePost},
		7: {ActionTopicPost},
	}
	for id, actions := range awards {
		require.NoError(t, s.EnsureAccount(ctx, id))
		for _, a := range actions {
			svc.Award(ctx, id, a, 0, "")
		}
	}

	top, err := svc.Rank(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 5)
	ids := []int64{}
	for _, e := range top {
		ids = append(ids, e.UserID)
	}
	assert.Equal(t, []int64{2, 7, 3, 5, 6}, ids)

	again, err := svc.Rank(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, top, again)

	// Отключённые пользователи в рейтинг не попадают
	require.NoError(t, s.SetAccountStatus(ctx, 2, store.StatusInactive))
	top, err = svc.Rank(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(7), top[0].UserID)
}

func TestBreakdown(t *testing.T) {
	ctx := context.Background()
	svc, s := setup(t)
	require.NoError(t, s.EnsureAccount(ctx, 1))
	svc.Award(ctx, 1, ActionLikeReceived, 0, "")
	svc.Award(ctx, 1, ActionLikeReceived, 0, "")
	svc.Award(ctx, 1, ActionComment, 0, "")

	buckets, err := svc.Breakdown(ctx, 1)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, "comment", buckets[0].Action)
	assert.Equal(t, "2", buckets[0].Points.String())
	assert.Equal(t, "1", buckets[1].Points.String())
	assert.Equal(t, int64(2), buckets[1].Count)
}

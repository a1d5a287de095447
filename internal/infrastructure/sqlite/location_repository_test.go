package sqlite

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/wardwatch/wardwatch/internal/location"
)

func TestLocationRepository_EmptyHistory(t *testing.T) {
	repo := newTestDB(t).LocationRepository()

	_, err := repo.Current(t.Context())
	require.ErrorIs(t, err, location.ErrNoEntries)

	entries, err := repo.History(t.Context(), 0)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestLocationRepository_PushAndReplace(t *testing.T) {
	repo := newTestDB(t).LocationRepository()
	ctx := t.Context()

	clock := time.UnixMilli(1_700_000_000_000)
	repo.now = func() time.Time { return clock }

	first, err := repo.Push(ctx, "wardwatch://dashboard")
	require.NoError(t, err)
	require.Positive(t, first.ID)

	clock = clock.Add(time.Second)
	replaced, err := repo.Replace(ctx, "wardwatch://dashboard?tab=geographic")
	require.NoError(t, err)
	require.Equal(t, first.ID, replaced.ID)
	require.Equal(t, first.CreatedAt, replaced.CreatedAt)
	require.True(t, replaced.UpdatedAt.After(replaced.CreatedAt))

	entries, err := repo.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1, "replace must not grow history")
	require.Equal(t, "wardwatch://dashboard?tab=geographic", entries[0].URL)

	_, err = repo.Push(ctx, "wardwatch://dashboard?tab=overview")
	require.NoError(t, err)
	entries, err = repo.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "wardwatch://dashboard?tab=overview", entries[0].URL, "newest first")
}

func TestLocationRepository_ReplaceOnEmptyPushes(t *testing.T) {
	repo := newTestDB(t).LocationRepository()

	e, err := repo.Replace(t.Context(), "wardwatch://dashboard?tab=strategist")
	require.NoError(t, err)

	cur, err := repo.Current(t.Context())
	require.NoError(t, err)
	require.Equal(t, e.ID, cur.ID)
}

func TestLocationRepository_HistoryLimitAndPrune(t *testing.T) {
	repo := newTestDB(t).LocationRepository()
	ctx := t.Context()

	for i := range 5 {
		_, err := repo.Push(ctx, fmt.Sprintf("wardwatch://dashboard?n=%d", i))
		require.NoError(t, err)
	}

	entries, err := repo.History(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "wardwatch://dashboard?n=4", entries[0].URL)

	require.NoError(t, repo.Prune(ctx, 3))
	entries, err = repo.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "wardwatch://dashboard?n=2", entries[2].URL)
}

// Replace never changes the number of entries; Push always adds one.
func TestLocationRepository_ReplaceKeepsLength(t *testing.T) {
	repo := newTestDB(t).LocationRepository()
	ctx := t.Context()

	rapid.Check(t, func(r *rapid.T) {
		before, err := repo.History(ctx, 0)
		if err != nil {
			r.Fatal(err)
		}
		push := rapid.Bool().Draw(r, "push")
		tab := rapid.StringMatching(`[a-z]{1,10}`).Draw(r, "tab")
		url := location.WithParam(location.Default, "tab", tab)
		if push {
			_, err = repo.Push(ctx, url)
		} else {
			_, err = repo.Replace(ctx, url)
		}
		if err != nil {
			r.Fatal(err)
		}

		after, err := repo.History(ctx, 0)
		if err != nil {
			r.Fatal(err)
		}
		want := len(before)
		if push || len(before) == 0 {
			want++
		}
		if len(after) != want {
			r.Fatalf("history length %d, want %d", len(after), want)
		}
		if after[0].URL != url {
			r.Fatalf("current %q, want %q", after[0].URL, url)
		}
	})
}

package series

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fundwatch/internal/contracts"
)

func day(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

func row(d int, values map[string]float64) *contracts.ValuationRow {
	return &contracts.ValuationRow{Date: day(d), Values: values}
}

func TestMemoryStore_AppendRejectsDuplicateDate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Append(ctx, row(3, map[string]float64{"A": 10})))

	// Same date at a different clock time is still a duplicate.
	dup := &contracts.ValuationRow{
		Date:   time.Date(2026, 8, 3, 15, 30, 0, 0, time.UTC),
		Values: map[string]float64{"A": 99},
	}
	err := store.Append(ctx, dup)
	assert.ErrorIs(t, err, contracts.ErrDuplicateDate)

	rows, err := store.AllRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 10.0, rows[0].Values["A"], "rejected append must not mutate the series")
}

func TestMemoryStore_RowsSortedRegardlessOfInsertOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Append(ctx, row(5, map[string]float64{"A": 3})))
	require.NoError(t, store.Append(ctx, row(1, map[string]float64{"A": 1})))
	require.NoError(t, store.Append(ctx, row(3, map[string]float64{"A": 2})))

	rows, err := store.AllRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, day(1), rows[0].Date)
	assert.Equal(t, day(3), rows[1].Date)
	assert.Equal(t, day(5), rows[2].Date)
}

func TestMemoryStore_TrailingWindow(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for d := 1; d <= 10; d++ {
		require.NoError(t, store.Append(ctx, row(d, map[string]float64{"A": float64(d)})))
	}

	t.Run("bounded by period", func(t *testing.T) {
		window, err := store.TrailingWindow(ctx, "A", 3, day(10))
		require.NoError(t, err)
		require.Len(t, window, 3)
		assert.Equal(t, day(8), window[0].Date)
		assert.Equal(t, day(10), window[2].Date)
	})

	t.Run("asOf excludes later rows", func(t *testing.T) {
		window, err := store.TrailingWindow(ctx, "A", 3, day(6))
		require.NoError(t, err)
		require.Len(t, window, 3)
		assert.Equal(t, day(6), window[2].Date)
	})

	t.Run("shorter history returned whole", func(t *testing.T) {
		window, err := store.TrailingWindow(ctx, "A", 30, day(10))
		require.NoError(t, err)
		assert.Len(t, window, 10)
	})

	t.Run("asOf before history", func(t *testing.T) {
		window, err := store.TrailingWindow(ctx, "A", 3, day(1).AddDate(0, 0, -5))
		require.NoError(t, err)
		assert.Empty(t, window)
	})
}

func TestMemoryStore_TrailingWindowCountsDatesNotCells(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	// Day 2 is missing fund A. Window membership is by date, so the gap
	// occupies a slot instead of pulling in an older row.
	require.NoError(t, store.Append(ctx, row(1, map[string]float64{"A": 1, "B": 10})))
	require.NoError(t, store.Append(ctx, row(2, map[string]float64{"B": 20})))
	require.NoError(t, store.Append(ctx, row(3, map[string]float64{"A": 3, "B": 30})))

	window, err := store.TrailingWindow(ctx, "A", 2, day(3))
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, day(2), window[0].Date)
	_, present := window[0].Value("A")
	assert.False(t, present)
}

func TestMemoryStore_RowBefore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Append(ctx, row(1, map[string]float64{"A": 1})))
	require.NoError(t, store.Append(ctx, row(3, map[string]float64{"A": 3})))

	prev, err := store.RowBefore(ctx, day(3))
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, day(1), prev.Date)

	// Non-row dates still resolve to the nearest earlier row.
	prev, err = store.RowBefore(ctx, day(2))
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, day(1), prev.Date)

	prev, err = store.RowBefore(ctx, day(1))
	require.NoError(t, err)
	assert.Nil(t, prev, "first row has no predecessor")
}

func TestMemoryStore_UpdateValue(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Append(ctx, row(1, map[string]float64{"A": 1})))

	require.NoError(t, store.UpdateValue(ctx, day(1), "B", 2.5))

	rows, err := store.AllRows(ctx)
	require.NoError(t, err)
	v, ok := rows[0].Value("B")
	require.True(t, ok)
	assert.Equal(t, 2.5, v)

	err = store.UpdateValue(ctx, day(9), "A", 1.0)
	assert.ErrorIs(t, err, contracts.ErrRowNotFound)
}

func TestMemoryStore_AppendStoresIndependentCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	appended := row(1, map[string]float64{"A": 1})
	require.NoError(t, store.Append(ctx, appended))
	appended.Values["A"] = 999

	rows, err := store.AllRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1.0, rows[0].Values["A"], "appended rows are copied, not aliased")
}

func TestMemoryStore_SnapshotsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Append(ctx, row(1, map[string]float64{"A": 1})))

	rows, err := store.AllRows(ctx)
	require.NoError(t, err)
	rows[0].Values["A"] = 999

	again, err := store.AllRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, again[0].Values["A"], "caller mutation must not leak into the store")
}

package indicator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fundwatch/internal/contracts"
	"github.com/wonny/fundwatch/internal/fundconfig"
	"github.com/wonny/fundwatch/internal/series"
	"github.com/wonny/fundwatch/pkg/logger"
)

func day(d int) time.Time {
	return time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d-1)
}

func seedStore(t *testing.T, values map[int]map[string]float64) *series.MemoryStore {
	t.Helper()
	store := series.NewMemoryStore()
	for d, cells := range values {
		err := store.Append(context.Background(), &contracts.ValuationRow{Date: day(d), Values: cells})
		require.NoError(t, err)
	}
	return store
}

func newEngine(store contracts.SeriesStore) *Engine {
	return NewEngine(store, fundconfig.Periods{Short: 3, Medium: 5, Long: 10}, logger.NewNop())
}

func TestEngine_ComputeExactWindow(t *testing.T) {
	store := seedStore(t, map[int]map[string]float64{
		1: {"A": 10},
		2: {"A": 11},
		3: {"A": 12},
		4: {"A": 13},
	})
	e := newEngine(store)

	ma, err := e.Compute(context.Background(), "A", 3, day(4))
	require.NoError(t, err)
	require.True(t, ma.Valid)
	assert.Equal(t, 12.0, ma.Value, "mean of the latest 3 rows (11, 12, 13)")
}

func TestEngine_ComputeRoundsToFourPlaces(t *testing.T) {
	store := seedStore(t, map[int]map[string]float64{
		1: {"A": 10},
		2: {"A": 11},
		3: {"A": 11},
	})
	e := newEngine(store)

	// Mean is 10.666..., carried at the feed's 4-place precision.
	ma, err := e.Compute(context.Background(), "A", 3, day(3))
	require.NoError(t, err)
	require.True(t, ma.Valid)
	assert.Equal(t, 10.6667, ma.Value)
}

func TestEngine_ComputeOneShortOfPeriod(t *testing.T) {
	store := seedStore(t, map[int]map[string]float64{
		1: {"A": 10},
		2: {"A": 11},
	})
	e := newEngine(store)

	// 2 rows for a period of 3: unavailable, never a shorter mean.
	ma, err := e.Compute(context.Background(), "A", 3, day(2))
	require.NoError(t, err)
	assert.False(t, ma.Valid)
}

func TestEngine_ComputeMissingCellBreaksWindow(t *testing.T) {
	store := seedStore(t, map[int]map[string]float64{
		1: {"A": 10, "B": 1},
		2: {"B": 2}, // A missing
		3: {"A": 12, "B": 3},
	})
	e := newEngine(store)

	ma, err := e.Compute(context.Background(), "A", 3, day(3))
	require.NoError(t, err)
	assert.False(t, ma.Valid, "only 2 valid values inside a 3-row window")

	// The fund with a full window is unaffected.
	mb, err := e.Compute(context.Background(), "B", 3, day(3))
	require.NoError(t, err)
	require.True(t, mb.Valid)
	assert.Equal(t, 2.0, mb.Value)
}

func TestEngine_ComputeEmptyHistory(t *testing.T) {
	e := newEngine(series.NewMemoryStore())

	ma, err := e.Compute(context.Background(), "A", 3, day(1))
	require.NoError(t, err)
	assert.False(t, ma.Valid)
}

func TestEngine_ComputeSet(t *testing.T) {
	cells := make(map[int]map[string]float64)
	for d := 1; d <= 6; d++ {
		cells[d] = map[string]float64{"A": float64(100 + d)}
	}
	store := seedStore(t, cells)
	e := newEngine(store)

	set, err := e.ComputeSet(context.Background(), "A", day(6))
	require.NoError(t, err)

	// 6 rows: short (3) and medium (5) windows fill, long (10) does not.
	require.True(t, set.MA30.Valid)
	assert.Equal(t, 105.0, set.MA30.Value)
	require.True(t, set.MA50.Valid)
	assert.Equal(t, 104.0, set.MA50.Value)
	assert.False(t, set.MA200.Valid)
}

package repair

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fundwatch/internal/calendar"
	"github.com/wonny/fundwatch/internal/contracts"
	"github.com/wonny/fundwatch/internal/series"
	"github.com/wonny/fundwatch/pkg/logger"
)

type fakeReport map[string][]string

func (r fakeReport) Line(code string) ([]string, bool) {
	fields, ok := r[code]
	return fields, ok
}

type fakeProvider struct {
	reports map[string]contracts.NAVReport
	errs    map[string]error
	fetches map[string]int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		reports: make(map[string]contracts.NAVReport),
		errs:    make(map[string]error),
		fetches: make(map[string]int),
	}
}

func (p *fakeProvider) Fetch(ctx context.Context, date time.Time) (contracts.NAVReport, error) {
	key := date.Format("2006-01-02")
	p.fetches[key]++
	if err, ok := p.errs[key]; ok {
		return nil, err
	}
	if report, ok := p.reports[key]; ok {
		return report, nil
	}
	return nil, contracts.ErrProviderUnavailable
}

func record(code, nav string) []string {
	return []string{code, "INF000000000", "INF000000001", "Some Fund", nav, "24-Aug-2026"}
}

var repairFunds = []contracts.Instrument{
	{Name: "Fund A", Code: "A"},
	{Name: "Fund B", Code: "B"},
}

func day(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

func seedSeries(t *testing.T, rows map[int]map[string]float64) *series.MemoryStore {
	t.Helper()
	store := series.NewMemoryStore()
	for d, values := range rows {
		err := store.Append(context.Background(), &contracts.ValuationRow{Date: day(d), Values: values})
		require.NoError(t, err)
	}
	return store
}

func newRepairer(store contracts.SeriesStore, p *fakeProvider) *Repairer {
	return New(store, p, calendar.New(time.UTC, nil), repairFunds, 7, logger.NewNop())
}

func TestRepairMissing_HealsFromRowDate(t *testing.T) {
	// Monday 24th is missing fund B; the provider has it for that date.
	store := seedSeries(t, map[int]map[string]float64{
		21: {"A": 1, "B": 2},
		24: {"A": 3},
	})
	p := newFakeProvider()
	p.reports["2026-08-24"] = fakeReport{"B": record("B", "4.5")}

	report, err := newRepairer(store, p).RepairMissing(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Repaired["B"])
	assert.Zero(t, report.Unhealed)
	assert.Equal(t, 2, report.RowsSeen)

	rows, err := store.AllRows(context.Background())
	require.NoError(t, err)
	v, ok := rows[1].Value("B")
	require.True(t, ok)
	assert.Equal(t, 4.5, v)
	assert.Equal(t, 3.0, rows[1].Values["A"], "populated cells are untouched")
}

func TestRepairMissing_WalksBackwardPastGaps(t *testing.T) {
	// Monday 24th missing B; nothing published until the prior Thursday
	// 20th. The walk skips the weekend and the unavailable Friday.
	store := seedSeries(t, map[int]map[string]float64{
		24: {"A": 3},
	})
	p := newFakeProvider()
	p.reports["2026-08-20"] = fakeReport{"B": record("B", "7.25")}

	report, err := newRepairer(store, p).RepairMissing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Total)

	rows, err := store.AllRows(context.Background())
	require.NoError(t, err)
	v, ok := rows[0].Value("B")
	require.True(t, ok)
	assert.Equal(t, 7.25, v)

	assert.Zero(t, p.fetches["2026-08-23"], "weekend days are never fetched")
	assert.Zero(t, p.fetches["2026-08-22"])
}

func TestRepairMissing_UnhealedWithinBudget(t *testing.T) {
	store := seedSeries(t, map[int]map[string]float64{
		24: {"A": 3},
	})
	p := newFakeProvider() // nothing published at all

	report, err := newRepairer(store, p).RepairMissing(context.Background())
	require.NoError(t, err, "an unhealable cell does not abort the pass")

	assert.Zero(t, report.Total)
	assert.Equal(t, 1, report.Unhealed)
	assert.Equal(t, 1, report.CellsSeen)

	rows, err := store.AllRows(context.Background())
	require.NoError(t, err)
	_, ok := rows[0].Value("B")
	assert.False(t, ok, "the gap stays a gap")
}

func TestRepairMissing_Idempotent(t *testing.T) {
	store := seedSeries(t, map[int]map[string]float64{
		24: {"A": 3},
	})
	p := newFakeProvider()
	p.reports["2026-08-24"] = fakeReport{"B": record("B", "4.5")}

	r := newRepairer(store, p)

	first, err := r.RepairMissing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Total)

	second, err := r.RepairMissing(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.Total)
	assert.Zero(t, second.Unhealed)
	assert.Zero(t, second.CellsSeen)
}

func TestRepairMissing_SharesReportsAcrossCells(t *testing.T) {
	// Both funds missing on the same row: one fetch serves both cells.
	store := seedSeries(t, map[int]map[string]float64{
		24: {},
	})
	p := newFakeProvider()
	p.reports["2026-08-24"] = fakeReport{
		"A": record("A", "1.5"),
		"B": record("B", "2.5"),
	}

	report, err := newRepairer(store, p).RepairMissing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, p.fetches["2026-08-24"])
}

func TestRepairMissing_NegativeCaching(t *testing.T) {
	// Two unhealable cells on one row walk the same unavailable dates; each
	// date is still fetched only once.
	store := seedSeries(t, map[int]map[string]float64{
		24: {},
	})
	p := newFakeProvider()

	report, err := newRepairer(store, p).RepairMissing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Unhealed)
	for date, n := range p.fetches {
		assert.Equal(t, 1, n, "date %s fetched more than once", date)
	}
}

func TestRepairMissing_UnexpectedProviderErrorAborts(t *testing.T) {
	store := seedSeries(t, map[int]map[string]float64{
		24: {"A": 3},
	})
	p := newFakeProvider()
	boom := errors.New("boom")
	p.errs["2026-08-24"] = boom

	_, err := newRepairer(store, p).RepairMissing(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

// Package repair heals historical gaps in the NAV series. Daily ingestion is
// all-or-nothing, but history can still hold partial rows, typically rows
// that predate a fund's addition to the tracked set. This pass fills those
// cells one by one.
package repair

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/fundwatch/internal/calendar"
	"github.com/wonny/fundwatch/internal/contracts"
	"github.com/wonny/fundwatch/internal/provider/amfi"
	"github.com/wonny/fundwatch/pkg/logger"
)

// Repairer scans every persisted row for missing cells and re-attempts the
// provider query backward from each row's own date. It never creates or
// deletes rows and never touches cells that already hold a value.
type Repairer struct {
	store             contracts.SeriesStore
	provider          contracts.MarketDataProvider
	cal               *calendar.Calendar
	funds             []contracts.Instrument
	maxLookbackPerGap int
	logger            *logger.Logger
}

// Report summarizes one repair pass.
type Report struct {
	Repaired  map[string]int // healed cells per scheme code
	Total     int            // healed cells overall
	Unhealed  int            // cells still missing after the pass
	RowsSeen  int
	CellsSeen int
}

// New creates a repairer.
func New(
	store contracts.SeriesStore,
	provider contracts.MarketDataProvider,
	cal *calendar.Calendar,
	funds []contracts.Instrument,
	maxLookbackPerGap int,
	log *logger.Logger,
) *Repairer {
	return &Repairer{
		store:             store,
		provider:          provider,
		cal:               cal,
		funds:             funds,
		maxLookbackPerGap: maxLookbackPerGap,
		logger:            log.WithField("module", "repair"),
	}
}

// RepairMissing walks the full series and heals what it can. A cell that
// cannot be healed within the lookback budget is logged and counted but never
// aborts the pass; store failures do. Running the pass twice in a row is
// idempotent: the second run finds nothing to heal.
func (r *Repairer) RepairMissing(ctx context.Context) (*Report, error) {
	rows, err := r.store.AllRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load series: %w", err)
	}

	report := &Report{
		Repaired: make(map[string]int),
		RowsSeen: len(rows),
	}
	// Reports are shared across cells of the same run: several funds can be
	// missing on the same dates.
	cache := make(map[string]contracts.NAVReport)

	for i := range rows {
		missing := rows[i].MissingCodes(r.funds)
		report.CellsSeen += len(missing)

		for _, code := range missing {
			value, found, err := r.heal(ctx, cache, code, rows[i].Date)
			if err != nil {
				return report, err
			}
			if !found {
				r.logger.WithFields(map[string]interface{}{
					"code": code,
					"date": rows[i].Date.Format("2006-01-02"),
				}).Warn("Repair not found within lookback")
				report.Unhealed++
				continue
			}

			if err := r.store.UpdateValue(ctx, rows[i].Date, code, value); err != nil {
				return report, fmt.Errorf("update cell %s@%s: %w", code, rows[i].Date.Format("2006-01-02"), err)
			}
			report.Repaired[code]++
			report.Total++

			r.logger.WithFields(map[string]interface{}{
				"code":  code,
				"date":  rows[i].Date.Format("2006-01-02"),
				"value": value,
			}).Info("Repaired missing cell")
		}
	}

	r.logger.WithFields(map[string]interface{}{
		"rows":     report.RowsSeen,
		"repaired": report.Total,
		"unhealed": report.Unhealed,
	}).Info("Gap repair pass completed")

	return report, nil
}

// heal walks backward from the row's own date (offset 0, not from today)
// looking for a NAV for the scheme, with the widened extraction scan shared
// with the resolver's retry pass.
func (r *Repairer) heal(ctx context.Context, cache map[string]contracts.NAVReport, code string, from time.Time) (float64, bool, error) {
	for offset := 0; offset <= r.maxLookbackPerGap; offset++ {
		date := from.AddDate(0, 0, -offset)
		if r.cal.IsNonTradingDay(date) {
			continue
		}

		report, err := r.fetchCached(ctx, cache, date)
		if err != nil {
			if errors.Is(err, contracts.ErrProviderUnavailable) {
				continue
			}
			return 0, false, err
		}
		if report == nil {
			// Negative cache hit for an unavailable date.
			continue
		}

		fields, ok := report.Line(code)
		if !ok {
			continue
		}
		if v, ok := amfi.ExtractValue(fields, amfi.WidenedHints()); ok {
			return v, true, nil
		}
	}
	return 0, false, nil
}

// fetchCached fetches a date's report at most once per pass. Unavailable
// dates are cached as nil so they are not refetched either.
func (r *Repairer) fetchCached(ctx context.Context, cache map[string]contracts.NAVReport, date time.Time) (contracts.NAVReport, error) {
	key := date.Format("2006-01-02")
	if report, seen := cache[key]; seen {
		return report, nil
	}

	report, err := r.provider.Fetch(ctx, date)
	if err != nil {
		if errors.Is(err, contracts.ErrProviderUnavailable) {
			cache[key] = nil
		}
		return nil, err
	}
	cache[key] = report
	return report, nil
}

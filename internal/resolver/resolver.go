// Package resolver finds the most recent trading day with a complete set of
// fund valuations, walking backward from today with bounded depth.
package resolver

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

// Resolver walks candidate dates, fetches the provider report, and converts
// it into a fully-populated ValuationRow. Partial rows are never returned:
// trading halts or partial publication would otherwise corrupt every window
// computed over the series.
type Resolver struct {
	provider contracts.MarketDataProvider
	cal      *calendar.Calendar
	funds    []contracts.Instrument

	maxLookbackDays   int
	retryLookbackDays int

	logger *logger.Logger

	// now is injectable for deterministic tests.
	now func() time.Time
}

// New creates a resolver over the tracked fund set.
func New(
	provider contracts.MarketDataProvider,
	cal *calendar.Calendar,
	funds []contracts.Instrument,
	maxLookbackDays, retryLookbackDays int,
	log *logger.Logger,
) *Resolver {
	return &Resolver{
		provider:          provider,
		cal:               cal,
		funds:             funds,
		maxLookbackDays:   maxLookbackDays,
		retryLookbackDays: retryLookbackDays,
		logger:            log.WithField("module", "resolver"),
		now:               time.Now,
	}
}

// ResolveLatestCompleteRow returns the newest row for which every tracked
// fund has a NAV.
//
// The walk starts at offset 1 (same-day reports are not yet published) and
// moves backward one calendar day at a time, skipping non-trading days, up to
// maxLookbackDays for the first syntactically valid report. Accepting a
// report does not require every fund to resolve; if the built row has any
// missing fund the date is discarded and the walk continues, now extracting
// with a widened field scan, up to retryLookbackDays past the first success.
// Exhaustion returns contracts.ErrNoTradingData. The same date is never
// fetched twice.
func (r *Resolver) ResolveLatestCompleteRow(ctx context.Context) (*contracts.ValuationRow, error) {
	today := r.now().In(r.cal.Location())

	limit := r.maxLookbackDays
	hints := amfi.DefaultHints()
	accepted := false

	for offset := 1; offset <= limit; offset++ {
		date := dateOnly(today.AddDate(0, 0, -offset), r.cal.Location())

		if r.cal.IsNonTradingDay(date) {
			r.logger.WithField("date", date.Format("2006-01-02")).Debug("Skipping non-trading day")
			continue
		}

		report, err := r.provider.Fetch(ctx, date)
		if err != nil {
			if errors.Is(err, contracts.ErrProviderUnavailable) {
				r.logger.WithFields(map[string]interface{}{
					"date":  date.Format("2006-01-02"),
					"error": err.Error(),
				}).Warn("Report unavailable, trying earlier date")
				continue
			}
			return nil, fmt.Errorf("fetch report for %s: %w", date.Format("2006-01-02"), err)
		}

		if !accepted {
			// First usable report: the remaining budget for a complete row
			// extends retryLookbackDays past this point.
			accepted = true
			limit = offset + r.retryLookbackDays
		}

		row := r.buildRow(report, date, hints)
		// Every candidate after the first accepted report scans wider.
		hints = amfi.WidenedHints()

		if missing := row.MissingCodes(r.funds); len(missing) > 0 {
			r.logger.WithFields(map[string]interface{}{
				"date":    date.Format("2006-01-02"),
				"missing": missing,
				"error":   contracts.ErrIncompleteRow.Error(),
			}).Warn("Discarding partial row, extending lookback")
			continue
		}

		r.logger.WithFields(map[string]interface{}{
			"date":  date.Format("2006-01-02"),
			"funds": len(row.Values),
		}).Info("Resolved complete valuation row")
		return row, nil
	}

	return nil, contracts.ErrNoTradingData
}

// buildRow extracts one NAV per tracked fund from the report. Funds whose
// record is absent or yields no numeric value are simply left out of Values.
func (r *Resolver) buildRow(report contracts.NAVReport, date time.Time, hints amfi.Hints) *contracts.ValuationRow {
	row := &contracts.ValuationRow{
		Date:   date,
		Values: make(map[string]float64, len(r.funds)),
	}

	for _, fund := range r.funds {
		fields, ok := report.Line(fund.Code)
		if !ok {
			continue
		}
		if v, ok := amfi.ExtractValue(fields, hints); ok {
			row.Values[fund.Code] = v
		}
	}

	return row
}

// dateOnly truncates t to midnight in loc.
func dateOnly(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

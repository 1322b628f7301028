// Package indicator derives trailing moving averages from the NAV series.
package indicator

import (
	"context"
	"fmt"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/wonny/fundwatch/internal/contracts"
	"github.com/wonny/fundwatch/internal/fundconfig"
	"github.com/wonny/fundwatch/pkg/logger"
)

// roundPlaces is the NAV feed's own precision; averages carry no more.
const roundPlaces = 4

// Engine computes fixed-window trailing averages over the series store.
// Windows are exact: a window holding fewer valid values than its period is
// unavailable, never a shorter mean, so early history can't masquerade as a
// trend.
type Engine struct {
	store   contracts.SeriesStore
	periods fundconfig.Periods
	logger  *logger.Logger
}

// NewEngine creates a moving average engine.
func NewEngine(store contracts.SeriesStore, periods fundconfig.Periods, log *logger.Logger) *Engine {
	return &Engine{
		store:   store,
		periods: periods,
		logger:  log.WithField("module", "indicator"),
	}
}

// Compute returns the trailing mean of the fund's values over the most
// recent period rows ending at asOf, rounded to 4 decimal places.
// Unavailable unless exactly period valid values exist in that range.
func (e *Engine) Compute(ctx context.Context, code string, period int, asOf time.Time) (contracts.MAValue, error) {
	window, err := e.store.TrailingWindow(ctx, code, period, asOf)
	if err != nil {
		return contracts.Unavailable(), fmt.Errorf("trailing window %s/%d: %w", code, period, err)
	}

	values := make([]float64, 0, len(window))
	for i := range window {
		if v, ok := window[i].Value(code); ok {
			values = append(values, v)
		}
	}

	if len(values) != period {
		return contracts.Unavailable(), nil
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return contracts.Unavailable(), fmt.Errorf("mean %s/%d: %w", code, period, err)
	}
	rounded, err := stats.Round(mean, roundPlaces)
	if err != nil {
		return contracts.Unavailable(), fmt.Errorf("round %s/%d: %w", code, period, err)
	}

	return contracts.Available(rounded), nil
}

// ComputeSet computes the short, medium, and long averages for one fund as
// of one row date.
func (e *Engine) ComputeSet(ctx context.Context, code string, asOf time.Time) (contracts.MASet, error) {
	var set contracts.MASet
	var err error

	if set.MA30, err = e.Compute(ctx, code, e.periods.Short, asOf); err != nil {
		return set, err
	}
	if set.MA50, err = e.Compute(ctx, code, e.periods.Medium, asOf); err != nil {
		return set, err
	}
	if set.MA200, err = e.Compute(ctx, code, e.periods.Long, asOf); err != nil {
		return set, err
	}

	return set, nil
}

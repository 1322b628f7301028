package contracts

import "errors"

// Error taxonomy for the daily pipeline. Callers match with errors.Is;
// everything else is wrapped context via fmt.Errorf("%w").
var (
	// ErrProviderUnavailable marks a single date's report fetch as unusable
	// (non-200, empty body, or the provider's explicit no-data marker).
	// Recovered locally by advancing to an earlier candidate date.
	ErrProviderUnavailable = errors.New("provider report unavailable")

	// ErrNoTradingData is returned once the full lookback budget is exhausted
	// without producing a complete row. Fatal to the run.
	ErrNoTradingData = errors.New("no trading data found within lookback window")

	// ErrDuplicateDate is returned by SeriesStore.Append when a row for the
	// date already exists. The pipeline treats it as an idempotent no-op.
	ErrDuplicateDate = errors.New("row already exists for date")

	// ErrIncompleteRow marks a candidate date whose report left at least one
	// instrument unresolved. Internal to the resolver's extended walk.
	ErrIncompleteRow = errors.New("row is missing instrument values")

	// ErrRowNotFound is returned by single-cell updates targeting a date with
	// no stored row.
	ErrRowNotFound = errors.New("no row for date")
)

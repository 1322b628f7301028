package contracts

import (
	"context"
	"time"
)

// SeriesStore owns the canonical per-fund NAV history: an ordered,
// append-only, deduplicated-by-date record set.
type SeriesStore interface {
	// Append inserts a row at the chronological end. Returns ErrDuplicateDate
	// if a row for that date already exists; the store is left unchanged.
	// The write is durable before Append returns.
	Append(ctx context.Context, row *ValuationRow) error

	// TrailingWindow returns the most recent rows with date <= asOf for the
	// given period, in chronological order. Returns fewer than period rows
	// when history is shorter.
	TrailingWindow(ctx context.Context, code string, period int, asOf time.Time) ([]ValuationRow, error)

	// RowBefore returns the row immediately preceding date in stored order,
	// or nil when date is the first row.
	RowBefore(ctx context.Context, date time.Time) (*ValuationRow, error)

	// AllRows returns a chronological snapshot of the full series. Restart by
	// calling again; gap repair mutates cells while walking the snapshot.
	AllRows(ctx context.Context) ([]ValuationRow, error)

	// UpdateValue overwrites a single (date, code) cell. Used only by gap
	// repair to fill cells that were recorded as missing. Returns
	// ErrRowNotFound when no row exists for the date.
	UpdateValue(ctx context.Context, date time.Time, code string, value float64) error
}

// SignalStore persists the derived column groups (moving averages and signal
// text/highlight) for single rows.
type SignalStore interface {
	SaveSignal(ctx context.Context, sig *Signal, mas MASet) error
	LatestSignals(ctx context.Context) ([]Signal, error)
}

// NAVReport is one day's parsed provider report.
type NAVReport interface {
	// Line returns the raw semicolon-split fields of the record keyed by
	// scheme code, and whether such a record exists.
	Line(code string) ([]string, bool)
}

// MarketDataProvider fetches the raw daily valuation report for a date.
// A failed date wraps ErrProviderUnavailable; callers recover by trying an
// earlier date, never by resubmitting the same one.
type MarketDataProvider interface {
	Fetch(ctx context.Context, date time.Time) (NAVReport, error)
}

// Notifier delivers the end-of-cycle digest. Implementations own formatting
// and transport.
type Notifier interface {
	SendDigest(ctx context.Context, digest *Digest) error
}

package series

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/fundwatch/internal/contracts"
)

// alertSeparator joins fired alert messages in their fixed order for the
// signal_text column.
const alertSeparator = " | "

// SignalRepository persists the derived column groups (three moving
// averages plus signal text/highlight) in data.fund_signals, one record per
// (fund, date). Signals are deterministic given the series, so writes upsert.
type SignalRepository struct {
	pool *pgxpool.Pool
}

// NewSignalRepository creates a signal repository over the given pool.
func NewSignalRepository(pool *pgxpool.Pool) *SignalRepository {
	return &SignalRepository{pool: pool}
}

// SaveSignal upserts the derived columns for one (fund, date).
func (r *SignalRepository) SaveSignal(ctx context.Context, sig *contracts.Signal, mas contracts.MASet) error {
	query := `
		INSERT INTO data.fund_signals
			(fund_code, nav_date, ma_short, ma_medium, ma_long, score, signal_text, highlight, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (fund_code, nav_date) DO UPDATE SET
			ma_short = EXCLUDED.ma_short,
			ma_medium = EXCLUDED.ma_medium,
			ma_long = EXCLUDED.ma_long,
			score = EXCLUDED.score,
			signal_text = EXCLUDED.signal_text,
			highlight = EXCLUDED.highlight,
			updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		sig.Code, sig.Date,
		nullable(mas.MA30), nullable(mas.MA50), nullable(mas.MA200),
		sig.Score,
		strings.Join(sig.Alerts, alertSeparator),
		sig.Highlight.String(),
	)
	if err != nil {
		return fmt.Errorf("save signal %s@%s: %w", sig.Code, sig.Date.Format("2006-01-02"), err)
	}
	return nil
}

// LatestSignals returns all signals stored for the most recent date, or an
// empty slice when nothing has been evaluated yet.
func (r *SignalRepository) LatestSignals(ctx context.Context) ([]contracts.Signal, error) {
	query := `
		SELECT fund_code, nav_date, score, signal_text, highlight
		FROM data.fund_signals
		WHERE nav_date = (SELECT MAX(nav_date) FROM data.fund_signals)
		ORDER BY fund_code
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query latest signals: %w", err)
	}
	defer rows.Close()

	var signals []contracts.Signal
	for rows.Next() {
		var sig contracts.Signal
		var date time.Time
		var text, highlight string
		if err := rows.Scan(&sig.Code, &date, &sig.Score, &text, &highlight); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		sig.Date = date
		if text != "" {
			sig.Alerts = strings.Split(text, alertSeparator)
		}
		sig.Highlight = parseHighlight(highlight)
		signals = append(signals, sig)
	}
	return signals, rows.Err()
}

func nullable(ma contracts.MAValue) *float64 {
	if !ma.Valid {
		return nil
	}
	return &ma.Value
}

func parseHighlight(s string) contracts.HighlightLevel {
	switch s {
	case "strong":
		return contracts.HighlightStrong
	case "medium":
		return contracts.HighlightMedium
	default:
		return contracts.HighlightNone
	}
}

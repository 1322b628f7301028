// Package series persists the canonical per-fund NAV history.
package series

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/fundwatch/internal/contracts"
)

// PostgresStore implements contracts.SeriesStore over data.nav_history,
// keyed (fund_code, nav_date). A logical ValuationRow is the set of cells
// sharing one nav_date; a missing cell is an absent (fund, date) pair on a
// date other funds have.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a series store over the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Append inserts one cell per fund for the row's date inside a single
// transaction, so a duplicate date leaves the store untouched.
func (s *PostgresStore) Append(ctx context.Context, row *contracts.ValuationRow) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM data.nav_history WHERE nav_date = $1)`,
		row.Date,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check duplicate date: %w", err)
	}
	if exists {
		return contracts.ErrDuplicateDate
	}

	for code, nav := range row.Values {
		_, err = tx.Exec(ctx,
			`INSERT INTO data.nav_history (fund_code, nav_date, nav) VALUES ($1, $2, $3)`,
			code, row.Date, nav,
		)
		if err != nil {
			return fmt.Errorf("insert cell %s@%s: %w", code, row.Date.Format("2006-01-02"), err)
		}
	}

	return tx.Commit(ctx)
}

// TrailingWindow returns the most recent rows (by distinct nav_date <= asOf)
// for one fund. Window membership is decided by date across all funds, so a
// fund's missing cell shows up as an absent key rather than pulling in an
// older date.
func (s *PostgresStore) TrailingWindow(ctx context.Context, code string, period int, asOf time.Time) ([]contracts.ValuationRow, error) {
	query := `
		WITH window_dates AS (
			SELECT DISTINCT nav_date
			FROM data.nav_history
			WHERE nav_date <= $1
			ORDER BY nav_date DESC
			LIMIT $2
		)
		SELECT d.nav_date, h.nav
		FROM window_dates d
		LEFT JOIN data.nav_history h
			ON h.nav_date = d.nav_date AND h.fund_code = $3
		ORDER BY d.nav_date ASC
	`

	rows, err := s.pool.Query(ctx, query, asOf, period, code)
	if err != nil {
		return nil, fmt.Errorf("query trailing window: %w", err)
	}
	defer rows.Close()

	var window []contracts.ValuationRow
	for rows.Next() {
		var date time.Time
		var nav *float64
		if err := rows.Scan(&date, &nav); err != nil {
			return nil, fmt.Errorf("scan window row: %w", err)
		}
		row := contracts.ValuationRow{Date: date, Values: map[string]float64{}}
		if nav != nil {
			row.Values[code] = *nav
		}
		window = append(window, row)
	}
	return window, rows.Err()
}

// RowBefore returns the full row immediately preceding date, or nil when
// date is the first stored row.
func (s *PostgresStore) RowBefore(ctx context.Context, date time.Time) (*contracts.ValuationRow, error) {
	var prevDate time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT nav_date FROM data.nav_history WHERE nav_date < $1 ORDER BY nav_date DESC LIMIT 1`,
		date,
	).Scan(&prevDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find previous date: %w", err)
	}
	return s.rowAt(ctx, prevDate)
}

// AllRows returns the full series, one ValuationRow per distinct date,
// in chronological order.
func (s *PostgresStore) AllRows(ctx context.Context) ([]contracts.ValuationRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT nav_date, fund_code, nav FROM data.nav_history ORDER BY nav_date ASC, fund_code ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query all rows: %w", err)
	}
	defer rows.Close()

	var out []contracts.ValuationRow
	for rows.Next() {
		var date time.Time
		var code string
		var nav float64
		if err := rows.Scan(&date, &code, &nav); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if len(out) == 0 || !out[len(out)-1].Date.Equal(date) {
			out = append(out, contracts.ValuationRow{Date: date, Values: map[string]float64{}})
		}
		out[len(out)-1].Values[code] = nav
	}
	return out, rows.Err()
}

// UpdateValue fills or overwrites the single (date, code) cell. The date must
// already have a row (gap repair never creates rows).
func (s *PostgresStore) UpdateValue(ctx context.Context, date time.Time, code string, value float64) error {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM data.nav_history WHERE nav_date = $1)`,
		date,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check row exists: %w", err)
	}
	if !exists {
		return contracts.ErrRowNotFound
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO data.nav_history (fund_code, nav_date, nav)
		VALUES ($1, $2, $3)
		ON CONFLICT (fund_code, nav_date) DO UPDATE SET nav = EXCLUDED.nav
	`, code, date, value)
	if err != nil {
		return fmt.Errorf("update cell %s@%s: %w", code, date.Format("2006-01-02"), err)
	}
	return nil
}

// rowAt assembles the full row for one date.
func (s *PostgresStore) rowAt(ctx context.Context, date time.Time) (*contracts.ValuationRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT fund_code, nav FROM data.nav_history WHERE nav_date = $1`,
		date,
	)
	if err != nil {
		return nil, fmt.Errorf("query row at %s: %w", date.Format("2006-01-02"), err)
	}
	defer rows.Close()

	row := &contracts.ValuationRow{Date: date, Values: map[string]float64{}}
	for rows.Next() {
		var code string
		var nav float64
		if err := rows.Scan(&code, &nav); err != nil {
			return nil, fmt.Errorf("scan cell: %w", err)
		}
		row.Values[code] = nav
	}
	return row, rows.Err()
}

package series

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wonny/fundwatch/internal/contracts"
)

// MemoryStore is an in-memory SeriesStore. It backs unit tests and the seed
// path for legacy partially-populated history; the write path keeps rows
// sorted so seeded rows may arrive out of order.
type MemoryStore struct {
	mu   sync.RWMutex
	rows []contracts.ValuationRow
}

// NewMemoryStore creates an empty in-memory series.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append inserts a row, rejecting duplicate dates.
func (s *MemoryStore) Append(ctx context.Context, row *contracts.ValuationRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.rows {
		if sameDate(existing.Date, row.Date) {
			return contracts.ErrDuplicateDate
		}
	}

	s.rows = append(s.rows, *cloneRow(row))
	sort.Slice(s.rows, func(i, j int) bool {
		return s.rows[i].Date.Before(s.rows[j].Date)
	})
	return nil
}

// TrailingWindow returns the most recent rows with date <= asOf, up to
// period of them, in chronological order.
func (s *MemoryStore) TrailingWindow(ctx context.Context, code string, period int, asOf time.Time) ([]contracts.ValuationRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var window []contracts.ValuationRow
	for _, row := range s.rows {
		if !row.Date.After(asOf) {
			window = append(window, row)
		}
	}
	if len(window) > period {
		window = window[len(window)-period:]
	}

	out := make([]contracts.ValuationRow, len(window))
	for i := range window {
		out[i] = *cloneRow(&window[i])
	}
	return out, nil
}

// RowBefore returns the row immediately preceding date, or nil for the first row.
func (s *MemoryStore) RowBefore(ctx context.Context, date time.Time) (*contracts.ValuationRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var prev *contracts.ValuationRow
	for i := range s.rows {
		if s.rows[i].Date.Before(date) {
			prev = &s.rows[i]
		} else {
			break
		}
	}
	if prev == nil {
		return nil, nil
	}
	return cloneRow(prev), nil
}

// AllRows returns a chronological snapshot of the series.
func (s *MemoryStore) AllRows(ctx context.Context) ([]contracts.ValuationRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]contracts.ValuationRow, len(s.rows))
	for i := range s.rows {
		out[i] = *cloneRow(&s.rows[i])
	}
	return out, nil
}

// UpdateValue overwrites a single (date, code) cell.
func (s *MemoryStore) UpdateValue(ctx context.Context, date time.Time, code string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rows {
		if sameDate(s.rows[i].Date, date) {
			s.rows[i].Values[code] = value
			return nil
		}
	}
	return contracts.ErrRowNotFound
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func cloneRow(row *contracts.ValuationRow) *contracts.ValuationRow {
	values := make(map[string]float64, len(row.Values))
	for k, v := range row.Values {
		values[k] = v
	}
	return &contracts.ValuationRow{Date: row.Date, Values: values}
}

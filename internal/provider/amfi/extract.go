package amfi

import (
	"strconv"
	"strings"
)

// Hints orders the candidate field positions for NAV extraction: the
// expected position first, then a bounded scan for the first positive
// numeric value, then the last field as a last resort. First-pass ingestion
// and gap repair share this one function so their semantics never drift.
type Hints struct {
	Primary  int
	ScanFrom int
	ScanTo   int
}

// DefaultHints matches the canonical AMFI layout
// (Scheme Code;ISIN Payout;ISIN Reinv;Scheme Name;Net Asset Value;Date).
func DefaultHints() Hints {
	return Hints{Primary: 4, ScanFrom: 4, ScanTo: 5}
}

// WidenedHints is the retry-pass variant: the same primary position but a
// broader scan, for report days where fields shift around.
func WidenedHints() Hints {
	return Hints{Primary: 4, ScanFrom: 1, ScanTo: 8}
}

// ExtractValue pulls a NAV out of a variable-position delimited record.
// Returns false when no candidate position holds a positive numeric value.
func ExtractValue(fields []string, h Hints) (float64, bool) {
	if v, ok := positiveAt(fields, h.Primary); ok {
		return v, true
	}

	for i := h.ScanFrom; i <= h.ScanTo && i < len(fields); i++ {
		if i == h.Primary {
			continue
		}
		if v, ok := positiveAt(fields, i); ok {
			return v, true
		}
	}

	return positiveAt(fields, len(fields)-1)
}

// positiveAt parses fields[idx] as a positive number. AMFI writes "N.A."
// for unpublished NAVs and occasionally thousands separators; both are
// handled here.
func positiveAt(fields []string, idx int) (float64, bool) {
	if idx < 0 || idx >= len(fields) {
		return 0, false
	}

	s := strings.TrimSpace(fields[idx])
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

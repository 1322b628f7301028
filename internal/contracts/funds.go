package contracts

import "time"

// Instrument is one tracked fund: display name plus the scheme code
// used to key records in the provider's daily report.
type Instrument struct {
	Name string `json:"name" yaml:"name"`
	Code string `json:"code" yaml:"code"`
}

// ValuationRow is one trading day's NAV snapshot across all tracked funds.
// Values is keyed by scheme code; a missing cell is an absent key.
type ValuationRow struct {
	Date   time.Time          `json:"date"`
	Values map[string]float64 `json:"values"`
}

// Value returns the NAV for a scheme code, and whether it is present.
func (r *ValuationRow) Value(code string) (float64, bool) {
	v, ok := r.Values[code]
	return v, ok
}

// MissingCodes returns the scheme codes of instruments without a value in this row.
func (r *ValuationRow) MissingCodes(instruments []Instrument) []string {
	var missing []string
	for _, inst := range instruments {
		if _, ok := r.Values[inst.Code]; !ok {
			missing = append(missing, inst.Code)
		}
	}
	return missing
}

// Complete reports whether every tracked instrument has a value in this row.
func (r *ValuationRow) Complete(instruments []Instrument) bool {
	return len(r.MissingCodes(instruments)) == 0
}

// MAValue is a trailing moving average that may be unavailable when the
// window does not hold enough history.
type MAValue struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// Available wraps a computed average.
func Available(v float64) MAValue {
	return MAValue{Value: v, Valid: true}
}

// Unavailable is the zero MAValue: no average could be computed.
func Unavailable() MAValue {
	return MAValue{}
}

// MASet groups the three trailing averages for one fund as of one row.
type MASet struct {
	MA30  MAValue `json:"ma30"`
	MA50  MAValue `json:"ma50"`
	MA200 MAValue `json:"ma200"`
}

// HighlightLevel classifies how strongly a signal should be surfaced.
type HighlightLevel int

const (
	HighlightNone HighlightLevel = iota
	HighlightMedium
	HighlightStrong
)

// String returns the display name of the highlight level.
func (h HighlightLevel) String() string {
	switch h {
	case HighlightStrong:
		return "strong"
	case HighlightMedium:
		return "medium"
	default:
		return "none"
	}
}

// Signal is the derived output for one (fund, date): opportunity score plus
// any fired alert messages. Deterministic given the series, so it overwrites
// any prior signal for the same fund and date.
type Signal struct {
	Code      string         `json:"code"`
	Date      time.Time      `json:"date"`
	Score     float64        `json:"score"`
	Alerts    []string       `json:"alerts,omitempty"`
	Highlight HighlightLevel `json:"highlight"`
}

// HasAlerts reports whether any alert fired.
func (s *Signal) HasAlerts() bool {
	return len(s.Alerts) > 0
}

package contracts

import "time"

// Digest is the structured end-of-cycle summary handed to the notifier.
type Digest struct {
	Date    time.Time     `json:"date"`
	Entries []DigestEntry `json:"entries"`
}

// DigestEntry is one fund's slice of the digest.
type DigestEntry struct {
	Fund           Instrument     `json:"fund"`
	Latest         float64        `json:"latest"`
	DayChangePct   float64        `json:"day_change_pct"`
	DayChangeValid bool           `json:"day_change_valid"`
	MAs            MASet          `json:"mas"`
	Trend          string         `json:"trend"`
	Alerts         []string       `json:"alerts,omitempty"`
	Highlight      HighlightLevel `json:"highlight"`
}

// HasAlerts reports whether any fund in the digest fired at least one alert.
// A cycle with zero alerts sends no notification.
func (d *Digest) HasAlerts() bool {
	for _, e := range d.Entries {
		if len(e.Alerts) > 0 {
			return true
		}
	}
	return false
}

// EntriesByHighlight returns the entries at the given highlight level,
// preserving configured fund order.
func (d *Digest) EntriesByHighlight(level HighlightLevel) []DigestEntry {
	var out []DigestEntry
	for _, e := range d.Entries {
		if e.Highlight == level {
			out = append(out, e)
		}
	}
	return out
}

// Package amfi fetches and parses the AMFI daily NAV report: one
// semicolon-delimited record per scheme, keyed by scheme code.
package amfi

import (
	"strings"
)

// Report is one day's parsed NAV report. Section headers and malformed
// lines are dropped at parse time; lookups are by scheme code.
type Report struct {
	lines map[string][]string
}

// minFields is the shortest record worth keeping. AMFI data lines carry
// six fields (code, two ISINs, name, NAV, date); anything shorter is a
// section header or noise.
const minFields = 5

// parseReport splits the raw report body into per-scheme records.
func parseReport(body string) *Report {
	r := &Report{lines: make(map[string][]string)}

	for _, raw := range strings.Split(body, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || !strings.Contains(line, ";") {
			continue
		}

		fields := strings.Split(line, ";")
		if len(fields) < minFields {
			continue
		}

		code := strings.TrimSpace(fields[0])
		if code == "" {
			continue
		}

		// First occurrence wins; the feed should not repeat codes.
		if _, exists := r.lines[code]; !exists {
			r.lines[code] = fields
		}
	}

	return r
}

// Line returns the raw fields of the record for a scheme code.
func (r *Report) Line(code string) ([]string, bool) {
	fields, ok := r.lines[code]
	return fields, ok
}

// Size returns the number of scheme records parsed from the report.
func (r *Report) Size() int {
	return len(r.lines)
}

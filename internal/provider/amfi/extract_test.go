package amfi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractValue_CanonicalLayout(t *testing.T) {
	fields := []string{"122639", "INF879O01027", "INF879O01035", "Parag Parikh Flexi Cap Fund - Direct Growth", "84.9123", "22-Aug-2026"}

	v, ok := ExtractValue(fields, DefaultHints())
	require.True(t, ok)
	assert.Equal(t, 84.9123, v)
}

func TestExtractValue_PrimaryPreferredOverScan(t *testing.T) {
	// Both positions 4 and 5 hold numbers; primary must win.
	fields := []string{"100001", "-", "-", "Fund", "12.5", "99.9"}

	v, ok := ExtractValue(fields, DefaultHints())
	require.True(t, ok)
	assert.Equal(t, 12.5, v)
}

func TestExtractValue_ScanWhenPrimaryNotNumeric(t *testing.T) {
	// NAV shifted one field right of the expected position.
	fields := []string{"100001", "-", "-", "Fund", "N.A.", "42.1987", "22-Aug-2026"}

	v, ok := ExtractValue(fields, DefaultHints())
	require.True(t, ok)
	assert.Equal(t, 42.1987, v)
}

func TestExtractValue_ScanSkipsPrimary(t *testing.T) {
	// Widened hints rescan from 1 but never re-test the primary slot.
	fields := []string{"100001", "17.25", "-", "Fund", "N.A.", "-", "-"}

	v, ok := ExtractValue(fields, WidenedHints())
	require.True(t, ok)
	assert.Equal(t, 17.25, v)
}

func TestExtractValue_LastFieldFallback(t *testing.T) {
	fields := []string{"100001", "-", "-", "Fund", "N.A.", "31.07"}

	// Narrow hints whose scan range misses the value entirely.
	h := Hints{Primary: 4, ScanFrom: 4, ScanTo: 4}
	v, ok := ExtractValue(fields, h)
	require.True(t, ok)
	assert.Equal(t, 31.07, v)
}

func TestExtractValue_ThousandsSeparators(t *testing.T) {
	fields := []string{"100001", "-", "-", "Gilt Fund", "1,024.5512", "22-Aug-2026"}

	v, ok := ExtractValue(fields, DefaultHints())
	require.True(t, ok)
	assert.Equal(t, 1024.5512, v)
}

func TestExtractValue_NoCandidate(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
	}{
		{"all placeholders", []string{"100001", "-", "-", "Fund", "N.A.", "N.A."}},
		{"zero value", []string{"100001", "-", "-", "Fund", "0", "0.0"}},
		{"negative value", []string{"100001", "-", "-", "Fund", "-5.2", "-1"}},
		{"empty fields", []string{"100001", "", "", "", "", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ExtractValue(tt.fields, WidenedHints())
			assert.False(t, ok)
		})
	}
}

func TestExtractValue_ShortRecord(t *testing.T) {
	// Primary index beyond the record; last-field fallback still applies.
	fields := []string{"100001", "55.5"}
	v, ok := ExtractValue(fields, DefaultHints())
	require.True(t, ok)
	assert.Equal(t, 55.5, v)
}

func TestParseReport(t *testing.T) {
	body := "Scheme Code;ISIN Div Payout/ ISIN Growth;ISIN Div Reinvestment;Scheme Name;Net Asset Value;Date\n" +
		"\n" +
		"Open Ended Schemes(Equity Scheme - Flexi Cap Fund)\n" +
		upstreamLine("122639", "84.9123") + "\n" +
		upstreamLine("120716", "172.4401") + "\n" +
		"short;line\n" +
		upstreamLine("122639", "1.0") + "\n" // duplicate, must not overwrite

	r := parseReport(body)

	assert.Equal(t, 3, r.Size()) // header row parses as a record too; codes are unique

	fields, ok := r.Line("122639")
	require.True(t, ok)
	v, ok := ExtractValue(fields, DefaultHints())
	require.True(t, ok)
	assert.Equal(t, 84.9123, v, "first occurrence wins over duplicates")

	_, ok = r.Line("999999")
	assert.False(t, ok)
}

func upstreamLine(code, nav string) string {
	return code + ";INF000000000;INF000000001;Some Fund - Direct Growth;" + nav + ";22-Aug-2026"
}

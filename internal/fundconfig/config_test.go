package fundconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fundwatch/internal/contracts"
)

const validYAML = `
meta:
  strategy_id: test-strategy
  version: "1"
funds:
  - name: Alpha Flexi Cap
    code: "100001"
  - name: Beta Index
    code: "100002"
periods:
  short: 30
  medium: 50
  long: 200
dip_tiers:
  exceptional: 7
  strong: 5
  moderate: 3
weights:
  dip: 0.4
  trend: 0.3
  alignment: 0.3
lookback:
  max_days: 10
  retry_days: 5
  repair_per_gap: 7
calendar:
  timezone: Asia/Kolkata
  holidays:
    - "2026-01-26"
`

func TestParse_Valid(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	assert.Equal(t, "test-strategy", cfg.Meta.StrategyID)
	assert.Len(t, cfg.Funds, 2)
	assert.Equal(t, 30, cfg.Periods.Short)
	assert.Equal(t, 200, cfg.Periods.Long)
	assert.Equal(t, 7.0, cfg.DipTiers.Exceptional)
	assert.Equal(t, "Asia/Kolkata", cfg.Calendar.Timezone)
}

func TestParse_UnknownFieldRejected(t *testing.T) {
	_, err := Parse([]byte(validYAML + "\nunknown_key: true\n"))
	assert.Error(t, err)
}

func TestValidate_Failures(t *testing.T) {
	base := func() *Config {
		cfg, err := Parse([]byte(validYAML))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "no funds",
			mutate: func(c *Config) { c.Funds = nil },
			field:  "funds",
		},
		{
			name: "duplicate fund code",
			mutate: func(c *Config) {
				c.Funds = append(c.Funds, contracts.Instrument{Name: "Dup", Code: "100001"})
			},
			field: "funds[2].code",
		},
		{
			name:   "fund missing code",
			mutate: func(c *Config) { c.Funds[0].Code = "" },
			field:  "funds[0]",
		},
		{
			name:   "periods not increasing",
			mutate: func(c *Config) { c.Periods.Medium = 30 },
			field:  "periods.medium",
		},
		{
			name:   "long equals medium",
			mutate: func(c *Config) { c.Periods.Long = c.Periods.Medium },
			field:  "periods.long",
		},
		{
			name:   "dip tiers not decreasing",
			mutate: func(c *Config) { c.DipTiers.Strong = c.DipTiers.Moderate },
			field:  "dip_tiers.strong",
		},
		{
			name:   "weights do not sum to one",
			mutate: func(c *Config) { c.Weights.Dip = 0.5 },
			field:  "weights",
		},
		{
			name:   "negative weight",
			mutate: func(c *Config) { c.Weights.Trend = -0.1; c.Weights.Dip = 0.8 },
			field:  "weights",
		},
		{
			name:   "zero max lookback",
			mutate: func(c *Config) { c.Lookback.MaxDays = 0 },
			field:  "lookback.max_days",
		},
		{
			name:   "bad timezone",
			mutate: func(c *Config) { c.Calendar.Timezone = "Mars/Olympus" },
			field:  "calendar.timezone",
		},
		{
			name:   "bad holiday format",
			mutate: func(c *Config) { c.Calendar.Holidays = []string{"26-01-2026"} },
			field:  "calendar.holidays[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestValidate_WeightSumTolerance(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	// Floating point noise within tolerance still validates.
	cfg.Weights = Weights{Dip: 0.1, Trend: 0.2, Alignment: 0.7}
	assert.NoError(t, Validate(cfg))
}

func TestConfig_Instrument(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	f, ok := cfg.Instrument("100002")
	require.True(t, ok)
	assert.Equal(t, "Beta Index", f.Name)

	_, ok = cfg.Instrument("999999")
	assert.False(t, ok)
}

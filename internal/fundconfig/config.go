package fundconfig

import "github.com/wonny/fundwatch/internal/contracts"

// Config is the full tracking strategy: which funds to follow, the trend
// windows, the dip alert tiers, and the opportunity scoring weights.
type Config struct {
	Meta     Meta                   `yaml:"meta" json:"meta"`
	Funds    []contracts.Instrument `yaml:"funds" json:"funds"`
	Periods  Periods                `yaml:"periods" json:"periods"`
	DipTiers DipTiers               `yaml:"dip_tiers" json:"dip_tiers"`
	Weights  Weights                `yaml:"weights" json:"weights"`
	Lookback Lookback               `yaml:"lookback" json:"lookback"`
	Calendar CalendarConfig         `yaml:"calendar" json:"calendar"`
}

// Meta identifies the strategy file.
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
}

// Periods are the trailing moving-average windows in trading rows,
// strictly increasing (short, medium, long).
type Periods struct {
	Short  int `yaml:"short" json:"short"`
	Medium int `yaml:"medium" json:"medium"`
	Long   int `yaml:"long" json:"long"`
}

// DipTiers are percentage thresholds for the dip alerts, strictly decreasing.
// Comparisons are strict greater-than: a dip of exactly Strong percent stays
// in the moderate tier.
type DipTiers struct {
	Exceptional float64 `yaml:"exceptional" json:"exceptional"`
	Strong      float64 `yaml:"strong" json:"strong"`
	Moderate    float64 `yaml:"moderate" json:"moderate"`
}

// Weights are the opportunity score components; they must sum to 1.0.
type Weights struct {
	Dip       float64 `yaml:"dip" json:"dip"`
	Trend     float64 `yaml:"trend" json:"trend"`
	Alignment float64 `yaml:"alignment" json:"alignment"`
}

// Lookback bounds the backward date walks, in calendar days.
type Lookback struct {
	MaxDays      int `yaml:"max_days" json:"max_days"`
	RetryDays    int `yaml:"retry_days" json:"retry_days"`
	RepairPerGap int `yaml:"repair_per_gap" json:"repair_per_gap"`
}

// CalendarConfig is the fixed market timezone plus the static holiday list.
type CalendarConfig struct {
	Timezone string   `yaml:"timezone" json:"timezone"`
	Holidays []string `yaml:"holidays" json:"holidays"` // "2006-01-02"
}

// Instrument returns the tracked instrument for a scheme code.
func (c *Config) Instrument(code string) (contracts.Instrument, bool) {
	for _, f := range c.Funds {
		if f.Code == code {
			return f, true
		}
	}
	return contracts.Instrument{}, false
}

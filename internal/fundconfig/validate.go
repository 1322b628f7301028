package fundconfig

import (
	"fmt"
	"math"
	"time"
)

// ValidationError halts startup: a bad strategy file must never run.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const weightSumTolerance = 1e-9

// Validate checks every constraint the engines assume.
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	// === Funds ===
	if len(cfg.Funds) == 0 {
		return ValidationError{"funds", "at least one tracked fund required"}
	}
	seen := make(map[string]struct{}, len(cfg.Funds))
	for i, f := range cfg.Funds {
		if f.Name == "" || f.Code == "" {
			return ValidationError{fmt.Sprintf("funds[%d]", i), "name and code required"}
		}
		if _, dup := seen[f.Code]; dup {
			return ValidationError{fmt.Sprintf("funds[%d].code", i), "duplicate scheme code " + f.Code}
		}
		seen[f.Code] = struct{}{}
	}

	// === Periods: strictly increasing ===
	p := cfg.Periods
	if p.Short <= 0 {
		return ValidationError{"periods.short", "must be > 0"}
	}
	if p.Medium <= p.Short {
		return ValidationError{"periods.medium", "must be > periods.short"}
	}
	if p.Long <= p.Medium {
		return ValidationError{"periods.long", "must be > periods.medium"}
	}

	// === Dip tiers: strictly decreasing ===
	t := cfg.DipTiers
	if t.Moderate <= 0 {
		return ValidationError{"dip_tiers.moderate", "must be > 0"}
	}
	if t.Strong <= t.Moderate {
		return ValidationError{"dip_tiers.strong", "must be > dip_tiers.moderate"}
	}
	if t.Exceptional <= t.Strong {
		return ValidationError{"dip_tiers.exceptional", "must be > dip_tiers.strong"}
	}

	// === Weights: sum exactly 1.0 ===
	w := cfg.Weights
	if w.Dip < 0 || w.Trend < 0 || w.Alignment < 0 {
		return ValidationError{"weights", "must be >= 0"}
	}
	if math.Abs(w.Dip+w.Trend+w.Alignment-1.0) > weightSumTolerance {
		return ValidationError{"weights", fmt.Sprintf("must sum to 1.0, got %.6f", w.Dip+w.Trend+w.Alignment)}
	}

	// === Lookback ===
	if cfg.Lookback.MaxDays <= 0 {
		return ValidationError{"lookback.max_days", "must be > 0"}
	}
	if cfg.Lookback.RetryDays < 0 {
		return ValidationError{"lookback.retry_days", "must be >= 0"}
	}
	if cfg.Lookback.RepairPerGap <= 0 {
		return ValidationError{"lookback.repair_per_gap", "must be > 0"}
	}

	// === Calendar ===
	if cfg.Calendar.Timezone == "" {
		return ValidationError{"calendar.timezone", "required"}
	}
	if _, err := time.LoadLocation(cfg.Calendar.Timezone); err != nil {
		return ValidationError{"calendar.timezone", err.Error()}
	}
	for i, d := range cfg.Calendar.Holidays {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return ValidationError{fmt.Sprintf("calendar.holidays[%d]", i), err.Error()}
		}
	}

	return nil
}

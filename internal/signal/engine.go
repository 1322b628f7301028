// Package signal turns current and prior trend windows into alerts and a
// 0-100 opportunity score.
package signal

import (
	"fmt"
	"math"
	"time"

	"github.com/wonny/fundwatch/internal/contracts"
	"github.com/wonny/fundwatch/internal/fundconfig"
	"github.com/wonny/fundwatch/pkg/logger"
)

// trendStrengthCapPct is the MA30/MA50 spread (in percent) at which trend
// strength saturates at 1.0.
const trendStrengthCapPct = 5.0

// Engine evaluates one fund's latest value against its moving averages.
// Evaluation is pure: the same inputs always produce the same Signal, so a
// re-run simply overwrites the prior signal for that (fund, date).
type Engine struct {
	tiers   fundconfig.DipTiers
	weights fundconfig.Weights
	periods fundconfig.Periods
	logger  *logger.Logger
}

// NewEngine creates a signal engine from the strategy config.
func NewEngine(cfg *fundconfig.Config, log *logger.Logger) *Engine {
	return &Engine{
		tiers:   cfg.DipTiers,
		weights: cfg.Weights,
		periods: cfg.Periods,
		logger:  log.WithField("module", "signal"),
	}
}

// Evaluate derives the signal for one (fund, date). Unavailable averages are
// skipped: they contribute zero to every component and can never fire an
// alert on their own.
func (e *Engine) Evaluate(code string, date time.Time, latest float64, cur, prior contracts.MASet) contracts.Signal {
	maxDipPct, dipPeriod := e.maxDip(latest, cur)
	alignment := e.alignment(latest, cur)
	trendStrength := e.trendStrength(cur)
	score := e.score(maxDipPct, trendStrength, alignment)

	var alerts []string
	dipTier := e.dipTier(maxDipPct)
	if dipTier != "" {
		alerts = append(alerts, fmt.Sprintf("%s dip: %.2f%% below %d-day average", dipTier, maxDipPct, dipPeriod))
	}

	golden, death := e.crossover(cur, prior)
	if golden {
		alerts = append(alerts, fmt.Sprintf("Golden cross: %d-day average crossed above %d-day", e.periods.Short, e.periods.Medium))
	}
	if death {
		alerts = append(alerts, fmt.Sprintf("Death cross: %d-day average crossed below %d-day", e.periods.Short, e.periods.Medium))
	}

	longTermDown := cur.MA200.Valid && latest < cur.MA200.Value
	if longTermDown {
		alerts = append(alerts, fmt.Sprintf("Long-term downtrend: trading below %d-day average", e.periods.Long))
	}

	sig := contracts.Signal{
		Code:      code,
		Date:      date,
		Score:     score,
		Alerts:    alerts,
		Highlight: highlight(dipTier, death, longTermDown),
	}

	e.logger.WithFields(map[string]interface{}{
		"code":      code,
		"max_dip":   maxDipPct,
		"alignment": alignment,
		"trend":     trendStrength,
		"score":     score,
		"alerts":    len(alerts),
	}).Debug("Evaluated signal")

	return sig
}

// Trend returns a plain-language trend descriptor for the digest, based on
// how many available averages the latest value trades above.
func (e *Engine) Trend(latest float64, cur contracts.MASet) string {
	switch e.alignment(latest, cur) {
	case 3:
		return "strong uptrend"
	case 2:
		return "uptrend"
	case 1:
		return "mixed"
	default:
		return "downtrend"
	}
}

// maxDip returns the deepest percentage dip of latest below an available
// average, and the period it occurred at. Zero when nothing dips.
func (e *Engine) maxDip(latest float64, cur contracts.MASet) (float64, int) {
	maxPct := 0.0
	period := 0
	for _, c := range []struct {
		period int
		ma     contracts.MAValue
	}{
		{e.periods.Short, cur.MA30},
		{e.periods.Medium, cur.MA50},
		{e.periods.Long, cur.MA200},
	} {
		if !c.ma.Valid || latest >= c.ma.Value {
			continue
		}
		pct := (c.ma.Value - latest) / c.ma.Value * 100
		if pct > maxPct {
			maxPct = pct
			period = c.period
		}
	}
	return maxPct, period
}

// alignment counts how many available averages the latest value trades above.
func (e *Engine) alignment(latest float64, cur contracts.MASet) int {
	count := 0
	for _, ma := range []contracts.MAValue{cur.MA30, cur.MA50, cur.MA200} {
		if ma.Valid && latest > ma.Value {
			count++
		}
	}
	return count
}

// trendStrength measures the MA30/MA50 spread, saturating at 1.0 once the
// spread reaches trendStrengthCapPct percent. Zero when either is unavailable.
func (e *Engine) trendStrength(cur contracts.MASet) float64 {
	if !cur.MA30.Valid || !cur.MA50.Valid {
		return 0
	}
	strength := math.Abs(cur.MA30.Value-cur.MA50.Value) / cur.MA50.Value * 100 / trendStrengthCapPct
	return math.Min(strength, 1.0)
}

// score combines the weighted components onto a 0-100 scale. The dip
// component saturates at a 10% dip so the score stays bounded.
func (e *Engine) score(maxDipPct, trendStrength float64, alignment int) float64 {
	dipComponent := math.Min(maxDipPct/10, 1.0)
	raw := dipComponent*e.weights.Dip +
		trendStrength*e.weights.Trend +
		float64(alignment)/3*e.weights.Alignment

	score := raw * 100
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// dipTier buckets the deepest dip, strongest first, strict greater-than at
// every boundary: a dip of exactly the strong threshold stays moderate.
func (e *Engine) dipTier(maxDipPct float64) string {
	switch {
	case maxDipPct > e.tiers.Exceptional:
		return "Exceptional"
	case maxDipPct > e.tiers.Strong:
		return "Strong"
	case maxDipPct > e.tiers.Moderate:
		return "Moderate"
	default:
		return ""
	}
}

// crossover detects a strict flip of the MA30/MA50 order between the prior
// and current row. Ties at the prior boundary count as "not yet crossed", so
// a cross fires on the first row where the order is strict. Requires all
// four averages.
func (e *Engine) crossover(cur, prior contracts.MASet) (golden, death bool) {
	if !cur.MA30.Valid || !cur.MA50.Valid || !prior.MA30.Valid || !prior.MA50.Valid {
		return false, false
	}
	golden = cur.MA30.Value > cur.MA50.Value && prior.MA30.Value <= prior.MA50.Value
	death = cur.MA30.Value < cur.MA50.Value && prior.MA30.Value >= prior.MA50.Value
	return golden, death
}

// highlight maps fired alerts onto a display level. Exceptional and strong
// dips dominate; moderate dips, death crosses, and long-term downtrends are
// medium and never escalate by stacking.
func highlight(dipTier string, death, longTermDown bool) contracts.HighlightLevel {
	switch dipTier {
	case "Exceptional", "Strong":
		return contracts.HighlightStrong
	case "Moderate":
		return contracts.HighlightMedium
	}
	if death || longTermDown {
		return contracts.HighlightMedium
	}
	return contracts.HighlightNone
}

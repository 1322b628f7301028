// Package pipeline runs the daily cycle: resolve the latest complete
// valuation row, append it, recompute trend windows, evaluate signals, and
// hand the digest to the notifier.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/fundwatch/internal/contracts"
	"github.com/wonny/fundwatch/internal/indicator"
	"github.com/wonny/fundwatch/internal/resolver"
	"github.com/wonny/fundwatch/internal/signal"
	"github.com/wonny/fundwatch/pkg/logger"
	"github.com/wonny/fundwatch/pkg/redis"
)

// DigestCacheKey is where the latest digest is cached for display.
const DigestCacheKey = "digest:latest"

// digestCacheTTL outlives one cycle so the API can serve between runs.
const digestCacheTTL = 48 * time.Hour

// Pipeline is one sequential, non-reentrant unit of work. It must not run
// concurrently with itself or with gap repair against the same store; the
// scheduler serializes them.
type Pipeline struct {
	resolver   *resolver.Resolver
	store      contracts.SeriesStore
	signals    contracts.SignalStore
	indicators *indicator.Engine
	engine     *signal.Engine
	notifier   contracts.Notifier
	cache      *redis.Cache
	funds      []contracts.Instrument
	logger     *logger.Logger
}

// New wires the daily pipeline. cache may be nil when redis is disabled.
func New(
	res *resolver.Resolver,
	store contracts.SeriesStore,
	signals contracts.SignalStore,
	indicators *indicator.Engine,
	engine *signal.Engine,
	notifier contracts.Notifier,
	cache *redis.Cache,
	funds []contracts.Instrument,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		resolver:   res,
		store:      store,
		signals:    signals,
		indicators: indicators,
		engine:     engine,
		notifier:   notifier,
		cache:      cache,
		funds:      funds,
		logger:     log.WithField("module", "pipeline"),
	}
}

// Run executes one daily cycle. A date already in the series is an
// idempotent no-op. Only an exhausted lookback (contracts.ErrNoTradingData)
// or a store failure surfaces as an error; notification failure is logged
// and absorbed.
func (p *Pipeline) Run(ctx context.Context) error {
	row, err := p.resolver.ResolveLatestCompleteRow(ctx)
	if err != nil {
		return fmt.Errorf("resolve latest row: %w", err)
	}

	if err := p.store.Append(ctx, row); err != nil {
		if errors.Is(err, contracts.ErrDuplicateDate) {
			p.logger.WithField("date", row.Date.Format("2006-01-02")).Info("Row already present, nothing to do")
			return nil
		}
		return fmt.Errorf("append row: %w", err)
	}

	prior, err := p.store.RowBefore(ctx, row.Date)
	if err != nil {
		return fmt.Errorf("load prior row: %w", err)
	}

	digest := &contracts.Digest{Date: row.Date}

	for _, fund := range p.funds {
		latest := row.Values[fund.Code]

		cur, err := p.indicators.ComputeSet(ctx, fund.Code, row.Date)
		if err != nil {
			return fmt.Errorf("compute windows for %s: %w", fund.Code, err)
		}

		var priorSet contracts.MASet
		if prior != nil {
			priorSet, err = p.indicators.ComputeSet(ctx, fund.Code, prior.Date)
			if err != nil {
				return fmt.Errorf("compute prior windows for %s: %w", fund.Code, err)
			}
		}

		sig := p.engine.Evaluate(fund.Code, row.Date, latest, cur, priorSet)

		if err := p.signals.SaveSignal(ctx, &sig, cur); err != nil {
			return fmt.Errorf("save signal for %s: %w", fund.Code, err)
		}

		digest.Entries = append(digest.Entries, p.digestEntry(fund, latest, prior, cur, &sig))
	}

	p.cacheDigest(ctx, digest)
	p.notify(ctx, digest)

	p.logger.WithFields(map[string]interface{}{
		"date":  row.Date.Format("2006-01-02"),
		"funds": len(digest.Entries),
	}).Info("Daily cycle completed")

	return nil
}

// digestEntry assembles one fund's summary line.
func (p *Pipeline) digestEntry(fund contracts.Instrument, latest float64, prior *contracts.ValuationRow, cur contracts.MASet, sig *contracts.Signal) contracts.DigestEntry {
	entry := contracts.DigestEntry{
		Fund:      fund,
		Latest:    latest,
		MAs:       cur,
		Trend:     p.engine.Trend(latest, cur),
		Alerts:    sig.Alerts,
		Highlight: sig.Highlight,
	}

	if prior != nil {
		if prev, ok := prior.Value(fund.Code); ok && prev != 0 {
			entry.DayChangePct = (latest - prev) / prev * 100
			entry.DayChangeValid = true
		}
	}

	return entry
}

// cacheDigest stores the digest for display. Cache trouble never fails a run.
func (p *Pipeline) cacheDigest(ctx context.Context, digest *contracts.Digest) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Set(ctx, DigestCacheKey, digest, digestCacheTTL); err != nil {
		p.logger.WithError(err).Warn("Failed to cache digest")
	}
}

// notify hands the digest over unless no alerts fired anywhere.
func (p *Pipeline) notify(ctx context.Context, digest *contracts.Digest) {
	if !digest.HasAlerts() {
		p.logger.Debug("No alerts fired, skipping notification")
		return
	}
	if p.notifier == nil {
		return
	}
	if err := p.notifier.SendDigest(ctx, digest); err != nil {
		p.logger.WithError(err).Warn("Failed to send digest")
	}
}

package commands

import (
	"fmt"
	"time"

	"github.com/wonny/fundwatch/internal/calendar"
	"github.com/wonny/fundwatch/internal/fundconfig"
	"github.com/wonny/fundwatch/internal/indicator"
	"github.com/wonny/fundwatch/internal/notify"
	"github.com/wonny/fundwatch/internal/pipeline"
	"github.com/wonny/fundwatch/internal/provider/amfi"
	"github.com/wonny/fundwatch/internal/repair"
	"github.com/wonny/fundwatch/internal/resolver"
	"github.com/wonny/fundwatch/internal/series"
	"github.com/wonny/fundwatch/internal/signal"
	"github.com/wonny/fundwatch/pkg/config"
	"github.com/wonny/fundwatch/pkg/database"
	"github.com/wonny/fundwatch/pkg/httputil"
	"github.com/wonny/fundwatch/pkg/logger"
	"github.com/wonny/fundwatch/pkg/redis"
)

// app holds the wired components shared by the commands.
type app struct {
	cfg      *config.Config
	strategy *fundconfig.Config
	log      *logger.Logger
	db       *database.DB
	rdb      *redis.Client

	store    *series.PostgresStore
	signals  *series.SignalRepository
	cache    *redis.Cache
	pipeline *pipeline.Pipeline
	repairer *repair.Repairer
}

// newApp loads configuration and wires every component the commands use.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	strategyPath := cfg.StrategyFile
	if strategyFile != "" {
		strategyPath = strategyFile
	}
	strategy, err := fundconfig.Load(strategyPath)
	if err != nil {
		return nil, fmt.Errorf("load strategy %s: %w", strategyPath, err)
	}

	loc, err := time.LoadLocation(strategy.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}
	cal, err := calendar.NewFromStrings(loc, strategy.Calendar.Holidays)
	if err != nil {
		return nil, fmt.Errorf("build calendar: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	rdb, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	store := series.NewPostgresStore(db.Pool)
	signalRepo := series.NewSignalRepository(db.Pool)
	cache := redis.NewCache(rdb, "fundwatch")

	// Separate HTTP clients: the provider never retries a date, while the
	// notifier keeps the default retry on transient failures.
	providerHTTP := httputil.New(log)
	notifierHTTP := httputil.New(log)

	provider := amfi.NewClient(cfg, providerHTTP, log)
	res := resolver.New(provider, cal, strategy.Funds,
		strategy.Lookback.MaxDays, strategy.Lookback.RetryDays, log)
	indicators := indicator.NewEngine(store, strategy.Periods, log)
	engine := signal.NewEngine(strategy, log)
	notifier := notify.NewTelegram(cfg, notifierHTTP, log)

	pipe := pipeline.New(res, store, signalRepo, indicators, engine, notifier, cache, strategy.Funds, log)
	repairer := repair.New(store, provider, cal, strategy.Funds, strategy.Lookback.RepairPerGap, log)

	return &app{
		cfg:      cfg,
		strategy: strategy,
		log:      log,
		db:       db,
		rdb:      rdb,
		store:    store,
		signals:  signalRepo,
		cache:    cache,
		pipeline: pipe,
		repairer: repairer,
	}, nil
}

// close releases connections.
func (a *app) close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

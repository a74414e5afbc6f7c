package commands

import (
	"fmt"

	"earnscope/internal/earnings"
	"earnscope/internal/marketdata"
	"earnscope/internal/marketdata/cache"
	"earnscope/internal/orchestrator"
	"earnscope/internal/provider/alphavantage"
	"earnscope/internal/provider/demo"
	"earnscope/internal/provider/finnhub"
	"earnscope/internal/provider/whispers"
	"earnscope/internal/provider/yahoo"
	"earnscope/pkg/config"
	"earnscope/pkg/logger"
)

// app holds the wired components every command works with.
type app struct {
	cfg          *config.Config
	log          *logger.Logger
	orchestrator *orchestrator.Orchestrator
	calendar     *earnings.Calendar
}

// newApp loads configuration and assembles the provider registry, the
// orchestrator and the earnings calendar. Providers missing required
// credentials are simply not registered.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if demoMode {
		cfg.DemoMode = true
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	store := cache.New(cfg.Cache.File, log)
	interval := cfg.Providers.MinRequestInterval

	yahooClient := yahoo.NewClient(cfg.Providers.Yahoo, log, interval)
	finnhubClient := finnhub.NewClient(cfg.Providers.Finnhub, log, interval)
	alphaClient := alphavantage.NewClient(cfg.Providers.AlphaVantage, log)
	whispersClient := whispers.NewClient(cfg.Providers.Whispers, log, interval)

	reg := orchestrator.Registry{
		Demo:   demo.New(),
		Prices: []marketdata.PriceSource{yahooClient},
		Chains: []marketdata.OptionsChainSource{yahooClient},
	}

	// Fallback order: free primary first, keyed providers after.
	if finnhubClient.Enabled() {
		reg.Prices = append(reg.Prices, finnhubClient)
	}
	if alphaClient.Enabled() {
		reg.Prices = append(reg.Prices, alphaClient)
	}

	// Earnings candidates keep their own Enabled() gate; the
	// orchestrator filters them per call.
	reg.Earnings = []earnings.Source{yahooClient, finnhubClient, whispersClient}

	orch := orchestrator.New(reg, store, cfg.Cache, cfg.DemoMode, log)
	cal := earnings.NewCalendar(cfg, log, orch.EarningsProviders())

	return &app{
		cfg:          cfg,
		log:          log,
		orchestrator: orch,
		calendar:     cal,
	}, nil
}

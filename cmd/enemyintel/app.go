package main

import (
	"context"

	"enemyintel/internal/advisory"
	"enemyintel/internal/config"
	"enemyintel/internal/dataset"
	"enemyintel/internal/ingest"
	"enemyintel/internal/logging"
	"enemyintel/internal/reasoner"
	"enemyintel/internal/service"
)

// app is a loaded service plus what must be closed with it.
type app struct {
	svc   *service.Service
	store *advisory.Store
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logging.BootWarn("closing advisory store: %v", err)
		}
	}
}

// openApp wires the service from cfg and loads the dataset.
func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	store, err := advisory.OpenStore(cfg.AdvisoryDBPath())
	if err != nil {
		return nil, err
	}

	client := newReasoner(ctx, cfg)
	advice, err := advisory.New(ctx, store, client, advisory.WithTimeout(cfg.GetLLMTimeout()))
	if err != nil {
		store.Close()
		return nil, err
	}

	svc := service.New(service.Options{
		WorkbookPath: cfg.WorkbookPath(),
		Cache:        dataset.NewCache(cfg.DatasetCachePath()),
		Loader:       ingest.NewLoader(cfg.GetLevels()),
		Advisory:     advice,
	})
	r := svc.Load(false)
	if r.SourceErr != nil {
		logging.BootWarn("workbook unavailable, serving an empty dataset: %v", r.SourceErr)
	}
	logging.Boot("dataset loaded from %s: %d records, levels %v", r.Source, r.Records, r.Levels)
	return &app{svc: svc, store: store}, nil
}

// newReasoner returns nil when no usable provider is configured; the
// advisory cache then serves fallback text.
func newReasoner(ctx context.Context, cfg *config.Config) reasoner.Client {
	if cfg.LLM.Provider == reasoner.ProviderNone {
		return nil
	}
	if cfg.LLM.APIKey == "" {
		logging.BootWarn("no API key for %s; advice will use fallback text", cfg.LLM.Provider)
		return nil
	}
	client, err := reasoner.New(ctx, reasoner.Config{
		Provider:  cfg.LLM.Provider,
		APIKey:    cfg.LLM.APIKey,
		Model:     cfg.LLM.Model,
		BaseURL:   cfg.LLM.BaseURL,
		MaxTokens: cfg.LLM.MaxTokens,
		Timeout:   cfg.GetLLMTimeout(),
	})
	if err != nil {
		logging.BootError("reasoning client: %v", err)
		return nil
	}
	logging.Boot("reasoning service: %s (%s)", cfg.LLM.Provider, client.Model())
	return client
}

// Package app wires the bot together: config, logging, storage, the Telegram
// adapter, the backend client, and the reminder checker.
package app

import (
	"context"
	"sync"
	"time"

	"farmbot/internal/backend"
	"farmbot/internal/checker"
	"farmbot/internal/config"
	"farmbot/internal/storage"
	telegram "farmbot/internal/transport/telegram"
	logx "farmbot/pkg/logx"
)

type App struct {
	cfgm *config.Manager

	log  logx.Logger
	logs *logx.Service

	store   storage.Store
	adapter *telegram.Adapter
	backend *backend.Client
	checker *checker.Service

	watchCancel context.CancelFunc
	cfgCh       chan *config.Config
	wg          sync.WaitGroup
}

func New(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}

	bootLog := logx.NewConsole("INFO").With(logx.String("comp", "boot"))

	// Storage first: the adapter persists its subscriber registry through it.
	var store storage.Store
	if sc, enabled, err := mapStorageConfig(cfg); err != nil {
		return nil, err
	} else if enabled {
		st, err := storage.Open(sc, bootLog.With(logx.String("comp", "storage")))
		if err != nil {
			return nil, err
		}
		store = st
	}

	pollTimeout, err := config.ParseDurationOrDefault("telegram.poll_timeout", cfg.Telegram.PollTimeout, 10*time.Second)
	if err != nil {
		return nil, err
	}
	ad, err := telegram.New(telegram.Config{
		Token:       cfg.Telegram.Token,
		PollTimeout: pollTimeout,
	}, store, bootLog.With(logx.String("comp", "telegram")))
	if err != nil {
		return nil, err
	}

	// Bootstrap logging with the Telegram sink off: the target chat has to be
	// set before the first Apply that enables it, or Apply warns spuriously.
	logCfg := mapLoggingConfig(cfg)
	bootCfg := logCfg
	bootCfg.Telegram.Enabled = false
	logSvc, log := logx.New(bootCfg, ad)
	if chatID, ok := parseLogTarget(cfg.Telegram.GroupLog); ok {
		logSvc.SetTelegramTarget(chatID, cfg.Logging.Telegram.ThreadID)
	}
	logSvc.Apply(logCfg)
	log = log.With(logx.String("comp", "app"))

	bcfg, err := mapBackendConfig(cfg)
	if err != nil {
		return nil, err
	}
	client, err := backend.New(bcfg, log.With(logx.String("comp", "backend")))
	if err != nil {
		return nil, err
	}

	ccfg, err := mapCheckerConfig(cfg)
	if err != nil {
		return nil, err
	}
	chk, err := checker.New(ccfg, client, ad, log.With(logx.String("comp", "checker")))
	if err != nil {
		return nil, err
	}

	return &App{
		cfgm:    cfgm,
		log:     log,
		logs:    logSvc,
		store:   store,
		adapter: ad,
		backend: client,
		checker: chk,
	}, nil
}

func (a *App) Start(ctx context.Context) error {
	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))
	a.cfgm.SetValidator(func(_ context.Context, cfg *config.Config) error {
		if _, err := config.ParseDurationField("telegram.poll_timeout", cfg.Telegram.PollTimeout); err != nil {
			return err
		}
		if _, err := mapCheckerConfig(cfg); err != nil {
			return err
		}
		if _, err := mapBackendConfig(cfg); err != nil {
			return err
		}
		if _, _, err := mapStorageConfig(cfg); err != nil {
			return err
		}
		return nil
	})

	if err := a.adapter.Start(ctx); err != nil {
		return err
	}
	a.checker.Start(ctx)

	// Hot reload: watch the config file and push accepted changes into the
	// running services. Token, backend URL, and storage driver changes still
	// need a restart.
	watchCtx, cancel := context.WithCancel(ctx)
	a.watchCancel = cancel
	a.cfgCh = a.cfgm.Subscribe(1)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.cfgm.Watch(watchCtx); err != nil && watchCtx.Err() == nil {
			a.log.Warn("config watch stopped", logx.Err(err))
		}
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		for {
			select {
			case <-watchCtx.Done():
				return
			case cfg, ok := <-a.cfgCh:
				if !ok {
					return
				}
				a.applyConfig(cfg)
			}
		}
	}()

	a.log.Info("started")
	return nil
}

func (a *App) applyConfig(cfg *config.Config) {
	if chatID, ok := parseLogTarget(cfg.Telegram.GroupLog); ok {
		a.logs.SetTelegramTarget(chatID, cfg.Logging.Telegram.ThreadID)
	}
	a.logs.Apply(mapLoggingConfig(cfg))

	ccfg, err := mapCheckerConfig(cfg)
	if err != nil {
		// The validator already vetted this config; failing here means the
		// validator and the mapper disagree.
		a.log.Error("checker config apply rejected", logx.Err(err))
		return
	}
	if err := a.checker.Apply(ccfg); err != nil {
		a.log.Error("checker apply failed", logx.Err(err))
		return
	}
	a.log.Info("config applied")
}

// Stop shuts down in dependency order: checker first so in-flight deliveries
// finish and record their stamps while the adapter can still send.
func (a *App) Stop(ctx context.Context) error {
	if a.watchCancel != nil {
		a.watchCancel()
	}

	a.checker.Stop(ctx)
	_ = a.adapter.Stop(ctx)

	if a.cfgCh != nil {
		a.cfgm.Unsubscribe(a.cfgCh)
	}
	a.wg.Wait()

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("store close failed", logx.Err(err))
		}
	}

	a.log.Info("stopped")
	return a.logs.Close()
}

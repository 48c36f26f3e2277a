package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"Vaultium/internal/collector"
	"Vaultium/internal/config"
	"Vaultium/internal/metrics"
	"Vaultium/internal/mockdata"
	"Vaultium/internal/model"
	"Vaultium/internal/notifier"
	"Vaultium/internal/recorder"
	"Vaultium/internal/scheduler"
	"Vaultium/internal/server"
	"Vaultium/internal/wallet"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] Vaultium starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init generator and wallet
	var genOpts []mockdata.Option
	if cfg.Simulation.Seed != 0 {
		genOpts = append(genOpts, mockdata.WithSeed(cfg.Simulation.Seed))
	}
	gen := mockdata.New(genOpts...)
	w := wallet.NewManager(gen)

	// Init fetcher
	var fetcher collector.Fetcher
	switch {
	case cfg.Source.URL != "":
		fetcher = collector.NewHTTPFetcher(cfg.Source.URL, cfg.Proxy)
	case cfg.Source.File != "":
		fetcher = collector.NewFileFetcher(cfg.Source.File)
	default:
		fetcher = collector.SeedFetcher{}
	}
	log.Printf("[INFO] state source: %s", fetcher.Name())
	col := collector.NewCollector(fetcher, cfg.Source.Retries, cfg.RetryBase())

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init notifiers
	notifiers := notifier.Multi{notifier.LogNotifier{}}
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		notifiers = append(notifiers, tn)
	}

	m := metrics.NewMetrics("vaultium")

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The server publishes scheduler ticks to live clients; it is assigned
	// before the scheduler starts.
	var srv *server.Server
	sched := scheduler.NewScheduler(ctx, w, rec, notifiers, scheduler.Options{
		RateInterval:    cfg.RateInterval(),
		TrackerInterval: cfg.TrackerInterval(),
		Random:          gen.Float64,
		Metrics:         m,
		OnRates:         func(r []model.Rate) { srv.PublishRates(r) },
		OnNotice:        func(n model.Notice) { srv.PublishNotice(n) },
	})

	srv, err = server.New(server.Deps{
		Wallet:      w,
		Scheduler:   sched,
		Collector:   col,
		Recorder:    rec,
		Metrics:     m,
		Generator:   gen,
		MockTxCount: cfg.Simulation.MockTxCount,
	})
	if err != nil {
		log.Fatalf("[FATAL] init server: %v", err)
	}

	// A failed load is reported on every page and can be retried from there.
	if err := srv.Load(ctx); err != nil {
		log.Printf("[ERROR] initial state load: %v", err)
	}

	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, notifier.NewCommandHandler(w, sched))
		log.Println("[INFO] Telegram polling started")
	}

	// Wait for shutdown signal
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("[INFO] shutdown signal received, stopping...")
		cancel()
	}()

	log.Printf("[INFO] Vaultium is running on %s. Press Ctrl+C to stop.", cfg.Server.Addr)
	if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
		log.Printf("[ERROR] server: %v", err)
		cancel()
	}

	if cfg.Source.SaveOnExit {
		snap := w.Snapshot()
		if err := collector.SaveSnapshot(cfg.Source.File, &snap); err != nil {
			log.Printf("[ERROR] save state: %v", err)
		} else {
			log.Printf("[INFO] state saved to %s", cfg.Source.File)
		}
	}
	log.Println("[INFO] Vaultium stopped")
}

// Package app wires the stores, services, and HTTP surface together
// and owns the process lifecycle.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"signal-studio/api"
	"signal-studio/config"
	"signal-studio/database"
	models "signal-studio/database/models_pkg"
	"signal-studio/database/signals"
	"signal-studio/database/triggers"
	"signal-studio/processing"
	"signal-studio/realtime"
	"signal-studio/retry"
	"signal-studio/samplestore"
	"signal-studio/signalstore"
	"signal-studio/trigger"
)

// App represents the main application
type App struct {
	config    *config.Config
	bootstrap *database.DB
	db        *database.Database
	samples   *samplestore.Store
	store     *signalstore.Coordinator
	processor *processing.Processor
	monitor   *trigger.Monitor
	broker    *realtime.Broker
	server    *api.Server
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	return &App{config: cfg}
}

// Start brings up the stores, services, sweep loop and HTTP server,
// then blocks until SIGINT/SIGTERM.
func (a *App) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Metadata store (Postgres): raw bootstrap first for the schema,
	// then the GORM connection the repositories run on.
	fmt.Println("🗄️  Connecting to database...")
	dbCfg := database.Config{
		Host:     a.config.DatabaseHost,
		Port:     a.config.DatabasePort,
		User:     a.config.DatabaseUser,
		Password: a.config.DatabasePassword,
		DBName:   a.config.DatabaseName,
	}

	bootstrap, err := database.NewConnection(dbCfg)
	if err != nil {
		return fmt.Errorf("database bootstrap failed: %w", err)
	}
	a.bootstrap = bootstrap
	if err := bootstrap.Migrate(); err != nil {
		return err
	}

	db, err := database.Connect(dbCfg)
	if err != nil {
		return err
	}
	a.db = db

	// 2. Sample store (Redis)
	fmt.Println("📦 Connecting to sample store...")
	samples, err := samplestore.New(a.config.RedisHost, a.config.RedisPort, a.config.RedisPassword)
	if err != nil {
		return fmt.Errorf("sample store connection failed: %w", err)
	}
	a.samples = samples

	// 3. Repositories and services
	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = a.config.RetryMaxAttempts
	retryCfg.InitialDelay = a.config.RetryInitialDelay

	signalRepo := signals.NewRepository(db.DB())
	triggerRepo := triggers.NewRepository(db.DB())

	a.store = signalstore.New(signalRepo, samples, retryCfg)
	a.processor = processing.New(a.store)
	a.monitor = trigger.NewMonitor(triggerRepo)

	// 4. Realtime fan-out
	a.broker = realtime.NewBroker()
	go a.broker.Run()
	a.monitor.SetNotify(func(event models.TriggerEvent) {
		a.broker.Publish("trigger_event", event)
	})

	// 5. Background orphan sweep
	go a.runSweeper(ctx)

	// 6. HTTP API
	a.server = api.NewServer(a.store, a.processor, a.monitor, a.broker)
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start(a.config.HTTPPort)
	}()

	fmt.Println("✅ signal-studio is up")

	// Block until a shutdown signal or a server failure
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("📡 Received %s, shutting down...", sig)
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	cancel()
	a.shutdown()
	return nil
}

// runSweeper reclaims orphaned sample payloads on a fixed interval.
func (a *App) runSweeper(ctx context.Context) {
	ticker := time.NewTicker(a.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.store.SweepOrphans(ctx)
			if err != nil {
				log.Printf("⚠️  orphan sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("🧹 orphan sweep reclaimed %d payload(s)", n)
			}
		}
	}
}

func (a *App) shutdown() {
	if a.server != nil {
		if err := a.server.Shutdown(); err != nil {
			log.Printf("⚠️  API shutdown: %v", err)
		}
	}
	if a.samples != nil {
		if err := a.samples.Close(); err != nil {
			log.Printf("⚠️  sample store close: %v", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Printf("⚠️  database close: %v", err)
		}
	}
	if a.bootstrap != nil {
		if err := a.bootstrap.Close(); err != nil {
			log.Printf("⚠️  bootstrap close: %v", err)
		}
	}
	log.Println("👋 Shutdown complete")
}

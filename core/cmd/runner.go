// Package cmd hosts the service runner shared by the entrypoints: it loads
// configuration, bootstraps infrastructure, assembles the bot, and runs the
// webhook server until interrupted.
package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aarthigrand/cinebot/core/booking"
	"github.com/aarthigrand/cinebot/core/bootstrap"
	"github.com/aarthigrand/cinebot/core/bot"
	"github.com/aarthigrand/cinebot/core/cinema"
	coreconfig "github.com/aarthigrand/cinebot/core/config"
	"github.com/aarthigrand/cinebot/core/logger"
	"github.com/aarthigrand/cinebot/core/session"
	"github.com/aarthigrand/cinebot/core/whatsapp"
	"github.com/aarthigrand/cinebot/core/whatsapp/sender"
	"log/slog"
)

// Options describe how the runner locates its configuration.
type Options struct {
	ConfigEnvVar      string
	DefaultConfigPath string

	DispatcherOptions sender.Options
}

// Run starts the bot and blocks until SIGINT/SIGTERM.
func Run(opts Options) error {
	startedAt := time.Now()

	env := opts.ConfigEnvVar
	if env == "" {
		env = "CONFIG_PATH"
	}
	cfgPath := os.Getenv(env)
	if cfgPath == "" {
		cfgPath = opts.DefaultConfigPath
	}
	if cfgPath == "" {
		return fmt.Errorf("cmd: config path not provided via %s or DefaultConfigPath", env)
	}

	log.Printf("loading config: %s", cfgPath)
	cfg, err := coreconfig.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("cmd: failed to load config: %w", err)
	}

	infra, err := bootstrap.Run(bootstrap.Options{Config: cfg})
	if err != nil {
		return fmt.Errorf("cmd: bootstrap failed: %w", err)
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()
	if infra.DB != nil {
		defer func() { _ = infra.DB.Close() }()
	}

	if err := cinema.EnsureSampleData(cfg.Cinema.MoviesFile); err != nil {
		return fmt.Errorf("cmd: catalog seed failed: %w", err)
	}
	catalog, err := cinema.Load(cfg.Cinema)
	if err != nil {
		return fmt.Errorf("cmd: catalog load failed: %w", err)
	}

	sinks := booking.Sinks{booking.LogSink{}}
	if infra.DB != nil {
		sinks = append(sinks, booking.NewStoreSink(infra.DB))
	}

	store := session.NewStore(cfg.Session.TTL())
	client := whatsapp.NewClient(cfg.Twilio)
	dispatcher := sender.NewDispatcher(opts.DispatcherOptions)
	defer dispatcher.Close()
	outbox := sender.NewOutbox(dispatcher, client)

	application := bot.New(store, catalog, outbox, sinks)
	server := whatsapp.NewWebhookServer(cfg, application)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go store.RunSweeper(ctx, cfg.Session.SweepInterval())

	logger.Info(ctx, "app", "ready",
		slog.Duration("startup_duration", logger.Took(startedAt)),
		slog.String("listen", cfg.HTTP.Listen),
	)

	err = server.Run(ctx)

	logger.Info(context.Background(), "app", "shutdown")
	return err
}

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tg-cognito/internal/bot"
	"tg-cognito/internal/config"
	"tg-cognito/internal/crash"
	"tg-cognito/internal/handler"
	"tg-cognito/internal/logger"
	"tg-cognito/internal/models"
	"tg-cognito/internal/relay"
	"tg-cognito/internal/service"
	"tg-cognito/internal/storage"
)

func main() {
	defer crash.RecoverWithStackAndExit("main")

	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging first
	if err := logger.Setup(cfg); err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	db, err := storage.Initialize(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	registry := service.NewRegistry(storage.NewRegistrationRepository(db), cfg.Relay.MaxErrors)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	botService, server, err := bot.Initialize(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize bot: %v", err)
	}

	messenger := bot.NewTelegramMessenger(botService.Bot)
	rl := relay.New(registry, messenger,
		relay.WithDelayRange(cfg.Relay.MinDelay, cfg.Relay.MaxDelay),
		relay.WithLanguage(cfg.Relay.Language),
		relay.WithPendingTTL(time.Duration(cfg.Relay.PendingTTL)*time.Second),
		relay.WithSettledHook(func(item *models.PendingModeration) {
			logger.Debugf("Item %s settled as %s after %s", item.ID, item.State(), time.Since(item.CreatedAt).Round(time.Second))
		}),
	)
	h := handler.New(messenger, registry, rl, cfg.Relay.Language, cfg.Bot.Username)

	crash.SafeGoroutine("http-server", func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("HTTP server error: %v", err)
		}
	})

	// Give server time to start
	time.Sleep(500 * time.Millisecond)
	logger.Infof("HTTP server is ready, starting bot handler in %s mode...", cfg.Bot.Mode)

	h.SetupMessageHandlers(botService.Handler)
	h.StartStatusMonitoring(ctx)
	rl.StartSweeper(ctx, time.Duration(cfg.Relay.SweepInterval)*time.Second)
	crash.SafeGoroutine("bot-handler", botService.Start)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	logger.Infof("Received signal: %v, shutting down...", sig)

	botService.Stop()
	logger.Infof("%s", h.GetDetailedStatus(ctx))
	if n := rl.PendingCount(); n > 0 {
		logger.Warningf("%d pending items are dropped on shutdown", n)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("HTTP server shutdown error: %v", err)
	}

	logger.Infof("Server gracefully stopped")
}

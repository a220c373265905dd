// Package main — bot entry point. Loads the configuration, builds the
// application and runs until SIGINT/SIGTERM.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/joelcarspotz/carfigures/internal/app"
	"github.com/joelcarspotz/carfigures/internal/config"
)

func main() {
	setupLogging()

	log.Info("=== Bot starting ===")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	if level, err := log.ParseLevel(cfg.AppLogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize application")
	}
	defer application.DB.Close()
	defer application.Limiter.Close()

	application.Scheduler.Start()
	defer application.Scheduler.Stop()

	if err := application.Bot.Start(); err != nil {
		log.WithError(err).Fatal("Failed to connect to Discord")
	}

	log.Info("=== Bot is ready ===")

	// Wait for Ctrl+C or docker stop.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Infof("Received %s, shutting down...", sig)

	if err := application.Bot.Stop(); err != nil {
		log.WithError(err).Error("Gateway close failed")
	}

	log.Info("=== Bot stopped ===")
}

// setupLogging configures the log format.
func setupLogging() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.DebugLevel)
}

// Command main runs the standalone news crawler service. The API server
// calls it over HTTP; it drives a headless browser against the news portal.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"okai/internal/config"
	"okai/internal/crawler"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	c := crawler.New(logger)
	app := crawler.NewApp(c, logger)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down crawler service")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			logger.Error("crawler shutdown error", slog.Any("error", err))
		}
	}()

	logger.Info("crawler service starting", slog.String("port", cfg.CrawlerPort))
	log.Fatal(app.Listen(":" + cfg.CrawlerPort))
}

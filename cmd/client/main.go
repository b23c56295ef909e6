package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"github.com/dmitrijs2005/learnly/internal/client/cli"
	"github.com/dmitrijs2005/learnly/internal/client/config"
	"github.com/dmitrijs2005/learnly/internal/logging"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		app.Run(ctx)
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"cli": func(ctx context.Context) error {
				cancel()
				return app.Close()
			},
		},
	)

	select {
	case <-done:
		cancel()
		if err := app.Close(); err != nil {
			logger.Error(context.Background(), "close failed", "error", err)
			os.Exit(1)
		}
	case code := <-wait:
		os.Exit(code)
	}
}

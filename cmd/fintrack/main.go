package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fintrack/internal/cli"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)
	res := cli.InitBackend(logger, cfg)
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("backend cleanup failed", log.FieldError, err)
		}
	}()

	ctx := context.Background()

	st := store.New()
	expenses, skipped, err := res.Repo.Load(ctx)
	if err != nil {
		logger.Warn("could not load saved expenses, starting empty", log.FieldError, err)
	}
	for _, sk := range skipped {
		logger.Warn("dropped invalid expense record during load", "record", sk.Index, log.FieldError, sk.Reason)
	}
	st.Replace(expenses)
	logger.Info("expenses loaded", log.FieldCount, st.Len(), log.FieldBackend, cfg.DataBackend)

	// The menu loop owns all store and snapshot access. An interrupt only
	// closes quit; the loop observes it at the next prompt, saves once, and
	// unwinds normally so the deferred cleanup still runs.
	quit := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("interrupted, saving before exit", "signal", sig.String())
		close(quit)
	}()

	app := newApp(st, res, cfg, logger, quit)
	app.run(ctx)
}

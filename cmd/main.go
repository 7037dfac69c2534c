package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/amsavalli07/socialsync/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	runner := NewRunner(RunnerOpts{Logger: logger})

	err := newApp(runner).Run(ctx, os.Args)
	stop()
	if cerr := runner.Close(); cerr != nil {
		logger.Warn("failed to close session store", "error", cerr)
	}
	if err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

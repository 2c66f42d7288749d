package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"menusvc/internal/cli"
)

func main() {
	// Graceful shutdown handling
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

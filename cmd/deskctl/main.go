package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/racketdesk/stringdesk/internal/cli"
	"github.com/racketdesk/stringdesk/internal/middlewares/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := cli.LoadConsoleConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	cmd, opts := cli.NewRootCommand(cfg, cli.OpenDesk)
	err = cli.Execute(ctx, cmd, opts, os.Args[1:])
	_ = logger.Log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:           "netra",
		Usage:          "school portal backend",
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			serveCommand(),
			seedCommand(),
			hashPasswordCommand(),
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "netra:", err)
		stop()
		os.Exit(1)
	}
}

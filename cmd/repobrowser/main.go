package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/johanforsgren/repobrowser/internal/cli"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var root cli.CLI
	root.SetContext(ctx)

	kctx := kong.Parse(&root,
		kong.Name("repobrowser"),
		kong.Description("Browse GitHub repositories from the terminal"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	err := kctx.Run(&root)
	root.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

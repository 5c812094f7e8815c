package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"spendwise/cmd/ask"
	"spendwise/cmd/batch"
	"spendwise/cmd/categorize"
	"spendwise/cmd/collections"
	"spendwise/cmd/ingest"
	"spendwise/cmd/root"
	"spendwise/cmd/summary"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(ask.Cmd)
	root.Cmd.AddCommand(summary.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(collections.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Execute(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

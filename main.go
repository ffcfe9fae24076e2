package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/cloudlane/ssoctl/cmd/root"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := root.DefaultDependencies()
	if err != nil {
		log.Fatal("initialization failed", "err", err)
	}
	if err := root.NewRootCmd(deps).ExecuteContext(ctx); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

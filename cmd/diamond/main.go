package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	simulatecmd "github.com/louisbranch/diamond/internal/cmd/simulate"
	entrypoint "github.com/louisbranch/diamond/internal/platform/cmd"
)

func main() {
	cfg, err := simulatecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		entrypoint.Exit("parse flags", err, os.Getenv("DIAMOND_LOCALE"))
	}
	log.SetPrefix("[DIAMOND] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err = simulatecmd.Run(ctx, cfg, os.Stdout)
	stop()
	if err != nil {
		entrypoint.Exit("simulate", err, cfg.Locale)
	}
}

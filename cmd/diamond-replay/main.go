package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	replaycmd "github.com/louisbranch/diamond/internal/cmd/replay"
	entrypoint "github.com/louisbranch/diamond/internal/platform/cmd"
)

func main() {
	cfg, err := replaycmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		entrypoint.Exit("parse flags", err, os.Getenv("DIAMOND_LOCALE"))
	}
	log.SetPrefix("[REPLAY] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err = replaycmd.Run(ctx, cfg, os.Stdout)
	stop()
	if err != nil {
		entrypoint.Exit("replay", err, cfg.Locale)
	}
}

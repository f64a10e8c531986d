package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	simcmd "github.com/starhold/gatewatch/internal/cmd/sim"
	"github.com/starhold/gatewatch/internal/platform/config"
)

func main() {
	cfg, err := simcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[GATEWATCH] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := simcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("simulation failed: %v", err)
	}
}

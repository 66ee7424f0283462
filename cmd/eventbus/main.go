// Command eventbus runs the oRover event bus broker: the XSUB/XPUB-style
// proxy every other actor in the fleet connects to.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/idurz/oRover/internal/broker"
	"github.com/idurz/oRover/internal/config"
)

func main() {
	configFlag := config.RegisterFlag()
	debug := flag.Bool("debug", false, "log every consumer connect/disconnect and dropped frame")
	flag.Parse()

	cfg, err := config.Load(config.ResolvePath(configFlag))
	if err != nil {
		log.Fatalf("eventbus: %v", err)
	}

	xsubAddr := config.TCPAddr(cfg.BusXSubSocket())
	xpubAddr := config.TCPAddr(cfg.BusXPubSocket())
	svc := broker.New(xsubAddr, xpubAddr, *debug)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("eventbus: received signal %s, shutting down", sig)
		cancel()
	}()

	if err := svc.Run(ctx); err != nil {
		log.Fatalf("eventbus: %v", err)
	}
	log.Printf("eventbus: forwarded %d messages total", svc.MessagesForwarded())
}

// Command logserver runs the oRover log collection server: a TCP
// listener accepting framed log records from every actor in the fleet
// and writing them to a rotated local file. It never connects to the
// event bus.
package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/idurz/oRover/internal/config"
	"github.com/idurz/oRover/internal/logtransport"
)

func main() {
	configFlag := config.RegisterFlag()
	addrFlag := flag.String("addr", "", "listen address (default: 0.0.0.0 on the port of the logserver_addr config key)")
	flag.Parse()

	cfg, err := config.Load(config.ResolvePath(configFlag))
	if err != nil {
		log.Fatalf("logserver: %v", err)
	}

	addr := *addrFlag
	if addr == "" {
		_, port, splitErr := net.SplitHostPort(cfg.LogServerAddr())
		if splitErr != nil {
			log.Fatalf("logserver: cannot determine listen port from logserver_addr %q: %v", cfg.LogServerAddr(), splitErr)
		}
		addr = "0.0.0.0:" + port
	}

	srv, err := logtransport.NewServer(addr, cfg.LogFile(), cfg.LogFormat(), cfg.LogDateFormat())
	if err != nil {
		log.Fatalf("logserver: %v", err)
	}
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("logserver: received signal %s, shutting down", sig)
		cancel()
	}()

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("logserver: %v", err)
	}
}

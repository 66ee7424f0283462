// Command remote is the HTTP remote-control surface for the rover: it
// exposes POST /cmd/<name> and forwards each request to the event bus as
// a cmd.* message with src=controller.remote_interface. It never reads
// from the bus.
package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/idurz/oRover/internal/config"
	"github.com/idurz/oRover/public/actor"
	"github.com/idurz/oRover/public/collab"
)

func main() {
	configFlag := config.RegisterFlag()
	listenAddr := flag.String("listen", ":8080", "HTTP listen address for the remote control surface")
	flag.Parse()

	cfg, err := config.Load(config.ResolvePath(configFlag))
	if err != nil {
		log.Fatalf("remote: %v", err)
	}

	a, err := actor.New("remote", cfg)
	if err != nil {
		log.Fatalf("remote: %v", err)
	}

	ui := collab.NewRemoteUI(a)
	mux := http.NewServeMux()
	mux.Handle("/cmd/", ui)

	go func() {
		a.LogInfo("remote control surface listening on %s", *listenAddr)
		if err := http.ListenAndServe(*listenAddr, mux); err != nil && err != http.ErrServerClosed {
			a.LogError("http server stopped: %v", err)
		}
	}()

	// remote has no subscriber-side work, so it skips handler
	// registration entirely and runs only for heartbeat and signal
	// handling.
	if err := a.Run(); err != nil {
		log.Fatalf("remote: %v", err)
	}
}

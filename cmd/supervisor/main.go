// Command supervisor is the oRover launcher: it reads the [scripts]
// section of the configuration file, spawns one child process per entry,
// and on a termination signal stops them in reverse start order.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/idurz/oRover/internal/config"
	"github.com/idurz/oRover/internal/supervisor"
	"github.com/idurz/oRover/internal/topology"
)

func main() {
	configFlag := config.RegisterFlag()
	execFlag := flag.String("exec", "", "override the orover.python_exec interpreter/binary path")
	topologyFlag := flag.String("topology", "", "path to the hardware topology manifest (optional)")
	flag.Parse()

	cfg, err := config.Load(config.ResolvePath(configFlag))
	if err != nil {
		log.Fatalf("supervisor: %v", err)
	}

	if err := validateTopology(*topologyFlag); err != nil {
		log.Fatalf("supervisor: %v", err)
	}

	sup, entries, err := supervisor.New(cfg, *execFlag)
	if err != nil {
		log.Fatalf("supervisor: %v", err)
	}

	if err := sup.Launch(entries); err != nil {
		log.Printf("supervisor: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sup.Wait(ctx)

	log.Printf("supervisor: clean shutdown of %d children", len(sup.Names()))
	os.Exit(0)
}

// validateTopology loads and validates the hardware topology manifest,
// resolved the same way config resolves its own path: --topology, then
// ROVER_TOPOLOGY, then topology.DefaultPath in the current working
// directory. The manifest is optional; absence of the resolved file means
// no cross-actor ownership checking.
func validateTopology(path string) error {
	if path == "" {
		if envPath := os.Getenv("ROVER_TOPOLOGY"); envPath != "" {
			path = envPath
		} else {
			path = topology.DefaultPath
		}
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	manifest, err := topology.Load(path)
	if err != nil {
		return err
	}
	return manifest.Validate()
}

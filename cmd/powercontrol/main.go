// Command powercontrol watches a GPIO pin for loss of external power and
// initiates a platform shutdown once the loss persists past a debounce
// window. GPIO access is platform-specific; simulatedPin below is a
// stand-in until a platform binding is wired in through collab.PinReader.
package main

import (
	"context"
	"flag"
	"log"
	"os/exec"
	"time"

	"github.com/idurz/oRover/internal/config"
	"github.com/idurz/oRover/public/actor"
	"github.com/idurz/oRover/public/collab"
)

func main() {
	configFlag := config.RegisterFlag()
	flag.Parse()

	cfg, err := config.Load(config.ResolvePath(configFlag))
	if err != nil {
		log.Fatalf("powercontrol: %v", err)
	}

	a, err := actor.New("powercontrol", cfg)
	if err != nil {
		log.Fatalf("powercontrol: %v", err)
	}

	pin := cfg.Int("powercontrol", "pin", 4)
	debounce := time.Duration(cfg.Float("powercontrol", "sleep_time", 2.0) * float64(time.Second))
	a.LogInfo("monitoring GPIO pin %d, debounce %s", pin, debounce)

	monitor := collab.NewPowerMonitor(&simulatedPin{}, debounce, 1*time.Second, func() {
		a.LogInfo("power loss detected, initiating shutdown")
		if err := exec.Command("shutdown", "-h", "--no-wall", "now").Run(); err != nil {
			a.LogError("shutdown command failed: %v", err)
		}
	})

	ctx, cancel := context.WithCancel(a.Context())
	defer cancel()
	go monitor.Run(ctx)

	if err := a.Run(); err != nil {
		log.Fatalf("powercontrol: %v", err)
	}
}

// simulatedPin always reports power present (see the package doc
// comment); production wiring substitutes a platform GPIO binding.
type simulatedPin struct{}

func (*simulatedPin) Read() bool { return true }

// Command hcsr04 is the ultrasonic-sensor actor: it polls each sensor
// configured in the [hcsr04] section and Publishes event.object_detected
// when a reading falls below the configured threshold.
//
// Real HC-SR04 pulse/echo timing is platform-specific; simulatedReader
// below stands in for it until a platform DistanceReader is wired in.
package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/idurz/oRover/internal/config"
	"github.com/idurz/oRover/internal/taxonomy"
	"github.com/idurz/oRover/public/actor"
	"github.com/idurz/oRover/public/collab"
)

func main() {
	configFlag := config.RegisterFlag()
	flag.Parse()

	cfg, err := config.Load(config.ResolvePath(configFlag))
	if err != nil {
		log.Fatalf("hcsr04: %v", err)
	}

	a, err := actor.New("hcsr04", cfg)
	if err != nil {
		log.Fatalf("hcsr04: %v", err)
	}

	sensors := loadSensors(cfg, a)
	if len(sensors) == 0 {
		a.LogInfo("no sensors configured in [hcsr04], nothing to poll")
	}

	threshold := cfg.Float("hcsr04", "min_obj_distance", 20.0)
	pollInterval := time.Duration(cfg.Float("hcsr04", "polling_interval", 0.5) * float64(time.Second))

	poller := collab.NewUltrasonicSensor(a, sensors, threshold, pollInterval)

	ctx, cancel := context.WithCancel(a.Context())
	defer cancel()
	go poller.Run(ctx)

	if err := a.Run(); err != nil {
		log.Fatalf("hcsr04: %v", err)
	}
}

// loadSensors parses the "sensor1", "sensor2", ... keys of the [hcsr04]
// section, each a "name, triggerpin, echopin" triple. Trigger/echo pins
// are declared in the topology manifest for ownership validation by the
// supervisor; simulatedReader replaces the GPIO timing loop here.
func loadSensors(cfg *config.Config, a *actor.Actor) []collab.NamedReader {
	var sensors []collab.NamedReader
	for i := 1; ; i++ {
		raw := cfg.String("hcsr04", "sensor"+strconv.Itoa(i), "")
		if raw == "" {
			break
		}
		parts := strings.Split(raw, ",")
		for j := range parts {
			parts[j] = strings.TrimSpace(parts[j])
		}
		if len(parts) != 3 {
			a.LogError("config [hcsr04] sensor%d must have 3 values (name, triggerpin, echopin), got %d", i, len(parts))
			continue
		}
		origin, ok := taxonomy.ValueOf(parts[0])
		if !ok || !taxonomy.InSet(origin, taxonomy.SetOrigin) {
			a.LogError("config [hcsr04] sensor%d: %q is not a known origin", i, parts[0])
			continue
		}
		sensors = append(sensors, collab.NamedReader{Origin: origin, Reader: &simulatedReader{}})
	}
	return sensors
}

// simulatedReader stands in for a real HCSR04 trigger/echo pulse pair
// (see the package doc comment); it returns a plausible bench-test
// reading so the fleet's wiring can be exercised without hardware.
type simulatedReader struct{}

func (simulatedReader) Read() (float64, bool) {
	return 15 + rand.Float64()*200, true
}

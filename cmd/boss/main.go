// Command boss is the rover's primary controller actor: it handles
// object-detection events and motor/shutdown commands.
package main

import (
	"flag"
	"log"

	"github.com/idurz/oRover/internal/config"
	"github.com/idurz/oRover/internal/envelope"
	"github.com/idurz/oRover/internal/taxonomy"
	"github.com/idurz/oRover/public/actor"
)

func main() {
	configFlag := config.RegisterFlag()
	flag.Parse()

	cfg, err := config.Load(config.ResolvePath(configFlag))
	if err != nil {
		log.Fatalf("boss: %v", err)
	}

	a, err := actor.New("boss", cfg)
	if err != nil {
		log.Fatalf("boss: %v", err)
	}

	a.DispatchFromFuncMap(map[string]actor.HandlerFunc{
		"event_object_detected": handleObjectDetected(a),
		"cmd_shutdown":          handleShutdown(a),
		"cmd_set_motor_speed":   handleSetMotorSpeed(a),
	})

	if err := a.Run(); err != nil {
		log.Fatalf("boss: %v", err)
	}
}

func handleObjectDetected(a *actor.Actor) actor.HandlerFunc {
	return func(env *envelope.Envelope) error {
		body, err := env.DecodeBody()
		if err != nil {
			a.LogWarning("object_detected message %s discarded: %v", env.ID, err)
			return nil
		}
		det := body.(*envelope.ObjectDetectedBody)
		a.LogInfo("object too close to sensor %s: %.1f cm", taxonomy.NameOf(env.Src), det.Distance)
		return nil
	}
}

func handleShutdown(a *actor.Actor) actor.HandlerFunc {
	return func(env *envelope.Envelope) error {
		reason := ""
		if body, err := env.DecodeBody(); err == nil {
			reason = body.(*envelope.ShutdownBody).Value
		}
		a.LogInfo("shutdown requested, reason: %s", reason)
		go func() {
			a.Terminate()
		}()
		return nil
	}
}

func handleSetMotorSpeed(a *actor.Actor) actor.HandlerFunc {
	return func(env *envelope.Envelope) error {
		body, err := env.DecodeBody()
		if err != nil {
			return err
		}
		speed := body.(*envelope.SetMotorSpeedBody)
		a.LogDebug("set_motor_speed left=%.2f right=%.2f", speed.LeftSpeed, speed.RightSpeed)
		return nil
	}
}

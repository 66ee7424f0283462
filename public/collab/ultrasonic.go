package collab

import (
	"context"
	"time"

	"github.com/idurz/oRover/internal/envelope"
	"github.com/idurz/oRover/internal/taxonomy"
)

// DistanceReader is the hardware-facing half of the ultrasonic sensor:
// one reading in centimeters, or ok=false if the echo timed out. The
// trigger/echo pulse timing lives behind this interface so a platform
// GPIO binding or a test double can implement it.
type DistanceReader interface {
	Read() (cm float64, ok bool)
}

// UltrasonicSensor polls a set of DistanceReaders in round-robin and
// Publishes event.object_detected when a reading falls below threshold,
// sleeping the polling interval between sensors.
type UltrasonicSensor struct {
	pub       Publisher
	sensors   []NamedReader
	threshold float64
	interval  time.Duration
}

// NamedReader pairs a DistanceReader with the origin identifier it
// reports as; each configured sensor gets its own origin.
type NamedReader struct {
	Origin int
	Reader DistanceReader
}

// NewUltrasonicSensor builds a poller. thresholdCM comes from the
// min_obj_distance config key, interval from polling_interval.
func NewUltrasonicSensor(pub Publisher, sensors []NamedReader, thresholdCM float64, interval time.Duration) *UltrasonicSensor {
	return &UltrasonicSensor{pub: pub, sensors: sensors, threshold: thresholdCM, interval: interval}
}

// Run polls every configured sensor in turn until ctx is cancelled,
// sleeping interval between readings. One cooperative loop; no
// per-sensor goroutines.
func (u *UltrasonicSensor) Run(ctx context.Context) {
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()
	i := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if len(u.sensors) == 0 {
				continue
			}
			s := u.sensors[i%len(u.sensors)]
			i++
			cm, ok := s.Reader.Read()
			if !ok || cm >= u.threshold {
				continue
			}
			u.pub.Publish(s.Origin, taxonomy.EventObjectDetected, envelope.ObjectDetectedBody{Distance: cm}, taxonomy.PriorityNormal)
		}
	}
}

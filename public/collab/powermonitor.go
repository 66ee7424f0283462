package collab

import (
	"context"
	"time"
)

// PinReader reports the current level of a GPIO pin: true for high,
// false for low. Platform GPIO access lives behind this interface so a
// test double can substitute for it.
type PinReader interface {
	Read() bool
}

// Shutdown is called once loss-of-signal persists past the debounce
// window. Production wiring supplies a platform shutdown call, tests a
// recording stub.
type Shutdown func()

// PowerMonitor watches a GPIO pin for sustained loss of signal and
// initiates a platform shutdown before the battery backup drains.
type PowerMonitor struct {
	pin      PinReader
	debounce time.Duration
	poll     time.Duration
	shutdown Shutdown
}

// NewPowerMonitor builds a monitor. debounce is the confirm-on-persistence
// window (the sleep_time config key); poll is the outer loop's sampling
// interval.
func NewPowerMonitor(pin PinReader, debounce, poll time.Duration, shutdown Shutdown) *PowerMonitor {
	return &PowerMonitor{pin: pin, debounce: debounce, poll: poll, shutdown: shutdown}
}

// Run polls pin until ctx is cancelled. On a low reading, it waits
// debounce and re-checks before calling Shutdown, so a momentary glitch
// on the pin does not power the rover off.
func (m *PowerMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if m.pin.Read() {
				continue
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(m.debounce):
			}
			if !m.pin.Read() {
				m.shutdown()
				return
			}
		}
	}
}

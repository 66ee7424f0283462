package collab

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/idurz/oRover/internal/envelope"
	"github.com/idurz/oRover/internal/taxonomy"
	"github.com/idurz/oRover/public/actor"
)

// CommandDict maps a cmd.* member name to a renderer producing the
// device-specific textual line written to the serial link (e.g. the
// motor controller's `{"T":1,"L":0.5,"R":0.5}` throttle command).
type CommandDict map[string]func(env *envelope.Envelope) string

// SerialBridge owns the single serial device handle, serializing every
// access behind a *actor.DeviceLock. Every cmd.* handler looks up its
// device-specific line in dict and writes it; a background reader
// publishes each line the device sends back as event.*.
type SerialBridge struct {
	dict   CommandDict
	device io.ReadWriter
	lock   *actor.DeviceLock
	pub    Publisher

	readEventReason int
	readEventOrigin int
}

// NewSerialBridge wires a bridge over an already-open device handle.
// readEventReason/readEventOrigin are the event.* reason and origin used
// for every line the device emits unsolicited (e.g. telemetry).
func NewSerialBridge(device io.ReadWriter, dict CommandDict, pub Publisher, readEventOrigin, readEventReason int) *SerialBridge {
	return &SerialBridge{
		dict:            dict,
		device:          device,
		lock:            &actor.DeviceLock{},
		pub:             pub,
		readEventOrigin: readEventOrigin,
		readEventReason: readEventReason,
	}
}

// HandleCommand looks up env's reason's cmd member name in dict and
// writes the resulting line to the device, holding the device lock for
// the duration of the write. Intended as a actor.HandlerFunc registered
// for every cmd.* reason the bridge understands.
func (b *SerialBridge) HandleCommand(env *envelope.Envelope) error {
	name := taxonomy.NameOf(env.Reason)
	member := strings.TrimPrefix(name, "cmd.")
	render, ok := b.dict[member]
	if !ok {
		return fmt.Errorf("serialbridge: no device command mapped for %s", name)
	}
	line := render(env)
	return b.lock.WithLock(func() error {
		_, err := io.WriteString(b.device, line+"\n")
		return err
	})
}

// PollReader reads lines from the device until it returns io.EOF or an
// error, Publishing each as an event with readEventOrigin/readEventReason.
// Readiness polling against the hardware is the device io.Reader
// implementation's concern; this loop only needs a blocking Read.
func (b *SerialBridge) PollReader() error {
	reader := bufio.NewReader(b.device)
	for {
		var line string
		var err error
		err = b.lock.WithLock(func() error {
			l, readErr := reader.ReadString('\n')
			line = l
			return readErr
		})
		if line != "" {
			b.pub.Publish(b.readEventOrigin, b.readEventReason, map[string]string{"line": strings.TrimRight(line, "\n")}, taxonomy.PriorityNormal)
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("serialbridge: read: %w", err)
		}
	}
}

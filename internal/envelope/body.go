package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/idurz/oRover/internal/taxonomy"
)

// The body field is an open JSON object whose schema varies per reason.
// Rather than leave every consumer to unmarshal into ad-hoc structs, the
// shapes of well-known reasons are registered here, keyed by reason, and
// DecodeBody resolves the right one. Unknown keys in a registered shape
// are rejected at the boundary; reasons with no registered shape decode
// into a plain map.

// ObjectDetectedBody is the payload of event.object_detected.
type ObjectDetectedBody struct {
	Distance float64 `json:"distance"`
}

// HeartbeatBody is the payload of event.heartbeat.
type HeartbeatBody struct {
	Script string `json:"script"`
}

// SetMotorSpeedBody is the payload of cmd.set_motor_speed.
type SetMotorSpeedBody struct {
	LeftSpeed  float64 `json:"left_speed"`
	RightSpeed float64 `json:"right_speed"`
}

// ShutdownBody is the payload of cmd.shutdown.
type ShutdownBody struct {
	Value string `json:"value,omitempty"`
}

var (
	bodyMu    sync.RWMutex
	bodyTypes = map[int]func() interface{}{
		taxonomy.EventObjectDetected: func() interface{} { return new(ObjectDetectedBody) },
		taxonomy.EventHeartbeat:      func() interface{} { return new(HeartbeatBody) },
		taxonomy.CmdSetMotorSpeed:    func() interface{} { return new(SetMotorSpeedBody) },
		taxonomy.CmdShutdown:         func() interface{} { return new(ShutdownBody) },
	}
)

// RegisterBodyType associates reason with a factory for its body shape, so
// an actor can extend strict decoding to reasons it defines handlers for.
// Intended to be called from init or before the run loop starts.
func RegisterBodyType(reason int, factory func() interface{}) {
	bodyMu.Lock()
	defer bodyMu.Unlock()
	bodyTypes[reason] = factory
}

// BodyFor returns a fresh instance of the body shape registered for
// reason, or nil if the reason has no registered shape.
func BodyFor(reason int) interface{} {
	bodyMu.RLock()
	defer bodyMu.RUnlock()
	if factory, ok := bodyTypes[reason]; ok {
		return factory()
	}
	return nil
}

// DecodeBody decodes e.Body into the shape registered for e.Reason,
// rejecting unknown keys. A reason with no registered shape decodes into
// map[string]interface{} with no key checking.
func (e *Envelope) DecodeBody() (interface{}, error) {
	if v := BodyFor(e.Reason); v != nil {
		dec := json.NewDecoder(bytes.NewReader(e.Body))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return nil, fmt.Errorf("envelope: body for %s: %w", taxonomy.NameOf(e.Reason), err)
		}
		return v, nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(e.Body, &m); err != nil {
		return nil, fmt.Errorf("envelope: body for %s: %w", taxonomy.NameOf(e.Reason), err)
	}
	return m, nil
}

// Package envelope implements the canonical oRover bus message: a small
// record with a UUIDv4 identity, a local timestamp, a validated source and
// reason, and an open JSON body, framed on the wire as the topic word
// followed by a single space and the JSON-serialized record.
package envelope

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/idurz/oRover/internal/taxonomy"
)

// timestampLayout is the local-clock format every envelope stamps,
// microsecond precision, no zone suffix.
const timestampLayout = "2006-01-02T15:04:05.000000"

// Envelope is the canonical record carried on the bus.
type Envelope struct {
	ID     string          `json:"id"`
	TS     string          `json:"ts"`
	Src    int             `json:"src"`
	Me     string          `json:"me"`
	Host   string          `json:"host"`
	Prio   int             `json:"prio"`
	Reason int             `json:"reason"`
	Body   json.RawMessage `json:"body"`
}

// ValidationError names the field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("envelope: field %q: %s", e.Field, e.Message)
}

// New constructs an envelope, stamping id/ts/me/host and defaulting prio to
// normal when priority is 0. Returns a *ValidationError if src, reason or
// an explicit priority is not a member of its required set.
func New(me, host string, src, reason int, body interface{}, priority int) (*Envelope, error) {
	if !taxonomy.IsOrigin(src) {
		return nil, &ValidationError{"src", fmt.Sprintf("%d is not in origin ∪ actuator ∪ controller", src)}
	}
	if !taxonomy.IsReason(reason) {
		return nil, &ValidationError{"reason", fmt.Sprintf("%d is not in cmd ∪ state ∪ event", reason)}
	}
	if priority == 0 {
		priority = taxonomy.PriorityNormal
	} else if !taxonomy.IsPriority(priority) {
		return nil, &ValidationError{"prio", fmt.Sprintf("%d is not a known priority", priority)}
	}

	raw, err := encodeBody(body)
	if err != nil {
		return nil, &ValidationError{"body", err.Error()}
	}

	return &Envelope{
		ID:     uuid.New().String(),
		TS:     time.Now().Format(timestampLayout),
		Src:    src,
		Me:     me,
		Host:   host,
		Prio:   priority,
		Reason: reason,
		Body:   raw,
	}, nil
}

func encodeBody(body interface{}) (json.RawMessage, error) {
	switch v := body.(type) {
	case nil:
		return json.RawMessage("{}"), nil
	case json.RawMessage:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return json.RawMessage("{}"), nil
		}
		if !json.Valid([]byte(v)) {
			return nil, fmt.Errorf("body string is not valid JSON")
		}
		return json.RawMessage(v), nil
	default:
		return json.Marshal(v)
	}
}

// UnmarshalBody decodes the body into v.
func (e *Envelope) UnmarshalBody(v interface{}) error {
	return json.Unmarshal(e.Body, v)
}

// Topic returns the taxonomy topic word for this envelope's reason, e.g.
// "event.object_detected".
func (e *Envelope) Topic() string {
	return taxonomy.TopicOf(e.Reason)
}

// Encode renders the envelope into its "<topic> <json>" wire frame.
func Encode(e *Envelope) (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("envelope: encode: %w", err)
	}
	return e.Topic() + " " + string(data), nil
}

// Decode parses a "<topic> <json>" wire frame. Returns an error if the
// frame has no space separator or the JSON is malformed — the caller
// (the actor run loop) is expected to log and discard, never
// panic, per the fabric's error handling design.
func Decode(frame string) (topic string, env *Envelope, err error) {
	parts := strings.SplitN(frame, " ", 2)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("envelope: decode: no topic/body separator in frame %q", frame)
	}
	var e Envelope
	if err := json.Unmarshal([]byte(parts[1]), &e); err != nil {
		return "", nil, fmt.Errorf("envelope: decode: %w", err)
	}
	return parts[0], &e, nil
}

// Validate checks the required-field, UUID, timestamp and enum-membership
// invariants a consumer must apply before dispatch. reason
// correctness is intentionally not checked here: an unknown reason simply
// fails to find a handler at dispatch time.
func (e *Envelope) Validate() error {
	if e.ID == "" {
		return &ValidationError{"id", "missing"}
	}
	if _, err := uuid.Parse(e.ID); err != nil {
		return &ValidationError{"id", "not a well-formed UUID"}
	}
	if e.TS == "" {
		return &ValidationError{"ts", "missing"}
	}
	if _, err := time.Parse(timestampLayout, e.TS); err != nil {
		return &ValidationError{"ts", fmt.Sprintf("does not parse as %s", timestampLayout)}
	}
	if e.Me == "" {
		return &ValidationError{"me", "missing"}
	}
	if e.Host == "" {
		return &ValidationError{"host", "missing"}
	}
	if !taxonomy.IsOrigin(e.Src) {
		return &ValidationError{"src", fmt.Sprintf("%d is not in origin ∪ actuator ∪ controller", e.Src)}
	}
	if !taxonomy.IsPriority(e.Prio) {
		return &ValidationError{"prio", fmt.Sprintf("%d is not a known priority", e.Prio)}
	}
	if len(e.Body) == 0 {
		return &ValidationError{"body", "missing"}
	}
	return nil
}

package envelope

import (
	"testing"

	"github.com/idurz/oRover/internal/taxonomy"
)

func mustNew(t *testing.T, src, reason int, body interface{}) *Envelope {
	t.Helper()
	e, err := New("boss", "rover-01", src, reason, body, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestNewRejectsInvalidSrc(t *testing.T) {
	_, err := New("boss", "rover-01", taxonomy.EventHeartbeat, taxonomy.CmdStart, nil, 0)
	if err == nil {
		t.Fatal("expected error for src not in origin/actuator/controller")
	}
}

func TestNewRejectsInvalidReason(t *testing.T) {
	_, err := New("boss", "rover-01", taxonomy.OriginSensorGPS, taxonomy.OriginSensorGPS, nil, 0)
	if err == nil {
		t.Fatal("expected error for reason not in cmd/state/event")
	}
}

func TestNewDefaultsPriorityToNormal(t *testing.T) {
	e := mustNew(t, taxonomy.OriginSensorUltrasonicFront, taxonomy.EventObjectDetected, map[string]float64{"distance": 12.3})
	if e.Prio != taxonomy.PriorityNormal {
		t.Errorf("Prio = %d, want %d", e.Prio, taxonomy.PriorityNormal)
	}
}

func TestRoundTrip(t *testing.T) {
	m := mustNew(t, taxonomy.OriginSensorUltrasonicFront, taxonomy.EventObjectDetected, map[string]float64{"distance": 12.3})
	frame, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	topic, decoded, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if topic != taxonomy.NameOf(m.Reason) {
		t.Errorf("topic = %q, want %q", topic, taxonomy.NameOf(m.Reason))
	}
	if decoded.ID != m.ID || decoded.Src != m.Src || decoded.Reason != m.Reason {
		t.Errorf("decoded envelope does not match original: %+v vs %+v", decoded, m)
	}
}

func TestDecodeRejectsFrameWithoutSeparator(t *testing.T) {
	if _, _, err := Decode("nosep-at-all"); err == nil {
		t.Fatal("expected error decoding frame without a space separator")
	}
}

func TestValidateIdempotence(t *testing.T) {
	m := mustNew(t, taxonomy.OriginSensorUltrasonicFront, taxonomy.EventObjectDetected, map[string]float64{"distance": 12.3})
	if err := m.Validate(); err != nil {
		t.Fatalf("first Validate: %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("second Validate: %v", err)
	}
}

func TestValidateRejectsMissingID(t *testing.T) {
	m := mustNew(t, taxonomy.OriginSensorUltrasonicFront, taxonomy.EventObjectDetected, nil)
	m.ID = ""
	if err := m.Validate(); err == nil {
		t.Fatal("expected validation error for missing id")
	}
}

func TestValidateRejectsBadSrc(t *testing.T) {
	m := mustNew(t, taxonomy.OriginSensorUltrasonicFront, taxonomy.EventObjectDetected, nil)
	m.Src = 9999
	if err := m.Validate(); err == nil {
		t.Fatal("expected validation error for src=9999")
	}
}

func TestValidateRejectsBadTimestamp(t *testing.T) {
	m := mustNew(t, taxonomy.OriginSensorUltrasonicFront, taxonomy.EventObjectDetected, nil)
	m.TS = "not-a-timestamp"
	if err := m.Validate(); err == nil {
		t.Fatal("expected validation error for malformed ts")
	}
}

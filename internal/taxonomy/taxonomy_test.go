package taxonomy

import "testing"

func TestIdentifierDisjointness(t *testing.T) {
	allSets := []Set{
		SetPriority, SetOperationalMode, SetLifecycleStage, SetPowerSource,
		SetHealthStatus, SetOrigin, SetActuator, SetController, SetCmd,
		SetState, SetEvent,
	}
	for value := range byValue {
		matches := 0
		for _, s := range allSets {
			if InSet(value, s) {
				matches++
			}
		}
		if matches != 1 {
			t.Errorf("value %d belongs to %d sets, want exactly 1", value, matches)
		}
	}
}

func TestNameOfKnownValue(t *testing.T) {
	got := NameOf(EventObjectDetected)
	want := "event.object_detected"
	if got != want {
		t.Errorf("NameOf(%d) = %q, want %q", EventObjectDetected, got, want)
	}
}

func TestNameOfUnknownValueInKnownRange(t *testing.T) {
	got := NameOf(6498)
	want := "event.unknown(6498)"
	if got != want {
		t.Errorf("NameOf(6498) = %q, want %q", got, want)
	}
}

func TestNameOfUnknownValueOutsideAnyRange(t *testing.T) {
	got := NameOf(999999)
	want := "unknown.unknown(999999)"
	if got != want {
		t.Errorf("NameOf(999999) = %q, want %q", got, want)
	}
}

func TestValueOfBareAndQualified(t *testing.T) {
	v, ok := ValueOf("object_detected")
	if !ok || v != EventObjectDetected {
		t.Fatalf("ValueOf(object_detected) = (%d, %v), want (%d, true)", v, ok, EventObjectDetected)
	}
	v, ok = ValueOf("event.object_detected")
	if !ok || v != EventObjectDetected {
		t.Fatalf("ValueOf(event.object_detected) = (%d, %v), want (%d, true)", v, ok, EventObjectDetected)
	}
	if _, ok := ValueOf("does_not_exist"); ok {
		t.Fatal("ValueOf(does_not_exist) reported ok=true")
	}
}

func TestSetOf(t *testing.T) {
	cases := []struct {
		value int
		want  Set
	}{
		{PriorityHigh, SetPriority},
		{OriginSensorLidar, SetOrigin},
		{ActuatorGripper, SetActuator},
		{ControllerSafetySystem, SetController},
		{CmdSetMotorSpeed, SetCmd},
		{StatePowerSource, SetState},
		{EventHeartbeat, SetEvent},
	}
	for _, c := range cases {
		got, ok := SetOf(c.value)
		if !ok || got != c.want {
			t.Errorf("SetOf(%d) = (%v, %v), want (%v, true)", c.value, got, ok, c.want)
		}
	}
}

func TestIsOriginAndIsReason(t *testing.T) {
	if !IsOrigin(OriginSensorGPS) {
		t.Error("origin sensor should be a valid src")
	}
	if !IsOrigin(ActuatorMotorWheels) {
		t.Error("actuator should be a valid src")
	}
	if !IsOrigin(ControllerMotionController) {
		t.Error("controller should be a valid src")
	}
	if IsOrigin(EventHeartbeat) {
		t.Error("event is not a valid src")
	}
	if !IsReason(CmdStart) || !IsReason(StatePose) || !IsReason(EventDocked) {
		t.Error("cmd/state/event should all be valid reasons")
	}
	if IsReason(OriginSensorGPS) {
		t.Error("origin is not a valid reason")
	}
}

func TestStateAndPowerSourceNameCollisionIsDisambiguatedBySet(t *testing.T) {
	// state.power_source (5202) and power_source.battery (300) share the
	// "power_source" word but are disjoint identifiers in disjoint sets.
	if NameOf(StatePowerSource) != "state.power_source" {
		t.Errorf("NameOf(%d) = %q", StatePowerSource, NameOf(StatePowerSource))
	}
	if NameOf(PowerSourceBattery) != "power_source.battery" {
		t.Errorf("NameOf(%d) = %q", PowerSourceBattery, NameOf(PowerSourceBattery))
	}
}

// TestBareNameCollisionsResolveByFirstMatch asserts the package loads
// without panicking despite genuine cross-set bare-name collisions in the
// taxonomy data, and that ValueOf resolves each colliding bare name to
// the set that comes first in setOrder.
func TestBareNameCollisionsResolveByFirstMatch(t *testing.T) {
	cases := []struct {
		name string
		want int
	}{
		{"shutdown", LifecycleStageShutdown}, // lifecycle_stage precedes cmd
		{"battery", PowerSourceBattery},      // power_source precedes state
		{"heartbeat", OriginHeartbeat},       // origin precedes event
		{"test_message", OriginTestMessage},  // origin precedes event
	}
	for _, c := range cases {
		got, ok := ValueOf(c.name)
		if !ok {
			t.Errorf("ValueOf(%q) not found", c.name)
			continue
		}
		if got != c.want {
			t.Errorf("ValueOf(%q) = %d (%s), want %d (%s)", c.name, got, NameOf(got), c.want, NameOf(c.want))
		}
	}
}

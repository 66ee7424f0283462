package envelope

import (
	"encoding/json"
	"testing"

	"github.com/idurz/oRover/internal/taxonomy"
)

func TestDecodeBodyRegisteredShape(t *testing.T) {
	e := mustNew(t, taxonomy.OriginSensorUltrasonicFront, taxonomy.EventObjectDetected, ObjectDetectedBody{Distance: 12.3})
	body, err := e.DecodeBody()
	if err != nil {
		t.Fatalf("DecodeBody: %v", err)
	}
	det, ok := body.(*ObjectDetectedBody)
	if !ok {
		t.Fatalf("DecodeBody returned %T, want *ObjectDetectedBody", body)
	}
	if det.Distance != 12.3 {
		t.Errorf("Distance = %v, want 12.3", det.Distance)
	}
}

func TestDecodeBodyRejectsUnknownKeys(t *testing.T) {
	e := mustNew(t, taxonomy.OriginSensorUltrasonicFront, taxonomy.EventObjectDetected, nil)
	e.Body = json.RawMessage(`{"distance": 5, "color": "red"}`)
	if _, err := e.DecodeBody(); err == nil {
		t.Fatal("expected error for unknown key in a registered body shape")
	}
}

func TestDecodeBodyUnregisteredReasonFallsBackToMap(t *testing.T) {
	e := mustNew(t, taxonomy.ControllerNavigationSystem, taxonomy.EventGoalReached, map[string]interface{}{"goal": "dock", "extra": 1})
	body, err := e.DecodeBody()
	if err != nil {
		t.Fatalf("DecodeBody: %v", err)
	}
	m, ok := body.(map[string]interface{})
	if !ok {
		t.Fatalf("DecodeBody returned %T, want map", body)
	}
	if m["goal"] != "dock" {
		t.Errorf("goal = %v, want dock", m["goal"])
	}
}

func TestRegisterBodyTypeExtendsDecoding(t *testing.T) {
	type dockBody struct {
		Station string `json:"station"`
	}
	RegisterBodyType(taxonomy.EventDocked, func() interface{} { return new(dockBody) })

	e := mustNew(t, taxonomy.ControllerNavigationSystem, taxonomy.EventDocked, dockBody{Station: "bay-2"})
	body, err := e.DecodeBody()
	if err != nil {
		t.Fatalf("DecodeBody: %v", err)
	}
	if got := body.(*dockBody).Station; got != "bay-2" {
		t.Errorf("Station = %q, want bay-2", got)
	}
}

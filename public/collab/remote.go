// Package collab holds the collaborators that sit on top of the core
// fabric (HTTP remote UI, ultrasonic sensor, serial-bridge,
// power-monitor). Hardware access is behind small interfaces so a
// platform binding or a test double can be substituted; nothing here is a
// full device driver.
package collab

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/idurz/oRover/internal/taxonomy"
)

// Publisher is the subset of *actor.Actor the collaborators in this
// package need: enough to construct and send an envelope, never the full
// actor lifecycle.
type Publisher interface {
	Publish(src, reason int, body interface{}, priority int) bool
}

// RemoteUI translates REST calls into Publish operations with
// src=controller.remote_interface and the cmd.* reason named in the URL.
// It never reads from the bus; command responses, if any, flow back
// through other actors' event.* publications.
type RemoteUI struct {
	pub Publisher
}

// NewRemoteUI wires a RemoteUI against an actor's Publish method.
func NewRemoteUI(pub Publisher) *RemoteUI {
	return &RemoteUI{pub: pub}
}

// cmdRequest is the JSON body a remote client POSTs to issue a command.
type cmdRequest struct {
	Body     json.RawMessage `json:"body,omitempty"`
	Priority string          `json:"priority,omitempty"`
}

// ServeHTTP implements POST /cmd/<name>, where <name> is a bare cmd
// member name (e.g. "shutdown", "set_motor_speed"). Unknown or
// non-cmd names are rejected with 400 before ever touching the bus.
func (r *RemoteUI) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	name := req.URL.Path
	for len(name) > 0 && name[0] == '/' {
		name = name[1:]
	}
	const prefix = "cmd/"
	if len(name) <= len(prefix) || name[:len(prefix)] != prefix {
		http.Error(w, "expected path /cmd/<name>", http.StatusBadRequest)
		return
	}
	name = name[len(prefix):]

	reason, ok := taxonomy.ValueOf(string(taxonomy.SetCmd) + "." + name)
	if !ok || !taxonomy.InSet(reason, taxonomy.SetCmd) {
		http.Error(w, fmt.Sprintf("%q is not a known cmd", name), http.StatusBadRequest)
		return
	}

	var creq cmdRequest
	if req.ContentLength != 0 {
		if err := json.NewDecoder(req.Body).Decode(&creq); err != nil {
			http.Error(w, fmt.Sprintf("invalid JSON body: %v", err), http.StatusBadRequest)
			return
		}
	}

	prio := taxonomy.PriorityLow
	if creq.Priority != "" {
		if v, ok := taxonomy.ValueOf(creq.Priority); ok && taxonomy.InSet(v, taxonomy.SetPriority) {
			prio = v
		}
	}

	body := interface{}(creq.Body)
	if len(creq.Body) == 0 {
		body = nil
	}
	if ok := r.pub.Publish(taxonomy.ControllerRemoteInterface, reason, body, prio); !ok {
		http.Error(w, "publish failed", http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

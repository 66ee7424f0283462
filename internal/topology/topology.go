// Package topology loads the hardware ownership manifest: a YAML file
// declaring which actor owns which GPIO pins and serial device paths, and
// validates that no two actors claim the same resource. Hardware
// ownership is a configuration-time concern: there is no runtime arbiter
// for pins or serial devices, so the supervisor checks the manifest
// before launching anything. Validation accumulates every violation into
// one formatted error instead of failing on the first.
package topology

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when the supervisor is given neither --topology nor
// ROVER_TOPOLOGY, mirroring config.DefaultPath's fallback-to-cwd pattern.
const DefaultPath = "topology.yaml"

// Manifest is the parsed hardware topology document.
type Manifest struct {
	Actors []Actor `yaml:"actors"`
}

// Actor declares the hardware one actor owns exclusively.
type Actor struct {
	Name          string `yaml:"name"`
	GPIOPins      []int  `yaml:"gpio_pins,omitempty"`
	SerialDevices []string `yaml:"serial_devices,omitempty"`
}

// Load reads and parses a topology manifest from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("topology: failed to read %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("topology: failed to parse %s: %w", path, err)
	}
	return &m, nil
}

// Validate accumulates every GPIO pin and serial device claimed by more
// than one actor into a single formatted error, or returns nil if the
// manifest is free of collisions.
func (m *Manifest) Validate() error {
	pinOwners := map[int][]string{}
	deviceOwners := map[string][]string{}

	for _, a := range m.Actors {
		for _, pin := range a.GPIOPins {
			pinOwners[pin] = append(pinOwners[pin], a.Name)
		}
		for _, dev := range a.SerialDevices {
			deviceOwners[dev] = append(deviceOwners[dev], a.Name)
		}
	}

	var violations []string
	for pin, owners := range pinOwners {
		if len(owners) > 1 {
			sort.Strings(owners)
			violations = append(violations, fmt.Sprintf("GPIO pin %d claimed by multiple actors: %s", pin, strings.Join(owners, ", ")))
		}
	}
	for dev, owners := range deviceOwners {
		if len(owners) > 1 {
			sort.Strings(owners)
			violations = append(violations, fmt.Sprintf("serial device %q claimed by multiple actors: %s", dev, strings.Join(owners, ", ")))
		}
	}

	if len(violations) == 0 {
		return nil
	}
	sort.Strings(violations)
	msg := "topology validation failed:\n"
	for _, v := range violations {
		msg += "  - " + v + "\n"
	}
	return fmt.Errorf("%s", msg)
}

// OwnerOfPin returns the actor name that owns a GPIO pin, or "" if unclaimed.
func (m *Manifest) OwnerOfPin(pin int) string {
	for _, a := range m.Actors {
		for _, p := range a.GPIOPins {
			if p == pin {
				return a.Name
			}
		}
	}
	return ""
}

// OwnerOfDevice returns the actor name that owns a serial device path, or
// "" if unclaimed.
func (m *Manifest) OwnerOfDevice(device string) string {
	for _, a := range m.Actors {
		for _, d := range a.SerialDevices {
			if d == device {
				return a.Name
			}
		}
	}
	return ""
}

package actor

import "sync"

// DeviceLock guards a shared hardware resource (the serial link to the
// motor controller, a GPIO pin) that only one task within a process may
// touch at a time. A bridging actor owns a single OS handle that its poll
// loop and any handler invoked from the receive loop could otherwise
// touch concurrently; it embeds a DeviceLock next to the handle and wraps
// every access with WithLock instead of reaching for the handle directly.
type DeviceLock struct {
	mu sync.Mutex
}

// WithLock runs fn while holding the device lock, releasing it
// afterward even if fn panics.
func (d *DeviceLock) WithLock(fn func() error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn()
}

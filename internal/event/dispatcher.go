// Package event provides a synchronous named-event dispatcher.
package event

import "sync"

// Listener receives the arguments passed to Emit.
// A non-nil error stops the remaining listeners of that emission.
type Listener func(args ...any) error

// Dispatcher maps event names to listeners invoked in registration order.
// The zero value is ready to use.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
}

// New returns an empty dispatcher.
func New() *Dispatcher {
	return &Dispatcher{
		listeners: make(map[string][]Listener),
	}
}

// On appends l to the listeners of name.
// Registering the same listener twice makes it run twice.
func (d *Dispatcher) On(name string, l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.listeners == nil {
		d.listeners = make(map[string][]Listener)
	}
	d.listeners[name] = append(d.listeners[name], l)
}

// Emit calls every listener of name with args, in order, on the caller's goroutine.
// It returns the first listener error unchanged; later listeners are not called.
// Emitting a name without listeners does nothing.
func (d *Dispatcher) Emit(name string, args ...any) error {
	d.mu.RLock()
	listeners := d.listeners[name]
	d.mu.RUnlock()

	// listeners may call On/Off/Emit; the slice header taken above stays valid
	for _, l := range listeners {
		if err := l(args...); err != nil {
			return err
		}
	}

	return nil
}

// Off removes every listener of name.
func (d *Dispatcher) Off(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.listeners, name)
}

// Len returns the number of listeners registered for name.
func (d *Dispatcher) Len(name string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.listeners[name])
}

// registry.go implements the extension registration system.
//
// Extensions self-register during init(), before main() runs. Duplicate
// names panic, as database/sql.Register does. Registration order is kept
// so commands are listed deterministically.

package extension

import (
	"errors"
	"fmt"
	"sync"
)

// Registry holds all registered extensions.
var (
	mu       sync.RWMutex
	registry = make(map[string]Extension)
	order    []string // preserve registration order
)

// Register adds an extension to the registry. Called from init() functions.
func Register(e Extension) {
	mu.Lock()
	defer mu.Unlock()

	name := e.Name()
	if _, exists := registry[name]; exists {
		panic("extension already registered: " + name)
	}

	registry[name] = e
	order = append(order, name)
}

// All returns all registered extensions in registration order.
func All() []Extension {
	mu.RLock()
	defer mu.RUnlock()

	exts := make([]Extension, 0, len(order))
	for _, name := range order {
		exts = append(exts, registry[name])
	}
	return exts
}

// Get returns a specific extension by name, or nil if not found.
func Get(name string) Extension {
	mu.RLock()
	defer mu.RUnlock()
	return registry[name]
}

// Handlers returns the registered extensions that handle events.
func Handlers() []EventHandler {
	mu.RLock()
	defer mu.RUnlock()

	var hs []EventHandler
	for _, name := range order {
		if h, ok := registry[name].(EventHandler); ok {
			hs = append(hs, h)
		}
	}
	return hs
}

// InitAll passes ctx to every Initializable extension in registration order.
func InitAll(ctx Context) error {
	for _, ext := range All() {
		if init, ok := ext.(Initializable); ok {
			if err := init.Init(ctx); err != nil {
				return fmt.Errorf("init extension %s: %w", ext.Name(), err)
			}
		}
	}
	return nil
}

// CloseAll closes every Closer extension and joins their errors.
func CloseAll() error {
	var errs []error
	for _, ext := range All() {
		if c, ok := ext.(Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close extension %s: %w", ext.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// Names returns the names of all registered extensions.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, len(order))
	copy(names, order)
	return names
}

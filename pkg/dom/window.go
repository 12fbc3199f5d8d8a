package dom

import (
	"sort"
	"sync"
)

// Location mirrors the fields of a browser location the app reads.
type Location struct {
	Href     string
	Protocol string
	Host     string
	Pathname string
}

// DefaultLocation is where the shell serves the app during development.
func DefaultLocation() Location {
	return Location{
		Href:     "http://localhost:1420/",
		Protocol: "http:",
		Host:     "localhost:1420",
		Pathname: "/",
	}
}

// Window is the browser-like root object. The environment attaches the
// capabilities a component would otherwise reach through globals, keyed by
// the name the component would use.
type Window struct {
	Document *Document
	Location Location

	mu   sync.RWMutex
	caps map[string]any
}

// NewWindow returns a window with a fresh empty document and the default
// development location.
func NewWindow() *Window {
	return &Window{
		Document: NewDocument(),
		Location: DefaultLocation(),
		caps:     make(map[string]any),
	}
}

// Attach binds a capability under name, replacing any previous binding.
func (w *Window) Attach(name string, capability any) {
	w.mu.Lock()
	if w.caps == nil {
		w.caps = make(map[string]any)
	}
	w.caps[name] = capability
	w.mu.Unlock()
}

// Capability returns the capability bound under name.
func (w *Window) Capability(name string) (any, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, ok := w.caps[name]
	return c, ok
}

// Detach removes the binding for name, if present.
func (w *Window) Detach(name string) {
	w.mu.Lock()
	delete(w.caps, name)
	w.mu.Unlock()
}

// Capabilities lists the bound names in sorted order.
func (w *Window) Capabilities() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	names := make([]string, 0, len(w.caps))
	for name := range w.caps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Package socket models the bidirectional transport a component opens
// from the page.
//
// Dial replaces the transport constructor: components receive a Conn
// carrying the browser-style ready state and listener registry. Tests use
// the StubDialer, which hands out connections that are open immediately
// and never touch the network; the NetDialer speaks real WebSocket for
// integration against the dev server.
package socket

import "sync"

// ReadyState follows the browser constants for a socket's lifecycle.
type ReadyState int

const (
	Connecting ReadyState = 0
	Open       ReadyState = 1
	Closing    ReadyState = 2
	Closed     ReadyState = 3
)

func (s ReadyState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case Closing:
		return "closing"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Event names a listener can subscribe to.
const (
	EventOpen    = "open"
	EventMessage = "message"
	EventError   = "error"
	EventClose   = "close"
)

// Listener receives event payloads. Open and close events carry nil data.
type Listener func(data []byte)

// Conn is the transport a component holds after dialing.
type Conn interface {
	URL() string
	ReadyState() ReadyState
	Send(data []byte) error
	Close() error
	AddEventListener(event string, fn Listener) int
	RemoveEventListener(event string, id int)
}

// Dialer replaces the transport constructor.
type Dialer interface {
	Dial(url string) (Conn, error)
}

// listenerSet is the registry both connection kinds share. IDs increase
// monotonically per connection.
type listenerSet struct {
	mu        sync.Mutex
	nextID    int
	listeners map[string]map[int]Listener
}

func newListenerSet() *listenerSet {
	return &listenerSet{listeners: make(map[string]map[int]Listener)}
}

func (ls *listenerSet) add(event string, fn Listener) int {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.nextID++
	if ls.listeners[event] == nil {
		ls.listeners[event] = make(map[int]Listener)
	}
	ls.listeners[event][ls.nextID] = fn
	return ls.nextID
}

func (ls *listenerSet) remove(event string, id int) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	delete(ls.listeners[event], id)
}

// fire calls the registered listeners outside the lock. Ordering between
// listeners of the same event is not guaranteed.
func (ls *listenerSet) fire(event string, data []byte) {
	ls.mu.Lock()
	fns := make([]Listener, 0, len(ls.listeners[event]))
	for _, fn := range ls.listeners[event] {
		fns = append(fns, fn)
	}
	ls.mu.Unlock()
	for _, fn := range fns {
		fn(data)
	}
}

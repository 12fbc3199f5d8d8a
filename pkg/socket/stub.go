package socket

import (
	"sync"

	"github.com/emittiv/mockshell/pkg/calllog"
)

// StubDialer hands out in-memory connections and records every dial.
// All methods are safe for concurrent use.
type StubDialer struct {
	mu    sync.Mutex
	log   *calllog.Log
	conns []*StubConn
}

var _ Dialer = (*StubDialer)(nil)

// NewStubDialer returns a dialer with no connections.
func NewStubDialer() *StubDialer {
	return &StubDialer{log: calllog.New()}
}

// Dial records the URL and returns a connection that is open immediately.
// No handshake happens, so the ready state never passes through
// Connecting.
func (d *StubDialer) Dial(url string) (Conn, error) {
	d.log.Record("dial", url)
	c := newStubConn(url)
	d.mu.Lock()
	d.conns = append(d.conns, c)
	d.mu.Unlock()
	return c, nil
}

// DialedURLs returns every dialed URL in order.
func (d *StubDialer) DialedURLs() []string {
	var urls []string
	for _, c := range d.log.CallsTo("dial") {
		if u, ok := c.Args[0].(string); ok {
			urls = append(urls, u)
		}
	}
	return urls
}

// Conns returns the connections handed out so far, oldest first.
func (d *StubDialer) Conns() []*StubConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*StubConn(nil), d.conns...)
}

// Log exposes the recorded dial history.
func (d *StubDialer) Log() *calllog.Log {
	return d.log
}

// Reset clears the dial history and forgets handed-out connections.
// Connections a test still holds keep working; they are just no longer
// reachable through the dialer.
func (d *StubDialer) Reset() {
	d.log.Reset()
	d.mu.Lock()
	d.conns = nil
	d.mu.Unlock()
}

// StubConn is an in-memory connection. It preserves its URL, reports
// itself open from the moment it exists, and records sends, closes and
// listener registrations without moving any bytes.
type StubConn struct {
	url       string
	log       *calllog.Log
	listeners *listenerSet

	mu    sync.Mutex
	state ReadyState
}

var _ Conn = (*StubConn)(nil)

func newStubConn(url string) *StubConn {
	return &StubConn{
		url:       url,
		log:       calllog.New(),
		listeners: newListenerSet(),
		state:     Open,
	}
}

// URL returns the URL the connection was dialed with.
func (c *StubConn) URL() string {
	return c.url
}

// ReadyState returns the current lifecycle state.
func (c *StubConn) ReadyState() ReadyState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Send records the payload and succeeds regardless of state.
func (c *StubConn) Send(data []byte) error {
	c.log.Record("send", string(data))
	return nil
}

// Close records the call and moves the state to Closed. Close listeners
// fire once, on the first transition.
func (c *StubConn) Close() error {
	c.log.Record("close")
	c.mu.Lock()
	wasOpen := c.state != Closed
	c.state = Closed
	c.mu.Unlock()
	if wasOpen {
		c.listeners.fire(EventClose, nil)
	}
	return nil
}

// AddEventListener registers fn and records the registration.
func (c *StubConn) AddEventListener(event string, fn Listener) int {
	id := c.listeners.add(event, fn)
	c.log.Record("addEventListener", event, id)
	return id
}

// RemoveEventListener drops a registration and records the removal.
func (c *StubConn) RemoveEventListener(event string, id int) {
	c.listeners.remove(event, id)
	c.log.Record("removeEventListener", event, id)
}

// Emit fires the listeners for event synchronously. Tests use it to push
// server-sent frames into the component under test.
func (c *StubConn) Emit(event string, data []byte) {
	c.listeners.fire(event, data)
}

// Log exposes the recorded connection history.
func (c *StubConn) Log() *calllog.Log {
	return c.log
}

package socket

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// NetDialer opens real WebSocket connections. Integration tests use it to
// drive the dev server the way a page would.
type NetDialer struct {
	dialer *websocket.Dialer
}

var _ Dialer = (*NetDialer)(nil)

// NewNetDialer returns a dialer using the default handshake settings.
func NewNetDialer() *NetDialer {
	return &NetDialer{dialer: websocket.DefaultDialer}
}

// Dial performs the handshake and starts the connection's read loop.
func (d *NetDialer) Dial(url string) (Conn, error) {
	ws, resp, err := d.dialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	c := &NetConn{
		url:       url,
		ws:        ws,
		listeners: newListenerSet(),
		state:     Open,
	}
	go c.readLoop()
	return c, nil
}

// NetConn adapts a gorilla connection to the Conn surface.
type NetConn struct {
	url       string
	ws        *websocket.Conn
	listeners *listenerSet

	mu        sync.Mutex
	state     ReadyState
	writeMu   sync.Mutex
	closeOnce sync.Once
}

var _ Conn = (*NetConn)(nil)

// URL returns the URL the connection was dialed with.
func (c *NetConn) URL() string {
	return c.url
}

// ReadyState returns the current lifecycle state.
func (c *NetConn) ReadyState() ReadyState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Send writes data as a text frame. Sending on a closing or closed
// connection fails.
func (c *NetConn) Send(data []byte) error {
	c.mu.Lock()
	if c.state != Open {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("send on %s connection", state)
	}
	c.mu.Unlock()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// Close starts the closing handshake and tears the connection down.
func (c *NetConn) Close() error {
	c.mu.Lock()
	if c.state == Closing || c.state == Closed {
		c.mu.Unlock()
		return nil
	}
	c.state = Closing
	c.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	deadline := time.Now().Add(time.Second)
	_ = c.ws.WriteControl(websocket.CloseMessage, msg, deadline)
	err := c.ws.Close()

	c.mu.Lock()
	c.state = Closed
	c.mu.Unlock()
	c.fireClose()
	if err != nil {
		return fmt.Errorf("closing connection: %w", err)
	}
	return nil
}

// AddEventListener registers fn for event.
func (c *NetConn) AddEventListener(event string, fn Listener) int {
	return c.listeners.add(event, fn)
}

// RemoveEventListener drops a registration.
func (c *NetConn) RemoveEventListener(event string, id int) {
	c.listeners.remove(event, id)
}

func (c *NetConn) readLoop() {
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			c.mu.Lock()
			intentional := c.state == Closing || c.state == Closed
			c.state = Closed
			c.mu.Unlock()
			if !intentional && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.listeners.fire(EventError, []byte(err.Error()))
			}
			c.fireClose()
			return
		}
		c.listeners.fire(EventMessage, data)
	}
}

func (c *NetConn) fireClose() {
	c.closeOnce.Do(func() {
		c.listeners.fire(EventClose, nil)
	})
}

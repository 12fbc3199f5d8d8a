package socket

import (
	"sync/atomic"
	"testing"
)

func TestStubDialPreservesURL(t *testing.T) {
	d := NewStubDialer()

	conn, err := d.Dial("ws://localhost:8000/rpc")
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	if got := conn.URL(); got != "ws://localhost:8000/rpc" {
		t.Errorf("expected URL preserved, got %q", got)
	}
	if got := conn.ReadyState(); got != Open {
		t.Errorf("expected Open immediately, got %v", got)
	}
}

func TestStubDialerRecordsEveryDial(t *testing.T) {
	d := NewStubDialer()

	if _, err := d.Dial("ws://one"); err != nil {
		t.Fatalf("Dial: %v", err)
	}
	if _, err := d.Dial("ws://two"); err != nil {
		t.Fatalf("Dial: %v", err)
	}

	urls := d.DialedURLs()
	if len(urls) != 2 || urls[0] != "ws://one" || urls[1] != "ws://two" {
		t.Errorf("unexpected dialed urls: %v", urls)
	}
	if got := len(d.Conns()); got != 2 {
		t.Errorf("expected 2 conns handed out, got %d", got)
	}
}

func TestStubConnRecordsOperations(t *testing.T) {
	d := NewStubDialer()
	conn, _ := d.Dial("ws://localhost:8000/rpc")
	stub := d.Conns()[0]

	if err := conn.Send([]byte(`{"cmd":"health_check"}`)); err != nil {
		t.Fatalf("Send: %v", err)
	}
	id := conn.AddEventListener(EventMessage, func([]byte) {})
	conn.RemoveEventListener(EventMessage, id)
	if err := conn.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	for _, op := range []string{"send", "addEventListener", "removeEventListener", "close"} {
		if got := stub.Log().Count(op); got != 1 {
			t.Errorf("expected 1 %s recorded, got %d", op, got)
		}
	}
	sends := stub.Log().CallsTo("send")
	if sends[0].Args[0] != `{"cmd":"health_check"}` {
		t.Errorf("send payload not recorded: %v", sends[0].Args)
	}
}

func TestStubConnClose(t *testing.T) {
	d := NewStubDialer()
	conn, _ := d.Dial("ws://x")

	var closes atomic.Int32
	conn.AddEventListener(EventClose, func([]byte) { closes.Add(1) })

	if err := conn.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := conn.ReadyState(); got != Closed {
		t.Errorf("expected Closed after close, got %v", got)
	}
	if got := closes.Load(); got != 1 {
		t.Errorf("expected close listener fired once, got %d", got)
	}

	// Closing again records but does not re-fire listeners.
	if err := conn.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if got := closes.Load(); got != 1 {
		t.Errorf("expected no second close event, got %d", got)
	}
}

func TestEmitFiresListenersSynchronously(t *testing.T) {
	d := NewStubDialer()
	_, _ = d.Dial("ws://x")
	stub := d.Conns()[0]

	var got []byte
	stub.AddEventListener(EventMessage, func(data []byte) { got = data })
	stub.Emit(EventMessage, []byte("frame"))

	if string(got) != "frame" {
		t.Errorf("expected listener to run before Emit returns, got %q", got)
	}

	// Removed listeners stay silent.
	var count int
	id := stub.AddEventListener(EventMessage, func([]byte) { count++ })
	stub.RemoveEventListener(EventMessage, id)
	stub.Emit(EventMessage, []byte("again"))
	if count != 0 {
		t.Errorf("expected removed listener silent, got %d calls", count)
	}
}

func TestStubDialerReset(t *testing.T) {
	d := NewStubDialer()
	conn, _ := d.Dial("ws://x")

	d.Reset()

	if got := d.Log().Total(); got != 0 {
		t.Errorf("expected empty dial log after reset, got %d", got)
	}
	if got := len(d.Conns()); got != 0 {
		t.Errorf("expected conns forgotten after reset, got %d", got)
	}
	// A held connection keeps working.
	if err := conn.Send([]byte("still here")); err != nil {
		t.Errorf("held conn broken by reset: %v", err)
	}
}

func TestReadyStateString(t *testing.T) {
	cases := map[ReadyState]string{
		Connecting:    "connecting",
		Open:          "open",
		Closing:       "closing",
		Closed:        "closed",
		ReadyState(9): "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("ReadyState(%d).String() = %q, want %q", int(state), got, want)
		}
	}
}

func TestBrowserConstantValues(t *testing.T) {
	if Connecting != 0 || Open != 1 || Closing != 2 || Closed != 3 {
		t.Errorf("ready state constants drifted: %d %d %d %d", Connecting, Open, Closing, Closed)
	}
}

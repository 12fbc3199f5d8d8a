// Package shellserve serves a stub environment over real transport so a
// frontend dev session can point at a mock host shell. One websocket
// endpoint speaks the command envelope the bridge stub answers; plain
// HTTP endpoints expose the recorded calls and the reset control.
package shellserve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/emittiv/mockshell/pkg/calllog"
	"github.com/emittiv/mockshell/pkg/debug"
	"github.com/emittiv/mockshell/pkg/fixtures"
	"github.com/emittiv/mockshell/pkg/hostenv"
	"github.com/emittiv/mockshell/pkg/socket"
	"github.com/emittiv/mockshell/pkg/storage"
	"github.com/emittiv/mockshell/pkg/version"
	"github.com/emittiv/mockshell/pkg/watcher"
)

// shutdownTimeout bounds the drain of open sessions on exit.
const shutdownTimeout = 5 * time.Second

// Request is one command envelope received over the session socket.
type Request struct {
	ID   int64           `json:"id,omitempty"`
	Cmd  string          `json:"cmd"`
	Args json.RawMessage `json:"args,omitempty"`
}

// Response answers one Request. Either Result or Error is set.
type Response struct {
	ID     int64           `json:"id,omitempty"`
	Cmd    string          `json:"cmd"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Option configures a Server.
type Option func(*Server)

// WithFixturesPath watches the given fixtures file and hot-reloads it
// into the environment on change.
func WithFixturesPath(path string) Option {
	return func(s *Server) { s.fixturesPath = path }
}

// WithWatchOptions passes extra options to the fixtures watcher.
func WithWatchOptions(opts ...watcher.WatcherOption) Option {
	return func(s *Server) { s.watchOpts = append(s.watchOpts, opts...) }
}

// WithLogger replaces the default stderr logger.
func WithLogger(l *charmlog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// Server exposes one Environment over HTTP and websocket.
type Server struct {
	env          *hostenv.Environment
	log          *charmlog.Logger
	fixturesPath string
	watchOpts    []watcher.WatcherOption
	upgrader     websocket.Upgrader
	mux          *http.ServeMux

	mu    sync.Mutex
	ln    net.Listener
	conns map[string]*session
}

type session struct {
	ws *websocket.Conn
	mu sync.Mutex // gorilla allows one concurrent writer
}

func (c *session) write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// New builds a server around an initialized environment.
func New(env *hostenv.Environment, opts ...Option) *Server {
	s := &Server{
		env: env,
		log: charmlog.NewWithOptions(os.Stderr, charmlog.Options{
			ReportTimestamp: true,
			Prefix:          "mockshell",
		}),
		upgrader: websocket.Upgrader{
			// local dev tool; the frontend dev server runs on another port
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/session", s.handleSession)
	mux.HandleFunc("/calls", s.handleCalls)
	mux.HandleFunc("/reset", s.handleReset)
	mux.HandleFunc("/healthz", s.handleHealth)
	s.mux = mux
	return s
}

// Listen binds the address. Use "127.0.0.1:0" to pick a free port and
// read it back through Addr.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	return nil
}

// Addr returns the bound address, or "" before Listen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Serve runs the HTTP server and the fixtures watcher until ctx is
// cancelled, then drains open sessions. Listen must have succeeded
// first.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return errors.New("serve before listen")
	}

	// start the watcher before anything else so a bad fixtures path
	// fails the whole serve cleanly
	var fw *watcher.Watcher
	if s.fixturesPath != "" {
		w, err := s.startWatcher()
		if err != nil {
			return err
		}
		fw = w
	}

	httpSrv := &http.Server{Handler: s.mux}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.closeSessions()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if fw != nil {
		g.Go(func() error {
			defer fw.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-fw.Changed():
					s.reloadFixtures()
				}
			}
		})
	}

	s.log.Info("serving", "addr", s.Addr(), "version", version.Version)
	return g.Wait()
}

func (s *Server) startWatcher() (*watcher.Watcher, error) {
	opts := append([]watcher.WatcherOption{
		watcher.WithOnError(func(err error) {
			s.log.Warn("fixtures watch", "err", err)
		}),
	}, s.watchOpts...)

	w, err := watcher.NewWatcher(s.fixturesPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("watching fixtures: %w", err)
	}
	if err := w.Start(); err != nil {
		return nil, fmt.Errorf("watching fixtures: %w", err)
	}
	return w, nil
}

func (s *Server) reloadFixtures() {
	set, err := fixtures.Load(s.fixturesPath)
	if err != nil {
		s.log.Error("fixtures reload failed, keeping previous set", "path", s.fixturesPath, "err", err)
		return
	}
	if err := s.env.ReplaceFixtures(set); err != nil {
		s.log.Error("fixtures reapply failed", "err", err)
		return
	}
	s.log.Info("fixtures reloaded", "path", s.fixturesPath, "tables", set.TableNames())
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	id := uuid.NewString()
	conn := &session{ws: ws}
	s.addSession(id, conn)
	s.log.Info("session opened", "conn", id, "remote", r.RemoteAddr)
	defer func() {
		s.dropSession(id)
		ws.Close()
		s.log.Info("session closed", "conn", id)
	}()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("session read", "conn", id, "err", err)
			}
			return
		}

		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			_ = conn.write(Response{Error: fmt.Sprintf("invalid request: %v", err)})
			continue
		}
		debug.Log("session %s <- cmd=%s", id, req.Cmd)

		// the request context dies with the handler on hijacked
		// connections; disconnects surface through the read loop
		resp := Response{ID: req.ID, Cmd: req.Cmd}
		result, err := s.env.Bridge().Invoke(context.Background(), req.Cmd, req.Args)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Result = result
		}
		if err := conn.write(resp); err != nil {
			s.log.Warn("session write", "conn", id, "err", err)
			return
		}
	}
}

// CallsSnapshot groups every stub's recorded calls by operation.
type CallsSnapshot struct {
	Bridge map[string][]calllog.Call `json:"bridge"`
	DB     map[string][]calllog.Call `json:"db"`
	Dialog map[string][]calllog.Call `json:"dialog"`
	Socket map[string][]calllog.Call `json:"socket,omitempty"`
	Store  map[string][]calllog.Call `json:"store,omitempty"`
}

func (s *Server) snapshot() CallsSnapshot {
	snap := CallsSnapshot{
		Bridge: s.env.Bridge().Log().Snapshot(),
		DB:     s.env.DB().Log().Snapshot(),
		Dialog: s.env.Dialog().Log().Snapshot(),
	}
	if d, ok := s.env.Dialer().(*socket.StubDialer); ok {
		snap.Socket = d.Log().Snapshot()
	}
	if st, ok := s.env.Store().(*storage.Stub); ok {
		snap.Store = st.Log().Snapshot()
	}
	return snap
}

func (s *Server) handleCalls(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data, err := json.MarshalIndent(s.snapshot(), "", "  ")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.env.Reset(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.log.Info("environment reset", "remote", r.RemoteAddr)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"ok":true}`))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprintf(w, `{"status":"ok","version":%q}`, version.Version)
}

func (s *Server) addSession(id string, c *session) {
	s.mu.Lock()
	s.conns[id] = c
	s.mu.Unlock()
}

func (s *Server) dropSession(id string) {
	s.mu.Lock()
	delete(s.conns, id)
	s.mu.Unlock()
}

func (s *Server) closeSessions() {
	s.mu.Lock()
	conns := make([]*session, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, c := range conns {
		c.mu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		c.mu.Unlock()
		_ = c.ws.Close()
	}
}

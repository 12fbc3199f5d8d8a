// Package dialog models the native dialog surface of the host shell.
//
// The Stub resolves every dialog without user interaction so tests never
// block on a prompt. Pickers resolve empty, messages resolve success, and
// questions answer no unless a test programs a different reply. A "no"
// default means a forgotten stub can never confirm a destructive action.
package dialog

import (
	"context"
	"sync"

	"github.com/emittiv/mockshell/pkg/calllog"
)

// Filter restricts a file picker to named extension groups.
type Filter struct {
	Name       string
	Extensions []string
}

// OpenOptions configures an open-file dialog.
type OpenOptions struct {
	Title       string
	DefaultPath string
	Directory   bool
	Multiple    bool
	Filters     []Filter
}

// SaveOptions configures a save-file dialog.
type SaveOptions struct {
	Title       string
	DefaultPath string
	Filters     []Filter
}

// MessageKind selects the icon and tone of a message dialog.
type MessageKind string

const (
	KindInfo    MessageKind = "info"
	KindWarning MessageKind = "warning"
	KindError   MessageKind = "error"
)

// MessageOptions configures message, ask and confirm dialogs.
type MessageOptions struct {
	Title       string
	Kind        MessageKind
	OKLabel     string
	CancelLabel string
}

// Service is the dialog capability a component sees.
type Service interface {
	Open(ctx context.Context, opts OpenOptions) (string, error)
	Save(ctx context.Context, opts SaveOptions) (string, error)
	Message(ctx context.Context, text string, opts MessageOptions) error
	Ask(ctx context.Context, text string, opts MessageOptions) (bool, error)
	Confirm(ctx context.Context, text string, opts MessageOptions) (bool, error)
}

// Stub implements Service without any UI. All methods are safe for
// concurrent use.
type Stub struct {
	mu       sync.Mutex
	log      *calllog.Log
	openPath string
	savePath string
	askYes   bool
	confirm  bool
}

var _ Service = (*Stub)(nil)

// NewStub returns a stub with the designed defaults: empty picker paths
// and negative answers.
func NewStub() *Stub {
	return &Stub{log: calllog.New()}
}

// Open records the call and resolves with the programmed path, empty by
// default.
func (s *Stub) Open(ctx context.Context, opts OpenOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.log.Record("open", opts.Title, opts.DefaultPath)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openPath, nil
}

// Save records the call and resolves with the programmed path, empty by
// default.
func (s *Stub) Save(ctx context.Context, opts SaveOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.log.Record("save", opts.Title, opts.DefaultPath)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.savePath, nil
}

// Message records the call and resolves successfully.
func (s *Stub) Message(ctx context.Context, text string, opts MessageOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.Record("message", text, string(opts.Kind))
	return nil
}

// Ask records the call and answers no unless AnswerAsk programmed yes.
func (s *Stub) Ask(ctx context.Context, text string, opts MessageOptions) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.log.Record("ask", text, string(opts.Kind))
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.askYes, nil
}

// Confirm records the call and answers no unless AnswerConfirm programmed
// yes.
func (s *Stub) Confirm(ctx context.Context, text string, opts MessageOptions) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.log.Record("confirm", text, string(opts.Kind))
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirm, nil
}

// ChooseFile programs the path Open resolves with.
func (s *Stub) ChooseFile(path string) {
	s.mu.Lock()
	s.openPath = path
	s.mu.Unlock()
}

// ChooseSave programs the path Save resolves with.
func (s *Stub) ChooseSave(path string) {
	s.mu.Lock()
	s.savePath = path
	s.mu.Unlock()
}

// AnswerAsk programs the reply Ask resolves with.
func (s *Stub) AnswerAsk(yes bool) {
	s.mu.Lock()
	s.askYes = yes
	s.mu.Unlock()
}

// AnswerConfirm programs the reply Confirm resolves with.
func (s *Stub) AnswerConfirm(yes bool) {
	s.mu.Lock()
	s.confirm = yes
	s.mu.Unlock()
}

// Log exposes the recorded dialog history.
func (s *Stub) Log() *calllog.Log {
	return s.log
}

// Reset clears the history and restores the designed defaults.
func (s *Stub) Reset() {
	s.log.Reset()
	s.mu.Lock()
	s.openPath = ""
	s.savePath = ""
	s.askYes = false
	s.confirm = false
	s.mu.Unlock()
}

// Package sink delivers generated UC-DSL text to its destination.
package sink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/atotto/clipboard"
)

// ErrUnknown is returned by New for an unregistered sink name.
var ErrUnknown = errors.New("sink: unknown sink")

// Sink is the interface every output destination implements.
type Sink interface {
	// Name returns the sink's short identifier (e.g. "file").
	Name() string

	// Emit delivers text generated for the model named model.
	Emit(model, text string) error
}

// Options configure the sinks built by New.
type Options struct {
	Stdout io.Writer // stdout sink target; os.Stdout when nil
	Dir    string    // file sink directory; "." when empty
}

// registry maps sink names to constructors.
var registry = map[string]func(Options) Sink{
	"stdout":    func(o Options) Sink { return &Stdout{W: o.Stdout} },
	"file":      func(o Options) Sink { return &File{Dir: o.Dir} },
	"clipboard": func(Options) Sink { return Clipboard{} },
}

// Names lists the registered sink names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// New builds the sink registered under name.
func New(name string, opts Options) (Sink, error) {
	mk, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknown, name)
	}
	return mk(opts), nil
}

// ---------------------------------------------------------------------------
// stdout
// ---------------------------------------------------------------------------

// Stdout writes text to W.
type Stdout struct {
	W io.Writer
}

func (s *Stdout) Name() string { return "stdout" }

func (s *Stdout) Emit(_, text string) error {
	w := s.W
	if w == nil {
		w = os.Stdout
	}
	_, err := io.WriteString(w, text)
	return err
}

// ---------------------------------------------------------------------------
// file
// ---------------------------------------------------------------------------

// File writes text to Dir/<model>.uc, creating Dir as needed.
type File struct {
	Dir string

	// Path is the last file written.
	Path string
}

func (f *File) Name() string { return "file" }

func (f *File) Emit(model, text string) error {
	dir := f.Dir
	if dir == "" {
		dir = "."
	}
	if model == "" {
		model = "model"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, filepath.Base(model)+".uc")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	f.Path = path
	return nil
}

// ---------------------------------------------------------------------------
// clipboard
// ---------------------------------------------------------------------------

// ErrNoClipboard is returned when the platform offers no clipboard utility.
var ErrNoClipboard = errors.New("sink: no clipboard available")

// Clipboard copies text to the system clipboard.
type Clipboard struct{}

func (Clipboard) Name() string { return "clipboard" }

func (Clipboard) Emit(_, text string) error {
	if clipboard.Unsupported {
		return ErrNoClipboard
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}

// Package catalog answers cross-model queries over a directory of model files.
//
// Directory layout:
//
//	<catalog>/
//	    <Model>.json | <Model>.yaml   # one model per file, any depth
//	    .ucdsl/                       # settings, never scanned
//
// A model that declares sub-functionalities or parameter interfaces refers to
// ideal functionalities and composite interfaces of other models by id. The
// catalog scans the directory and resolves those ids into a model.Snapshot the
// generator can read without further I/O.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"ucdsl/internal/model"
	"ucdsl/internal/settings"
)

// ErrNotFound is returned when a named model is not in the catalog.
var ErrNotFound = errors.New("not found in catalog")

// Catalog is a directory of model files.
type Catalog struct {
	Dir string

	settings *settings.Settings
	logger   *slog.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithSettings applies the deny rules of s while scanning.
func WithSettings(s *settings.Settings) Option {
	return func(c *Catalog) { c.settings = s }
}

// WithLogger routes scan diagnostics to l instead of slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) { c.logger = l }
}

// Open opens an existing catalog directory.
func Open(dir string, opts ...Option) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open catalog: %s is not a directory", dir)
	}
	c := &Catalog{Dir: dir, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Entry is one model file of the catalog.
type Entry struct {
	Path  string // relative to the catalog, forward slashes
	Model *model.Model
}

// Entries loads every readable model file, sorted by path. Denied files are
// skipped silently and corrupt files are logged and skipped. Files that could
// not be read are reported in the returned error; the entries that did load
// are still returned.
func (c *Catalog) Entries() ([]Entry, error) {
	var entries []Entry
	var errs error
	walkErr := filepath.WalkDir(c.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			errs = multierr.Append(errs, err)
			return nil
		}
		rel, err := filepath.Rel(c.Dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel != "." && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !model.IsModelFile(path) {
			return nil
		}
		if c.settings.IsDenied(rel) {
			c.logger.Debug("catalog: denied", "path", rel)
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("read %s: %w", rel, err))
			return nil
		}
		m, err := model.Parse(data)
		if err != nil {
			c.logger.Warn("catalog: skipping corrupt model", "path", rel, "err", err)
			return nil
		}
		entries = append(entries, Entry{Path: rel, Model: m})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("scan catalog %s: %w", c.Dir, walkErr)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, errs
}

// Find returns the model named name.
func (c *Catalog) Find(name string) (Entry, error) {
	entries, err := c.Entries()
	for _, e := range entries {
		if e.Model.Name == name {
			return e, nil
		}
	}
	if err != nil {
		return Entry{}, fmt.Errorf("model %q: %w (%v)", name, ErrNotFound, err)
	}
	return Entry{}, fmt.Errorf("model %q: %w", name, ErrNotFound)
}

// CompositeRef is catalog metadata for a direct composite interface.
type CompositeRef struct {
	ModelID   string `yaml:"modelId"`
	ModelName string `yaml:"modelName"`
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
}

// IdealFunctionalities lists the ideal functionality of every model.
func (c *Catalog) IdealFunctionalities() ([]model.IdealFunctionalityRef, error) {
	entries, err := c.Entries()
	return idealFunctionalities(entries), err
}

// IdealFunctionalityMessages returns the messages an ideal functionality
// exposes: those of the basic interfaces embedded in its composite direct
// interface, then those of its basic adversarial interface.
func (c *Catalog) IdealFunctionalityMessages(id string) ([]model.ExternalMessage, error) {
	entries, err := c.Entries()
	return idealFunctionalityMessages(entries, id), err
}

// CompositeInterfaces lists the direct composite interfaces of every model.
func (c *Catalog) CompositeInterfaces() ([]CompositeRef, error) {
	entries, err := c.Entries()
	return compositeInterfaces(entries), err
}

// CompositeMessages returns the messages of every basic interface embedded in
// the composite interface id.
func (c *Catalog) CompositeMessages(id string) ([]model.ExternalMessage, error) {
	entries, err := c.Entries()
	return compositeMessages(entries, id), err
}

// Snapshot resolves the cross-model references of m against one scan of the
// catalog. Messages are tagged with the id of the sub-functionality or
// parameter interface that exposes them. As with Entries, a non-nil error
// may accompany a usable snapshot.
func (c *Catalog) Snapshot(m *model.Model) (*model.Snapshot, error) {
	entries, err := c.Entries()
	s := model.NewSnapshot(m)
	for _, sf := range m.Subfunctionalities.Subfunctionalities {
		for _, em := range idealFunctionalityMessages(entries, sf.IdealFunctionalityID) {
			em.Owner = sf.ID
			s.SubFuncMessages = append(s.SubFuncMessages, em)
		}
	}
	for _, pi := range m.RealFunctionality.ParameterInterfaces {
		for _, em := range compositeMessages(entries, pi.IDOfInterface) {
			em.Owner = pi.ID
			s.ParamInterMessages = append(s.ParamInterMessages, em)
		}
	}
	s.IdealFunctionalities = idealFunctionalities(entries)
	return s, err
}

func idealFunctionalities(entries []Entry) []model.IdealFunctionalityRef {
	refs := make([]model.IdealFunctionalityRef, 0, len(entries))
	for _, e := range entries {
		refs = append(refs, model.IdealFunctionalityRef{
			ModelID:   e.Model.ID,
			ModelName: e.Model.Name,
			ID:        e.Model.IdealFunctionality.ID,
			Name:      e.Model.IdealFunctionality.Name,
		})
	}
	return refs
}

func compositeInterfaces(entries []Entry) []CompositeRef {
	var refs []CompositeRef
	for _, e := range entries {
		for _, ci := range e.Model.Interfaces.CompInters {
			if ci.Type != model.Direct {
				continue
			}
			refs = append(refs, CompositeRef{
				ModelID:   e.Model.ID,
				ModelName: e.Model.Name,
				ID:        ci.ID,
				Name:      ci.Name,
			})
		}
	}
	return refs
}

func idealFunctionalityMessages(entries []Entry, id string) []model.ExternalMessage {
	if id == "" {
		return nil
	}
	var out []model.ExternalMessage
	for _, e := range entries {
		f := e.Model.IdealFunctionality
		if f.ID != id {
			continue
		}
		ix := model.NewIndex(model.NewSnapshot(e.Model))
		comp, _ := ix.Composite(f.CompositeDirectInterface)
		basics := embedded(comp)
		if f.BasicAdversarialInterface != "" {
			basics[f.BasicAdversarialInterface] = struct{}{}
		}
		out = append(out, collect(ix, comp, basics)...)
	}
	return out
}

func compositeMessages(entries []Entry, id string) []model.ExternalMessage {
	if id == "" {
		return nil
	}
	var out []model.ExternalMessage
	for _, e := range entries {
		ix := model.NewIndex(model.NewSnapshot(e.Model))
		comp, ok := ix.Composite(id)
		if !ok {
			continue
		}
		out = append(out, collect(ix, comp, embedded(comp))...)
	}
	return out
}

func embedded(comp model.CompositeInterface) map[string]struct{} {
	basics := make(map[string]struct{}, len(comp.BasicInterfaces))
	for _, inst := range comp.BasicInterfaces {
		basics[inst.IDOfBasic] = struct{}{}
	}
	return basics
}

// collect returns, in model order, the messages owned by one of basics.
// Composite is left nil for basics that comp does not embed.
func collect(ix *model.Index, comp model.CompositeInterface, basics map[string]struct{}) []model.ExternalMessage {
	var out []model.ExternalMessage
	for _, msg := range ix.Model().Interfaces.Messages {
		owner, ok := ix.OwnerOf(msg.ID)
		if !ok {
			continue
		}
		if _, ok := basics[owner.ID]; !ok {
			continue
		}
		em := model.ExternalMessage{Message: msg, Basic: owner}
		if _, ok := model.InstanceOfBasic(&comp, owner.ID); ok {
			c := comp
			em.Composite = &c
		}
		out = append(out, em)
	}
	return out
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ucdsl/internal/catalog"
	"ucdsl/internal/dslgen"
	"ucdsl/internal/model"
	"ucdsl/internal/settings"
	"ucdsl/internal/sink"
)

var tracer = otel.Tracer("ucdsl/cmd/ucdsl")

// project is one model file plus everything needed to generate it.
type project struct {
	path     string
	settings *settings.Settings // nil when the project has no settings file
	snapshot *model.Snapshot
}

// openProject loads the model named by arg and resolves its cross-model
// references through the catalog. arg is a model file or the name of a model
// in the catalog. An incomplete catalog scan is logged, not fatal: unresolved
// references render as placeholders.
func openProject(arg string) (*project, error) {
	cfg, err := settings.Load(".")
	if err != nil {
		return nil, err
	}
	path, err := locate(cfg, arg)
	if err != nil {
		return nil, err
	}
	p := &project{path: path, settings: cfg}
	if err := p.reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// locate maps a command argument to a model file. An existing file is used as
// is; anything else is looked up by model name in the catalog directory.
func locate(cfg *settings.Settings, arg string) (string, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return arg, nil
	}
	cat, err := catalog.Open(cfg.CatalogDir("."), catalog.WithSettings(cfg))
	if err != nil {
		return "", fmt.Errorf("model %q: not a file and %w", arg, err)
	}
	e, err := cat.Find(arg)
	if err != nil {
		return "", err
	}
	slog.Debug("resolved model by name", "name", arg, "path", e.Path)
	return filepath.Join(cat.Dir, filepath.FromSlash(e.Path)), nil
}

// name is the model name, or the file stem when the model has none.
func (p *project) name() string {
	if n := p.snapshot.Model.Name; n != "" {
		return n
	}
	return model.NameFromPath(p.path)
}

// reload re-reads the model file and the catalog.
func (p *project) reload() error {
	m, err := model.Load(p.path)
	if err != nil {
		return err
	}
	dir := p.settings.CatalogDir(filepath.Dir(p.path))
	cat, err := catalog.Open(dir, catalog.WithSettings(p.settings))
	if err != nil {
		slog.Warn("no catalog, cross-model references unresolved", "dir", dir, "err", err)
		p.snapshot = model.NewSnapshot(m)
		return nil
	}
	snap, err := cat.Snapshot(m)
	if err != nil {
		slog.Warn("catalog scan incomplete", "dir", dir, "err", err)
	}
	p.snapshot = snap
	return nil
}

// generate renders the current snapshot.
func (p *project) generate(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("model.path", p.path),
		attribute.Int("catalog.subfunc_messages", len(p.snapshot.SubFuncMessages)),
		attribute.Int("catalog.param_messages", len(p.snapshot.ParamInterMessages)),
	)
	return dslgen.GenerateContext(ctx, p.snapshot)
}

func joinNames() string {
	return strings.Join(sink.Names(), "|")
}

// ---------------------------------------------------------------------------
// init
// ---------------------------------------------------------------------------

// newSkeleton returns a minimal model named name: an ideal functionality
// driven by a one-state machine.
func newSkeleton(name string) *model.Model {
	smID := uuid.NewString()
	stateID := uuid.NewString()
	return &model.Model{
		ID:   uuid.NewString(),
		Name: name,
		IdealFunctionality: model.IdealFunctionality{
			ID:           uuid.NewString(),
			Name:         "F" + name,
			StateMachine: smID,
		},
		RealFunctionality: model.RealFunctionality{Name: "R" + name},
		Simulator:         model.Simulator{Name: "S" + name},
		StateMachines: model.StateMachines{
			StateMachines: []model.StateMachine{{ID: smID, InitState: stateID, States: []string{stateID}}},
			States:        []model.State{{ID: stateID, Name: "Init"}},
		},
	}
}

// initModel writes a skeleton model to dir/<name>.yaml.
func initModel(dir, name string) (string, error) {
	path := filepath.Join(dir, name+".yaml")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("model %q already exists at %s", name, path)
	}
	if err := model.Save(newSkeleton(name), path); err != nil {
		return "", err
	}
	return path, nil
}

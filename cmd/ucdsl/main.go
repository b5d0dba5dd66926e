package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"ucdsl/internal/catalog"
	"ucdsl/internal/export"
	"ucdsl/internal/model"
	"ucdsl/internal/naming"
	"ucdsl/internal/settings"
	"ucdsl/internal/sink"
)

// command describes a CLI subcommand.
type command struct {
	name  string
	short string
	usage string
	long  string
	run   func(ctx context.Context, args []string) error
}

var commands = []command{
	{
		name:  "init",
		short: "Create a new model file",
		usage: "ucdsl init [name]",
		long: `Create <name>.yaml in the catalog directory with fresh ids, an ideal
functionality and an initial state. Prompts for the name when omitted.

Also writes .ucdsl/settings.yaml when the project has none.
Errors if the model file already exists.
`,
		run: runInit,
	},
	{
		name:  "generate",
		short: "Print the UC-DSL source of a model",
		usage: "ucdsl generate <model> [stdout|file|clipboard]",
		long: `Generate UC-DSL source for a model file and hand it to a sink
(stdout by default). The file sink writes <output>/<Model>.uc.

<model> is a model file or the name of a model in the catalog.
Sub-functionality and parameter-interface references are resolved against
the catalog directory (settings "catalog", default the model's directory).
`,
		run: runGenerate,
	},
	{
		name:  "export",
		short: "Write <Model>.uc and <Model>.md",
		usage: "ucdsl export <model> [dir]",
		long: `Write the generated source plus a markdown page with YAML frontmatter
to dir (settings "output", default the current directory).

Files whose content is unchanged are left untouched.
`,
		run: runExport,
	},
	{
		name:  "copy",
		short: "Copy the UC-DSL source to the clipboard",
		usage: "ucdsl copy <model>",
		long: `Generate UC-DSL source for a model and copy it to the system clipboard.
`,
		run: runCopy,
	},
	{
		name:  "check",
		short: "Validate names and comments of a model",
		usage: "ucdsl check <model>",
		long: `Check every identifier and comment of a model against the naming rules
and list each problem. Exits non-zero when any problem is found.
`,
		run: runCheck,
	},
	{
		name:  "list",
		short: "List ideal functionalities and composite interfaces",
		usage: "ucdsl list [dir]",
		long: `List the ideal functionalities and direct composite interfaces of every
model in the catalog directory. Corrupt model files are skipped.
`,
		run: runList,
	},
	{
		name:  "messages",
		short: "List the messages a model exposes to other models",
		usage: "ucdsl messages <model>",
		long: `List the messages other models can reference through this model: those
of its ideal functionality (embedded direct basics, then the adversarial
basic) and those of each composite direct interface.

<model> is a model file or the name of a model in the catalog.
`,
		run: runMessages,
	},
	{
		name:  "preview",
		short: "Live preview of the generated source",
		usage: "ucdsl preview <model>",
		long: `Open an interactive preview that regenerates whenever the model file
changes.

Keys: r reload, c copy to clipboard, w write <Model>.uc, q quit.
`,
		run: runPreview,
	},
}

// stdout receives command output.
var stdout io.Writer = os.Stdout

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "ucdsl: UC-DSL generation for protocol models\n\n")
	fmt.Fprintf(w, "Usage:\n  ucdsl <command> [arguments]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", cmd.name, cmd.short)
	}
	fmt.Fprintf(w, "\nRun 'ucdsl help <command>' for details on a specific command.\n")
}

func printCommandHelp(w io.Writer, name string) {
	for _, cmd := range commands {
		if cmd.name == name {
			fmt.Fprintf(w, "Usage: %s\n\n%s", cmd.usage, cmd.long)
			return
		}
	}
	fmt.Fprintf(w, "ucdsl: unknown command %q\n\nRun 'ucdsl help' for usage.\n", name)
}

func dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "--help" || args[0] == "-h" {
		printUsage(stdout)
		return nil
	}
	if args[0] == "help" {
		if len(args) >= 2 {
			printCommandHelp(stdout, args[1])
		} else {
			printUsage(stdout)
		}
		return nil
	}
	for _, cmd := range commands {
		if cmd.name == args[0] {
			ctx, span := tracer.Start(ctx, "ucdsl."+cmd.name)
			defer span.End()
			return cmd.run(ctx, args[1:])
		}
	}
	return fmt.Errorf("unknown command %q\n\nRun 'ucdsl help' for usage.", args[0])
}

// ---------------------------------------------------------------------------
// init
// ---------------------------------------------------------------------------

func runInit(_ context.Context, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: ucdsl init [name]")
	}
	var name string
	if len(args) == 1 {
		name = args[0]
	} else {
		var err error
		if name, err = promptName(); err != nil {
			return fmt.Errorf("prompt: %w", err)
		}
	}
	if name == "" {
		return fmt.Errorf("usage: ucdsl init [name]")
	}
	if err := naming.Upper(name); err != nil {
		return fmt.Errorf("model name %q: %w", name, err)
	}

	cfg, err := settings.Load(".")
	if err != nil {
		return err
	}
	if cfg == nil {
		if err := settings.Write(".", &settings.Settings{Catalog: "."}); err != nil {
			return err
		}
		slog.Info("wrote settings", "path", settings.Dir+"/"+settings.File)
	}

	path, err := initModel(cfg.CatalogDir("."), name)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "created model %q at %s\n", name, path)
	return nil
}

// ---------------------------------------------------------------------------
// generate / copy
// ---------------------------------------------------------------------------

func runGenerate(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: ucdsl generate <model> [%s]", joinNames())
	}
	sinkName := "stdout"
	if len(args) == 2 {
		sinkName = args[1]
	}
	return emit(ctx, args[0], sinkName)
}

func runCopy(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: ucdsl copy <model>")
	}
	if err := emit(ctx, args[0], "clipboard"); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "copied to clipboard")
	return nil
}

func emit(ctx context.Context, path, sinkName string) error {
	p, err := openProject(path)
	if err != nil {
		return err
	}
	s, err := sink.New(sinkName, sink.Options{Stdout: stdout, Dir: p.settings.OutputDir(".")})
	if err != nil {
		return err
	}
	if err := s.Emit(export.FileName(p.name()), p.generate(ctx)); err != nil {
		return err
	}
	if f, ok := s.(*sink.File); ok {
		fmt.Fprintf(stdout, "wrote %s\n", f.Path)
	}
	return nil
}

// ---------------------------------------------------------------------------
// export
// ---------------------------------------------------------------------------

func runExport(_ context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: ucdsl export <model> [dir]")
	}
	p, err := openProject(args[0])
	if err != nil {
		return err
	}
	dir := p.settings.OutputDir(".")
	if len(args) == 2 {
		dir = args[1]
	}

	bundle, err := export.Build(p.snapshot, p.path)
	if err != nil {
		return err
	}
	if export.Current(bundle, dir) {
		fmt.Fprintf(stdout, "%s is up to date in %s\n", bundle.Name, dir)
		return nil
	}
	written, err := export.Write(bundle, dir)
	for _, path := range written {
		fmt.Fprintf(stdout, "wrote %s\n", path)
	}
	return err
}

// ---------------------------------------------------------------------------
// check
// ---------------------------------------------------------------------------

// errProblems reports that check found at least one problem.
var errProblems = errors.New("naming problems found")

func runCheck(_ context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: ucdsl check <model>")
	}
	cfg, err := settings.Load(".")
	if err != nil {
		return err
	}
	path, err := locate(cfg, args[0])
	if err != nil {
		return err
	}
	m, err := model.Load(path)
	if err != nil {
		return err
	}
	problems := multierr.Errors(naming.CheckModel(m))
	for _, p := range problems {
		fmt.Fprintf(stdout, "%s: %v\n", path, p)
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %d", errProblems, len(problems))
	}
	fmt.Fprintf(stdout, "%s: ok\n", path)
	return nil
}

// ---------------------------------------------------------------------------
// list
// ---------------------------------------------------------------------------

func runList(_ context.Context, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: ucdsl list [dir]")
	}
	cfg, err := settings.Load(".")
	if err != nil {
		return err
	}
	dir := cfg.CatalogDir(".")
	if len(args) == 1 {
		dir = args[0]
	}
	cat, err := catalog.Open(dir, catalog.WithSettings(cfg))
	if err != nil {
		return err
	}

	ifs, err := cat.IdealFunctionalities()
	if err != nil {
		slog.Warn("catalog scan incomplete", "dir", dir, "err", err)
	}
	comps, err := cat.CompositeInterfaces()
	if err != nil {
		slog.Warn("catalog scan incomplete", "dir", dir, "err", err)
	}

	fmt.Fprintf(stdout, "Ideal functionalities:\n")
	for _, f := range ifs {
		fmt.Fprintf(stdout, "  %-20s %s\n", f.ModelName, f.Name)
	}
	fmt.Fprintf(stdout, "\nComposite direct interfaces:\n")
	for _, c := range comps {
		fmt.Fprintf(stdout, "  %-20s %s\n", c.ModelName, c.Name)
	}
	return nil
}

// ---------------------------------------------------------------------------
// messages
// ---------------------------------------------------------------------------

func runMessages(_ context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: ucdsl messages <model>")
	}
	cfg, err := settings.Load(".")
	if err != nil {
		return err
	}
	path, err := locate(cfg, args[0])
	if err != nil {
		return err
	}
	m, err := model.Load(path)
	if err != nil {
		return err
	}
	dir := cfg.CatalogDir(filepath.Dir(path))
	cat, err := catalog.Open(dir, catalog.WithSettings(cfg))
	if err != nil {
		return err
	}

	f := m.IdealFunctionality
	msgs, err := cat.IdealFunctionalityMessages(f.ID)
	if err != nil {
		slog.Warn("catalog scan incomplete", "dir", dir, "err", err)
	}
	fmt.Fprintf(stdout, "%s (ideal functionality):\n", orNone(f.Name))
	printMessages(msgs)

	for _, ci := range m.Interfaces.CompInters {
		if ci.Type != model.Direct {
			continue
		}
		msgs, err := cat.CompositeMessages(ci.ID)
		if err != nil {
			slog.Warn("catalog scan incomplete", "dir", dir, "err", err)
		}
		fmt.Fprintf(stdout, "\n%s (composite direct interface):\n", orNone(ci.Name))
		printMessages(msgs)
	}
	return nil
}

func printMessages(msgs []model.ExternalMessage) {
	if len(msgs) == 0 {
		fmt.Fprintf(stdout, "  (none)\n")
		return
	}
	for _, em := range msgs {
		params := make([]string, len(em.Message.Parameters))
		for i, p := range em.Message.Parameters {
			params[i] = p.Name + " : " + p.Type
		}
		fmt.Fprintf(stdout, "  %-4s %s.%s(%s)\n", em.Message.Type, em.Basic.Name, em.Message.Name, strings.Join(params, ", "))
	}
}

func orNone(name string) string {
	if name == "" {
		return "<unnamed>"
	}
	return name
}

// ---------------------------------------------------------------------------
// preview
// ---------------------------------------------------------------------------

func runPreview(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: ucdsl preview <model>")
	}
	p, err := openProject(args[0])
	if err != nil {
		return err
	}
	return runPreviewTUI(ctx, p)
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel()})))
	if err := dispatch(context.Background(), os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

// logLevel reads UCDSL_LOG (debug, info, warn, error); the default is warn.
func logLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(os.Getenv("UCDSL_LOG"))); err != nil {
		return slog.LevelWarn
	}
	return l
}

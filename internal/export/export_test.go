package export

// export_test.go builds snapshots directly, runs Build + Write and asserts on
// the files that land in a temp directory.

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ucdsl/internal/dslgen"
	"ucdsl/internal/frontmatter"
	"ucdsl/internal/model"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func smallModel() *model.Model {
	m := &model.Model{ID: "m1", Name: "Auth"}
	m.Interfaces.BasicInters = []model.BasicInterface{{ID: "b1", Name: "Dir", Type: model.Direct, Messages: []string{"x"}}}
	m.Interfaces.Messages = []model.Message{{ID: "x", Name: "Go", Type: model.In}}
	m.IdealFunctionality = model.IdealFunctionality{ID: "f", Name: "F", StateMachine: "sm"}
	m.StateMachines.StateMachines = []model.StateMachine{{ID: "sm", InitState: "s0", States: []string{"s0"}}}
	m.StateMachines.States = []model.State{{ID: "s0", Name: "Init"}}
	return m
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("readFile %s: %v", path, err)
	}
	return string(data)
}

func build(t *testing.T, m *model.Model) *Bundle {
	t.Helper()
	b, err := Build(model.NewSnapshot(m), "models/Auth.json")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return b
}

// ---------------------------------------------------------------------------
// sanitizeFilename / FileName
// ---------------------------------------------------------------------------

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Auth", "Auth"},
		{"proto/v2", "proto-v2"},
		{"a..b", "a-b"},
		{"/leading", "leading"},
		{"trailing.", "trailing"},
		{"Two-Party", "Two-Party"},
	}
	for _, tc := range tests {
		if got := sanitizeFilename(tc.input); got != tc.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
	if got := FileName("./"); got != "model" {
		t.Errorf("FileName(./) = %q, want model", got)
	}
}

// ---------------------------------------------------------------------------
// Build
// ---------------------------------------------------------------------------

func TestBuildFiles(t *testing.T) {
	m := smallModel()
	b := build(t, m)

	if got := b.Paths(); len(got) != 2 || got[0] != "Auth.md" || got[1] != "Auth.uc" {
		t.Fatalf("Paths = %v", got)
	}
	uc, _ := b.File("Auth.uc")
	if string(uc) != dslgen.Generate(model.NewSnapshot(m)) {
		t.Error("Auth.uc differs from generator output")
	}

	md, _ := b.File("Auth.md")
	var p Page
	body, err := frontmatter.Decode(md, &p)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := Page{Model: "Auth", ModelID: "m1", Source: "models/Auth.json", SHA256: Hash(string(uc)), Generator: Generator}
	if p != want {
		t.Errorf("page = %+v, want %+v", p, want)
	}
	if !strings.HasPrefix(string(body), "# Auth\n\n```\n") || !strings.HasSuffix(string(body), "\n```\n") {
		t.Errorf("body = %q", body)
	}
	if !strings.Contains(string(body), "functionality F implements") {
		t.Error("body lacks generated source")
	}
}

func TestBuildNilModel(t *testing.T) {
	if _, err := Build(&model.Snapshot{}, ""); err == nil {
		t.Fatal("expected error for nil model")
	}
}

// ---------------------------------------------------------------------------
// Write
// ---------------------------------------------------------------------------

func TestWriteCreatesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	b := build(t, smallModel())

	written, err := Write(b, dir)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("written = %v", written)
	}
	if got := readFile(t, filepath.Join(dir, "Auth.uc")); got != b.Text {
		t.Error("Auth.uc content mismatch")
	}
	if !Current(b, dir) {
		t.Error("Current = false after Write")
	}
}

func TestWriteIdempotent(t *testing.T) {
	dir := t.TempDir()
	b := build(t, smallModel())
	if _, err := Write(b, dir); err != nil {
		t.Fatal(err)
	}
	first := readFile(t, filepath.Join(dir, "Auth.md"))

	written, err := Write(build(t, smallModel()), dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 0 {
		t.Errorf("second Write rewrote %v", written)
	}
	if second := readFile(t, filepath.Join(dir, "Auth.md")); first != second {
		t.Error("Auth.md changed between identical exports")
	}
}

func TestCurrentDetectsChange(t *testing.T) {
	dir := t.TempDir()
	m := smallModel()
	if _, err := Write(build(t, m), dir); err != nil {
		t.Fatal(err)
	}
	m.StateMachines.States[0].Name = "Start"
	if Current(build(t, m), dir) {
		t.Error("Current = true after the model changed")
	}
	if Current(build(t, m), t.TempDir()) {
		t.Error("Current = true for an empty directory")
	}
}

func TestCurrentRequiresEveryFile(t *testing.T) {
	tests := []struct {
		name   string
		tamper func(t *testing.T, uc string)
	}{
		{"source deleted", func(t *testing.T, uc string) {
			if err := os.Remove(uc); err != nil {
				t.Fatal(err)
			}
		}},
		{"source edited", func(t *testing.T, uc string) {
			if err := os.WriteFile(uc, []byte("(* hand edit *)\n"), 0o644); err != nil {
				t.Fatal(err)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			b := build(t, smallModel())
			if _, err := Write(b, dir); err != nil {
				t.Fatal(err)
			}
			if !Current(b, dir) {
				t.Fatal("Current = false right after Write")
			}
			uc := filepath.Join(dir, "Auth.uc")
			tt.tamper(t, uc)
			if Current(b, dir) {
				t.Error("Current = true with Auth.uc out of date")
			}
			written, err := Write(b, dir)
			if err != nil {
				t.Fatal(err)
			}
			if len(written) != 1 || written[0] != uc {
				t.Errorf("rewrite = %v, want only %s", written, uc)
			}
			if got := readFile(t, uc); got != b.Text {
				t.Errorf("Auth.uc not restored:\n%s", got)
			}
		})
	}
}

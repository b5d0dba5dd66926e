package export

// export.go converts a model snapshot into files on disk.
//
// Layout:
//   <name>.uc   generated UC-DSL source
//   <name>.md   YAML frontmatter plus the same source in a fenced block
//
// <name> is the model name with / and . replaced by -. Generation and writing
// are separate steps so callers can inspect a bundle before touching disk.

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ucdsl/internal/dslgen"
	"ucdsl/internal/frontmatter"
	"ucdsl/internal/model"
)

// Generator is recorded in the frontmatter of every exported page.
const Generator = "ucdsl"

// Page is the frontmatter of an exported <name>.md.
type Page struct {
	Model     string `yaml:"model"`
	ModelID   string `yaml:"modelId,omitempty"`
	Source    string `yaml:"source,omitempty"`
	SHA256    string `yaml:"sha256"`
	Generator string `yaml:"generator"`
}

// Bundle holds generated file content (relative path → bytes).
type Bundle struct {
	Name  string
	Text  string
	Page  Page
	files map[string][]byte
}

// Paths returns the bundle's file paths in sorted order.
func (b *Bundle) Paths() []string {
	paths := make([]string, 0, len(b.files))
	for p := range b.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// File returns the content of one bundle file.
func (b *Bundle) File(path string) ([]byte, bool) {
	data, ok := b.files[path]
	return data, ok
}

// Build renders s and assembles the export files. source is the model file
// the snapshot was loaded from; it may be empty. No files are written.
func Build(s *model.Snapshot, source string) (*Bundle, error) {
	if s == nil || s.Model == nil {
		return nil, fmt.Errorf("export: nil model")
	}
	text := dslgen.Generate(s)
	name := FileName(s.Model.Name)
	page := Page{
		Model:     s.Model.Name,
		ModelID:   s.Model.ID,
		Source:    filepath.ToSlash(source),
		SHA256:    Hash(text),
		Generator: Generator,
	}
	md, err := frontmatter.Encode(page, buildPage(s.Model.Name, text))
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", name, err)
	}
	return &Bundle{
		Name: name,
		Text: text,
		Page: page,
		files: map[string][]byte{
			name + ".uc": []byte(text),
			name + ".md": md,
		},
	}, nil
}

// Write stores every bundle file under dir in sorted path order and returns
// the paths it wrote. Files whose content is already identical are skipped.
func Write(b *Bundle, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	var written []string
	for _, p := range b.Paths() {
		abs := filepath.Join(dir, filepath.FromSlash(p))
		data := b.files[p]
		if old, err := os.ReadFile(abs); err == nil && bytes.Equal(old, data) {
			continue
		}
		if err := os.WriteFile(abs, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", abs, err)
		}
		written = append(written, abs)
	}
	return written, nil
}

// Current reports whether dir already holds a page for b generated from the
// same text and every bundle file is present with identical content.
func Current(b *Bundle, dir string) bool {
	data, err := os.ReadFile(filepath.Join(dir, b.Name+".md"))
	if err != nil {
		return false
	}
	var p Page
	if _, err := frontmatter.Decode(data, &p); err != nil {
		return false
	}
	if p.SHA256 != b.Page.SHA256 || p.Model != b.Page.Model {
		return false
	}
	for _, path := range b.Paths() {
		old, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(path)))
		if err != nil || !bytes.Equal(old, b.files[path]) {
			return false
		}
	}
	return true
}

// Hash is the hex sha256 of generated text.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// FileName maps a model name to a file stem. An empty result becomes "model".
func FileName(modelName string) string {
	if s := sanitizeFilename(modelName); s != "" {
		return s
	}
	return "model"
}

func buildPage(name, text string) string {
	var b strings.Builder
	if name == "" {
		name = "Untitled model"
	}
	b.WriteString("# " + name + "\n\n")
	b.WriteString("```\n")
	b.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n")
	return b.String()
}

// sanitizeFilename replaces / and . with -, collapses consecutive - to one,
// and trims leading/trailing -.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, ".", "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}

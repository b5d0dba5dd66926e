// Package settings loads ucdsl configuration from .ucdsl/settings.yaml.
//
// The deny list follows a permission-rule style: glob patterns that keep the
// catalog from reading matching model files. Patterns may be bare globs
// ("drafts/**") or wrapped in a Read() verb ("Read(./drafts/**)").
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Dir and File locate the settings file relative to a project root.
const (
	Dir  = ".ucdsl"
	File = "settings.yaml"
)

// Settings holds ucdsl configuration.
type Settings struct {
	// Catalog is the directory holding the model files that sub-functionality
	// and parameter-interface references are resolved against. Relative paths
	// are taken from the project root.
	Catalog string `yaml:"catalog"`
	// Output is the default export directory.
	Output      string      `yaml:"output"`
	Permissions Permissions `yaml:"permissions"`

	root string
}

// Permissions controls which model files the catalog reads.
type Permissions struct {
	// Deny is a list of glob patterns, relative to the catalog directory.
	// Example: ["Read(./drafts/**)", "*.bak.json"]
	Deny []string `yaml:"deny"`
}

// Load reads .ucdsl/settings.yaml relative to root.
// Returns nil (not an error) if the file does not exist.
func Load(root string) (*Settings, error) {
	path := filepath.Join(root, Dir, File)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	s.root = root
	return &s, nil
}

// Write stores s as root/.ucdsl/settings.yaml. It errors if the file exists.
func Write(root string, s *Settings) error {
	dir := filepath.Join(root, Dir)
	path := filepath.Join(dir, File)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("settings already exist at %s", path)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// CatalogDir returns the configured catalog directory, or fallback when
// unset. Callers resolving a model file pass the file's own directory.
// Safe to call on a nil *Settings receiver.
func (s *Settings) CatalogDir(fallback string) string {
	if s == nil || s.Catalog == "" {
		return fallback
	}
	return s.resolve(s.Catalog)
}

// OutputDir returns the configured export directory, or fallback when unset.
// Safe to call on a nil *Settings receiver.
func (s *Settings) OutputDir(fallback string) string {
	if s == nil || s.Output == "" {
		return fallback
	}
	return s.resolve(s.Output)
}

func (s *Settings) resolve(p string) string {
	if filepath.IsAbs(p) || s.root == "" {
		return p
	}
	return filepath.Join(s.root, p)
}

// IsDenied reports whether relPath (forward-slash, relative to the catalog)
// matches any deny rule. Safe to call on a nil *Settings receiver.
func (s *Settings) IsDenied(relPath string) bool {
	if s == nil {
		return false
	}
	for _, rule := range s.Permissions.Deny {
		if matchDenyPattern(parseDenyRule(rule), relPath) {
			return true
		}
	}
	return false
}

// parseDenyRule extracts the path glob from a deny rule.
//
//	"Read(./drafts/**)" → "drafts/**"
//	"drafts/**"         → "drafts/**"
func parseDenyRule(rule string) string {
	if strings.HasPrefix(rule, "Read(") && strings.HasSuffix(rule, ")") {
		rule = rule[5 : len(rule)-1]
	}
	return strings.TrimPrefix(rule, "./")
}

// matchDenyPattern reports whether path matches a deny glob pattern.
//
// "prefix/**" matches the prefix directory itself and every path beneath it.
// All other patterns use filepath.Match semantics (single * does not cross /).
func matchDenyPattern(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/**") {
		prefix := strings.TrimSuffix(pattern, "/**")
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	matched, _ := filepath.Match(pattern, path)
	return matched
}

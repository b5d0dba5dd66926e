package dslgen

import (
	"strings"

	"ucdsl/internal/model"
)

// formatArgs renders items as a call list: "" when empty, "(a)" for one
// element, "(a, b, c)" otherwise.
func formatArgs[T any](items []T, text func(T) string) string {
	if len(items) == 0 {
		return ""
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = text(it)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func paramName(p model.Param) string { return p.Name }

func paramDecl(p model.Param) string { return p.Name + " : " + p.Type }

func argValue(a model.Arg) string { return a.ArgValue }

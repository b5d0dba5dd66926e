package dslgen

import (
	"strings"
	"unicode/utf8"
)

// commentStyle fixes where a block comment sits and when it wraps.
//
// indent is the column of the opening "(*"; continuation lines start with
// indent spaces followed by " * ". A comment wraps once its length reaches
// width (inclusive) or exceeds it (exclusive), depending on the site.
type commentStyle struct {
	indent    int
	width     int
	inclusive bool
}

var (
	interfaceComment  = commentStyle{indent: 0, width: 80, inclusive: true}
	messageComment    = commentStyle{indent: 3, width: 65, inclusive: true}
	stateComment      = commentStyle{indent: 2, width: 70}
	partyComment      = commentStyle{indent: 2, width: 75}
	partyStateComment = commentStyle{indent: 4, width: 70}
)

func (s commentStyle) wraps(text string) bool {
	n := utf8.RuneCountInString(text)
	if s.inclusive {
		return n >= s.width
	}
	return n > s.width
}

// render returns the comment block for text, or "" when text is empty.
func (s commentStyle) render(text string) string {
	if text == "" {
		return ""
	}
	pad := strings.Repeat(" ", s.indent)
	if !s.wraps(text) {
		return pad + "(* " + text + " *)\n"
	}
	lines := wrapWords(text, s.width)
	return pad + "(* " + strings.Join(lines, "\n"+pad+" * ") + "\n" + pad + " *)\n"
}

// wrapWords packs the whitespace-separated words of text greedily onto lines
// of at most width runes. A word longer than width gets a line of its own and
// is not broken.
func wrapWords(text string, width int) []string {
	var (
		lines []string
		line  string
	)
	for _, w := range strings.Fields(text) {
		switch {
		case line == "":
			line = w
		case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(w) <= width:
			line += " " + w
		default:
			lines = append(lines, line)
			line = w
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

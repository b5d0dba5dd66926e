// Package naming validates user-chosen identifiers and comments before they
// reach the generator.
//
// Two identifier rules exist. Upper names (interfaces, messages,
// functionalities, parties, states, sub-functionalities, parameter interfaces,
// composite instances) start with an uppercase letter; lower names (formal
// parameters, ports) start with a lowercase letter. Both reject a UC_/uc_
// prefix, "__", a trailing "_", characters outside [A-Za-z0-9'_] and the
// reserved words of the DSL and its proof assistant.
package naming

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

var (
	ErrUCPrefix           = errors.New("name cannot start with UC_ or uc_")
	ErrUpperLead          = errors.New("name must start with an uppercase letter")
	ErrLowerLead          = errors.New("name must start with a lowercase letter")
	ErrDoubleUnderscore   = errors.New("name cannot contain two consecutive underscores")
	ErrBadCharacter       = errors.New("name cannot contain characters other than letters, digits, ' and _")
	ErrTrailingUnderscore = errors.New("name cannot end in _")
	ErrReserved           = errors.New("name cannot be a reserved word")
	ErrCommentDelimiter   = errors.New("comment cannot contain (* or *)")
)

// reserved holds the DSL keywords followed by the proof assistant's.
var reserved = func() map[string]struct{} {
	words := []string{
		"adversarial", "and", "direct", "ec_requires", "elif", "else", "end",
		"envport", "fail", "functionality", "if", "implements", "in", "initial",
		"intport", "match", "message", "out", "party", "send", "serves",
		"simulates", "simulator", "state", "subfun", "transition", "uc_requires",
		"uses", "var", "with",

		"Pr", "Top", "abbrev", "abstract", "admit", "algebra", "alias", "apply",
		"as", "assert", "assumption", "auto", "axiom", "axiomatized", "beta",
		"by", "byequiv", "byphoare", "bypr", "call", "case", "cbv", "cfold",
		"change", "class", "clear", "clone", "congr", "conseq", "const", "cut",
		"debug", "declare", "delta", "do", "done", "eager", "elim", "equiv",
		"eta", "exact", "exfalso", "exists", "export", "fel", "fission", "for",
		"forall", "fun", "fusion", "glob", "goal", "have", "hint", "hoare",
		"idtac", "import", "include", "inductive", "inline", "instance", "iota",
		"is", "islossless", "kill", "lemma", "let", "local", "logic", "modpath",
		"module", "move", "nosmt", "notation", "of", "op", "phoare", "pose",
		"pr", "pragma", "pred", "print", "proc", "progress", "proof", "prover",
		"qed", "rcondf", "rcondt", "realize", "reflexivity", "remove", "rename",
		"replace", "require", "res", "return", "rewrite", "rnd", "rwnormal",
		"search", "section", "seq", "sim", "simplify", "skip", "smt", "sp",
		"split", "splitwhile", "subst", "suff", "swap", "symmetry", "then",
		"theory", "time", "timeout", "transitivity", "trivial", "try", "type",
		"undo", "unroll", "while", "why3", "wp", "zeta",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// IsReserved reports whether name is a reserved word.
func IsReserved(name string) bool {
	_, ok := reserved[name]
	return ok
}

// Upper checks name against the uppercase identifier rule. The empty name is
// accepted; every violated constraint is reported.
func Upper(name string) error {
	return check(name, "UC_", isUpper, ErrUpperLead)
}

// Lower checks name against the lowercase identifier rule.
func Lower(name string) error {
	return check(name, "uc_", isLower, ErrLowerLead)
}

// Comment rejects comment text that would open or close a DSL comment.
func Comment(text string) error {
	if strings.Contains(text, "(*") || strings.Contains(text, "*)") {
		return ErrCommentDelimiter
	}
	return nil
}

func check(name, prefix string, lead func(byte) bool, errLead error) error {
	if name == "" {
		return nil
	}
	var err error
	if strings.HasPrefix(name, prefix) {
		err = multierr.Append(err, ErrUCPrefix)
	}
	if !lead(name[0]) {
		err = multierr.Append(err, errLead)
	}
	if strings.Contains(name, "__") {
		err = multierr.Append(err, ErrDoubleUnderscore)
	}
	if strings.IndexFunc(name, func(r rune) bool { return !isNameRune(r) }) >= 0 {
		err = multierr.Append(err, ErrBadCharacter)
	}
	if strings.HasSuffix(name, "_") {
		err = multierr.Append(err, ErrTrailingUnderscore)
	}
	if IsReserved(name) {
		err = multierr.Append(err, ErrReserved)
	}
	return err
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

func isNameRune(r rune) bool {
	return r == '\'' || r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// Problem is one rejected name or comment, located by entity.
type Problem struct {
	Entity string // e.g. "basic interface", "state"
	Field  string // "name", "parameter", "port", "comment"
	Value  string
	Err    error
}

func (p *Problem) Error() string {
	return fmt.Sprintf("%s %s %q: %v", p.Entity, p.Field, p.Value, p.Err)
}

func (p *Problem) Unwrap() error { return p.Err }

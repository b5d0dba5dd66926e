package dslgen

import (
	"strings"

	"ucdsl/internal/model"
)

const (
	singleGuardBanner = "(* The below 'if else' branches represent Guards in the UCDSL *)"
	guardDescription  = "Guard Description"
)

// multiGuardBanner is the banner of a clause with several transitions; each
// line is prefixed with the clause body indent.
var multiGuardBanner = []string{
	"(* The below 'if else' branches represent Guards in the UCDSL",
	" * Guards are used to differentiate transitions that may have",
	" * identical 'from' states and 'in' messages *)",
}

// clauseMode selects how one (state, in-message) group is rendered.
type clauseMode int

const (
	plainClause clauseMode = iota
	singleGuardClause
	multiGuardClause
)

func modeOf(group []model.Transition) clauseMode {
	if len(group) > 1 {
		return multiGuardClause
	}
	if len(group) == 1 && group[0].Guard != "" {
		return singleGuardClause
	}
	return plainClause
}

// machineWriter renders the states of one state machine.
type machineWriter struct {
	ix      *model.Index
	route   routing
	indent  int
	comment commentStyle
}

// group is the transitions leaving one state on one in-message.
type group struct {
	inMessage   string
	transitions []model.Transition
}

// groupByInMessage keeps the first-seen order of in-messages and the model
// order of transitions inside each group.
func groupByInMessage(ts []model.Transition) []group {
	var groups []group
	pos := make(map[string]int)
	for _, t := range ts {
		i, ok := pos[t.InMessage]
		if !ok {
			i = len(groups)
			pos[t.InMessage] = i
			groups = append(groups, group{inMessage: t.InMessage})
		}
		groups[i].transitions = append(groups[i].transitions, t)
	}
	return groups
}

// write emits every state of machine id: the initial state first, then the
// remaining states in stored order. An unknown machine emits nothing.
func (w machineWriter) write(b *strings.Builder, id string) {
	sm, ok := w.ix.Machine(id)
	if !ok {
		return
	}
	w.state(b, sm, sm.InitState, true)
	for _, sid := range sm.States {
		if sid == sm.InitState {
			continue
		}
		w.state(b, sm, sid, false)
	}
}

func (w machineWriter) state(b *strings.Builder, sm model.StateMachine, id string, initial bool) {
	st, ok := w.ix.State(id)
	if !ok && !initial {
		return
	}
	var outgoing []model.Transition
	if ok {
		outgoing = w.ix.Transitions(sm, st.ID)
	}
	pad := strings.Repeat(" ", w.indent)

	b.WriteString(w.comment.render(st.Comment))
	if initial {
		b.WriteString(pad + "initial state " + orPlaceholder(st.Name) + " {\n")
	} else {
		b.WriteString(pad + "state " + orPlaceholder(st.Name) + formatArgs(st.Parameters, paramDecl) + " {\n")
	}
	b.WriteString(pad + "  match message with\n")

	clause := w.indent + 2
	for _, g := range groupByInMessage(outgoing) {
		w.clause(b, clause, g)
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat(" ", clause) + "| * => { fail. }\n")
	b.WriteString(pad + "  end\n")
	b.WriteString(pad + "}\n\n")
}

// clause emits one "| msg => { ... }" block at column c.
func (w machineWriter) clause(b *strings.Builder, c int, g group) {
	pad := strings.Repeat(" ", c)
	body := strings.Repeat(" ", c+4)

	b.WriteString(pad + "| " + w.route.receive(resolve(w.ix, g.inMessage)) + " => {\n")

	switch modeOf(g.transitions) {
	case plainClause:
		w.action(b, c+4, g.transitions[0])
	case singleGuardClause:
		t := g.transitions[0]
		b.WriteString(body + singleGuardBanner + "\n")
		b.WriteString(body + "if () { (* " + t.Guard + " *)\n")
		w.action(b, c+6, t)
		b.WriteString(body + "} else { fail. }\n")
	case multiGuardClause:
		for _, line := range multiGuardBanner {
			b.WriteString(body + line + "\n")
		}
		for i, t := range g.transitions {
			guard := t.Guard
			if guard == "" {
				guard = guardDescription
			}
			if i == 0 {
				b.WriteString(body + "if () { (* " + guard + " *)\n")
			} else {
				b.WriteString(body + "} elif () { (* " + guard + " *)\n")
			}
			w.action(b, c+6, t)
		}
		b.WriteString(body + "} else { fail. }\n")
	}

	b.WriteString(pad + "}\n")
}

// action emits the send and transition statements of t at column c.
func (w machineWriter) action(b *strings.Builder, c int, t model.Transition) {
	pad := strings.Repeat(" ", c)
	if t.Name != "" {
		b.WriteString(pad + "(* Transition Name: " + t.Name + " *)\n")
	}
	b.WriteString(pad + "send " + w.route.send(resolve(w.ix, t.OutMessage), t) + "\n")

	target := placeholder
	if st, ok := w.ix.State(t.ToState); ok {
		target = orPlaceholder(st.Name) + formatArgs(t.ToStateArguments, argValue)
	}
	b.WriteString(pad + "and transition " + target + ".\n")
}

package dslgen

import (
	"strings"

	"ucdsl/internal/model"
)

// Ideal functionality and party machines fill in missing ports.
var functionalityRouting = routing{placeholders: true}

// idealFunctionalityBlock emits
//
//	functionality F implements CompDir Adv { <states> }
func idealFunctionalityBlock(ix *model.Index) string {
	m := ix.Model()
	f := m.IdealFunctionality

	var b strings.Builder
	b.WriteString("(* Ideal functionality *)\n")
	b.WriteString("functionality " + f.Name + " implements")
	if c, ok := ix.Composite(f.CompositeDirectInterface); ok {
		b.WriteString(" " + c.Name)
	}
	if a, ok := ix.Basic(f.BasicAdversarialInterface); ok {
		b.WriteString(" " + a.Name)
	}
	b.WriteString(" {\n\n")

	machineWriter{
		ix:      ix,
		route:   functionalityRouting,
		indent:  2,
		comment: stateComment,
	}.write(&b, f.StateMachine)

	b.WriteString("}\n\n")
	return b.String()
}

// realFunctionalityActive reports whether the model has a real functionality
// worth emitting: at least one party or sub-functionality.
func realFunctionalityActive(m *model.Model) bool {
	return len(m.Parties.Parties) > 0 || len(m.Subfunctionalities.Subfunctionalities) > 0
}

// realFunctionalityBlock emits the real functionality header, sub-functionality
// declarations and one party block per party id.
func realFunctionalityBlock(ix *model.Index) string {
	m := ix.Model()
	rf := m.RealFunctionality
	compDir, hasDir := ix.Composite(rf.CompositeDirectInterface)
	compAdv, hasAdv := ix.Composite(rf.CompositeAdversarialInterface)

	var b strings.Builder
	b.WriteString("(* Real Functionality *)\n")
	b.WriteString("functionality " + rf.Name + formatArgs(rf.ParameterInterfaces, parameterDecl) + " implements")
	if hasDir {
		b.WriteString(" " + compDir.Name)
	}
	if hasAdv {
		b.WriteString(" " + compAdv.Name)
	}
	b.WriteString(" {\n")

	if subs := m.Subfunctionalities.Subfunctionalities; len(subs) > 0 {
		b.WriteString("\n  (* Subfunctionalities *)\n")
		for _, sf := range subs {
			b.WriteString("  subfun " + sf.Name + " = " + sf.IdealFuncModel + "." + sf.IdealFunctionalityName + "\n")
		}
	}

	pw := machineWriter{
		ix:      ix,
		route:   functionalityRouting,
		indent:  4,
		comment: partyStateComment,
	}
	for _, id := range rf.Parties {
		p, ok := ix.Party(id)
		if !ok {
			continue
		}
		b.WriteString("\n  (* Party *)\n")
		b.WriteString(partyComment.render(p.Comment))
		b.WriteString("  party " + p.Name + " serves")
		if inst, ok := model.Instance(compDir, p.BasicDirectInterface); ok && hasDir {
			b.WriteString(" " + compDir.Name + "." + inst.Name)
		}
		if inst, ok := model.Instance(compAdv, p.BasicAdversarialInterface); ok && hasAdv {
			b.WriteString(" " + compAdv.Name + "." + inst.Name)
		}
		b.WriteString(" {\n")
		pw.write(&b, p.StateMachine)
		b.WriteString("  }\n\n")
	}

	b.WriteString("}\n\n")
	return b.String()
}

func parameterDecl(p model.ParameterInterface) string {
	return p.Name + " : " + p.ModelName + "." + p.CompInterName
}

// simulatorActive reports whether the simulator block is emitted: it needs
// an adversarial interface and an active real functionality.
func simulatorActive(m *model.Model) bool {
	return m.Simulator.BasicAdversarialInterface != "" && realFunctionalityActive(m)
}

// simulatorBlock emits
//
//	simulator S uses Adv simulates RF(Model.IdealFunc, ...) { <states> }
//
// Direct messages in the simulator's machine are qualified with the real
// functionality name and never receive port placeholders.
func simulatorBlock(ix *model.Index) string {
	m := ix.Model()
	sim := m.Simulator

	realFunc := placeholder
	if sim.RealFunctionality != "" {
		realFunc = orPlaceholder(m.RealFunctionality.Name)
	}
	adv := placeholder
	if a, ok := ix.Basic(sim.BasicAdversarialInterface); ok {
		adv = a.Name
	}

	var b strings.Builder
	b.WriteString("(* Simulator *)\n")
	b.WriteString("simulator " + sim.Name + " uses " + adv + " simulates " + realFunc)
	b.WriteString(formatArgs(m.RealFunctionality.ParameterInterfaces, func(p model.ParameterInterface) string {
		if p.ModelName == "" {
			return placeholder + "." + placeholder
		}
		name, ok := ix.Snapshot().IdealFunctionalityOf(p.ModelName)
		if !ok {
			name = placeholder
		}
		return p.ModelName + "." + name
	}))
	b.WriteString(" {\n\n")

	machineWriter{
		ix:      ix,
		route:   routing{realFunc: realFunc, externalByBasic: true},
		indent:  2,
		comment: stateComment,
	}.write(&b, sim.StateMachine)

	b.WriteString("}\n\n")
	return b.String()
}

// requiresBlock lists the models this model depends on: sub-functionality
// models first, then parameter-interface models. Missing names render as
// FILENAME. Empty when nothing is imported.
func requiresBlock(m *model.Model) string {
	var files []string
	for _, sf := range m.Subfunctionalities.Subfunctionalities {
		files = append(files, fileName(sf.IdealFuncModel))
	}
	for _, pi := range m.RealFunctionality.ParameterInterfaces {
		files = append(files, fileName(pi.ModelName))
	}
	if len(files) == 0 {
		return ""
	}
	return "(* You have made use of other models in this model. You must include the following:\n" +
		" * uc_requires " + strings.Join(files, " ") + ".\n" +
		" *)\n\n"
}

func fileName(name string) string {
	if name == "" {
		return "FILENAME"
	}
	return name
}

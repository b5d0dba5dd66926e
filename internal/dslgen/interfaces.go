package dslgen

import (
	"strings"

	"ucdsl/internal/model"
)

// interfacesBlock emits every basic interface and then every composite
// interface, in model order.
func interfacesBlock(ix *model.Index) string {
	var b strings.Builder
	m := ix.Model()
	for _, bi := range m.Interfaces.BasicInters {
		basicInterface(&b, ix, bi)
	}
	for _, ci := range m.Interfaces.CompInters {
		compositeInterface(&b, ix, ci)
	}
	return b.String()
}

// keyword is the DSL keyword for an interface kind. Anything that is not
// adversarial is rendered as direct.
func keyword(k model.InterfaceKind) string {
	if k == model.Adversarial {
		return "adversarial"
	}
	return "direct"
}

func basicInterface(b *strings.Builder, ix *model.Index, bi model.BasicInterface) {
	kw := keyword(bi.Type)
	b.WriteString("(* Basic " + kw + " interface *)\n")
	b.WriteString(interfaceComment.render(bi.Comment))
	b.WriteString(kw + " " + bi.Name + " {\n")
	for _, id := range bi.Messages {
		msg, ok := ix.Message(id)
		if !ok {
			continue
		}
		b.WriteString(messageComment.render(msg.Comment))
		b.WriteString("   " + messageLine(msg, kw == "direct") + "\n")
	}
	b.WriteString("}\n\n")
}

// messageLine renders a message declaration. Direct in-messages carry their
// port as a prefix, direct out-messages as a suffix.
func messageLine(msg model.Message, direct bool) string {
	name := orPlaceholder(msg.Name)
	params := formatArgs(msg.Parameters, paramDecl)
	port := orPlaceholder(msg.Port)
	out := msg.Type == model.Out
	switch {
	case !direct && out:
		return "out " + name + params
	case !direct:
		return "in " + name + params
	case out:
		return "out " + name + params + "@" + port
	default:
		return "in " + port + "@" + name + params
	}
}

func compositeInterface(b *strings.Builder, ix *model.Index, ci model.CompositeInterface) {
	kw := keyword(ci.Type)
	b.WriteString("(* Composite " + kw + " interface *)\n")
	b.WriteString(interfaceComment.render(ci.Comment))
	b.WriteString(kw + " " + ci.Name + " {\n")
	for _, inst := range ci.BasicInterfaces {
		basic, ok := ix.Basic(inst.IDOfBasic)
		if !ok {
			continue
		}
		b.WriteString("   " + inst.Name + " : " + basic.Name + "\n")
	}
	b.WriteString("}\n\n")
}

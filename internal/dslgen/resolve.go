package dslgen

import (
	"ucdsl/internal/model"
)

// placeholder is rendered wherever a name, port or reference is missing.
const placeholder = "undefined"

// Namespace says which of the overlapping message namespaces a reference
// resolved in.
type Namespace int

const (
	Unresolved Namespace = iota
	Plain
	SubFunc
	ParamInterface
)

func (n Namespace) String() string {
	switch n {
	case Plain:
		return "plain"
	case SubFunc:
		return "subfunctionality"
	case ParamInterface:
		return "parameter-interface"
	}
	return "unresolved"
}

// external reports whether the message lives in another model.
func (n Namespace) external() bool { return n == SubFunc || n == ParamInterface }

// Ref is a resolved message reference.
//
// For Plain refs Composite and Instance are set only when the owning basic
// interface is embedded in a composite. For SubFunc and ParamInterface refs
// Owner is the name of the exposing sub-functionality or parameter interface.
type Ref struct {
	Namespace   Namespace
	Name        string
	Port        string
	Adversarial bool
	Parameters  []model.Param

	Owner     string
	Composite string
	Instance  string
	Basic     string
}

// resolve looks up a message id: sub-functionality messages first, then
// parameter-interface messages, then the model's own interfaces.
func resolve(ix *model.Index, id string) Ref {
	if id == "" {
		return Ref{Name: placeholder}
	}
	if em, ok := ix.SubFuncMessage(id); ok {
		ref := externalRef(em, SubFunc)
		if sf, ok := ix.SubFunctionality(em.Owner); ok {
			ref.Owner = sf.Name
		}
		return ref
	}
	if em, ok := ix.ParamInterMessage(id); ok {
		ref := externalRef(em, ParamInterface)
		if pi, ok := ix.ParameterInterface(em.Owner); ok {
			ref.Owner = pi.Name
		}
		return ref
	}
	msg, ok := ix.Message(id)
	if !ok {
		return Ref{Name: placeholder}
	}
	ref := Ref{
		Namespace:  Plain,
		Name:       orPlaceholder(msg.Name),
		Port:       msg.Port,
		Parameters: msg.Parameters,
	}
	if basic, ok := ix.OwnerOf(id); ok {
		ref.Basic = basic.Name
		ref.Adversarial = basic.Type == model.Adversarial
		if comp, inst, ok := ix.EmbeddingOf(basic.ID); ok {
			ref.Composite = comp.Name
			ref.Instance = inst.Name
		}
	}
	return ref
}

func externalRef(em model.ExternalMessage, ns Namespace) Ref {
	ref := Ref{
		Namespace:   ns,
		Name:        orPlaceholder(em.Message.Name),
		Adversarial: em.Basic.Type == model.Adversarial,
		Parameters:  em.Message.Parameters,
		Basic:       em.Basic.Name,
	}
	if inst, ok := model.InstanceOfBasic(em.Composite, em.Basic.ID); ok {
		ref.Instance = inst.Name
		ref.Composite = em.Composite.Name
	}
	return ref
}

// routing is the per-emitter policy for qualifying traces and filling in
// missing ports.
type routing struct {
	// placeholders adds "undefined@" / "@undefined" to direct plain messages
	// that carry no port.
	placeholders bool
	// realFunc, when set, qualifies direct plain traces with the real
	// functionality name and renders adversarial plain traces as Basic.Msg.
	realFunc string
	// externalByBasic renders external traces as Owner.Basic.Msg instead of
	// Owner.Instance.Msg.
	externalByBasic bool
}

// trace is the dotted name of ref under r.
func (r routing) trace(ref Ref) string {
	switch ref.Namespace {
	case Unresolved:
		return placeholder
	case SubFunc, ParamInterface:
		mid := ref.Instance
		if r.externalByBasic || mid == "" {
			mid = ref.Basic
		}
		return orPlaceholder(ref.Owner) + "." + mid + "." + ref.Name
	}
	if r.realFunc != "" {
		switch {
		case ref.Adversarial:
			return orPlaceholder(ref.Basic) + "." + ref.Name
		case ref.Composite != "":
			return r.realFunc + "." + ref.Composite + "." + ref.Instance + "." + ref.Name
		default:
			return r.realFunc + "." + orPlaceholder(ref.Basic) + "." + ref.Name
		}
	}
	if ref.Composite != "" {
		return ref.Composite + "." + ref.Instance + "." + ref.Name
	}
	return orPlaceholder(ref.Basic) + "." + ref.Name
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

// receive renders the left side of a match clause: [port@]trace(params).
func (r routing) receive(ref Ref) string {
	prefix := ""
	switch {
	case ref.Namespace.external():
	case ref.Port != "":
		prefix = ref.Port + "@"
	case ref.Adversarial:
	case r.placeholders:
		prefix = placeholder + "@"
	}
	return prefix + r.trace(ref) + formatArgs(ref.Parameters, paramName)
}

// send renders the target of a send: trace(args)[@port].
func (r routing) send(ref Ref, t model.Transition) string {
	args := ""
	if t.OutMessage != "" {
		args = formatArgs(t.OutMessageArguments, argValue)
	}
	suffix := ""
	switch {
	case t.TargetPort != "":
		suffix = "@" + t.TargetPort
	case ref.Namespace.external():
	case ref.Adversarial:
	case r.placeholders:
		suffix = "@" + placeholder
	}
	return r.trace(ref) + args + suffix
}

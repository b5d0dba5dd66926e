package model

import (
	"github.com/benbjohnson/immutable"
	"github.com/segmentio/fasthash/fnv1a"
)

// stringHasher hashes entity ids for the immutable index maps.
type stringHasher struct{}

var _ immutable.Hasher[string] = stringHasher{}

func (stringHasher) Hash(key string) uint32 {
	return fnv1a.HashString32(key)
}

func (stringHasher) Equal(a, b string) bool {
	return a == b
}

// embedding records where a basic interface first appears inside a composite.
type embedding struct {
	composite CompositeInterface
	instance  BasicInstance
}

// Index is a read-only id arena over a Snapshot. It is built once per
// generation and shared by every emitter; duplicate ids keep the first entry.
type Index struct {
	snap *Snapshot

	messages    *immutable.Map[string, Message]
	basics      *immutable.Map[string, BasicInterface]
	composites  *immutable.Map[string, CompositeInterface]
	owners      *immutable.Map[string, BasicInterface]
	embeddings  *immutable.Map[string, embedding]
	parties     *immutable.Map[string, Party]
	machines    *immutable.Map[string, StateMachine]
	states      *immutable.Map[string, State]
	subfuncs    *immutable.Map[string, SubFunctionality]
	paramInters *immutable.Map[string, ParameterInterface]
	subMsgs     *immutable.Map[string, ExternalMessage]
	paramMsgs   *immutable.Map[string, ExternalMessage]
}

// NewIndex builds the index for s. A nil model is treated as empty.
func NewIndex(s *Snapshot) *Index {
	if s == nil {
		s = &Snapshot{}
	}
	if s.Model == nil {
		s = &Snapshot{
			Model:                &Model{},
			SubFuncMessages:      s.SubFuncMessages,
			ParamInterMessages:   s.ParamInterMessages,
			IdealFunctionalities: s.IdealFunctionalities,
		}
	}
	m := s.Model

	messages := newBuilder[Message]()
	for _, msg := range m.Interfaces.Messages {
		messages.add(msg.ID, msg)
	}
	basics := newBuilder[BasicInterface]()
	owners := newBuilder[BasicInterface]()
	for _, b := range m.Interfaces.BasicInters {
		basics.add(b.ID, b)
		for _, id := range b.Messages {
			owners.add(id, b)
		}
	}
	composites := newBuilder[CompositeInterface]()
	embeddings := newBuilder[embedding]()
	for _, c := range m.Interfaces.CompInters {
		composites.add(c.ID, c)
		for _, inst := range c.BasicInterfaces {
			embeddings.add(inst.IDOfBasic, embedding{composite: c, instance: inst})
		}
	}
	parties := newBuilder[Party]()
	for _, p := range m.Parties.Parties {
		parties.add(p.ID, p)
	}
	machines := newBuilder[StateMachine]()
	for _, sm := range m.StateMachines.StateMachines {
		machines.add(sm.ID, sm)
	}
	states := newBuilder[State]()
	for _, st := range m.StateMachines.States {
		states.add(st.ID, st)
	}
	subfuncs := newBuilder[SubFunctionality]()
	for _, sf := range m.Subfunctionalities.Subfunctionalities {
		subfuncs.add(sf.ID, sf)
	}
	paramInters := newBuilder[ParameterInterface]()
	for _, pi := range m.RealFunctionality.ParameterInterfaces {
		paramInters.add(pi.ID, pi)
	}
	subMsgs := newBuilder[ExternalMessage]()
	for _, em := range s.SubFuncMessages {
		subMsgs.add(em.Message.ID, em)
	}
	paramMsgs := newBuilder[ExternalMessage]()
	for _, em := range s.ParamInterMessages {
		paramMsgs.add(em.Message.ID, em)
	}

	return &Index{
		snap:        s,
		messages:    messages.Map(),
		basics:      basics.Map(),
		composites:  composites.Map(),
		owners:      owners.Map(),
		embeddings:  embeddings.Map(),
		parties:     parties.Map(),
		machines:    machines.Map(),
		states:      states.Map(),
		subfuncs:    subfuncs.Map(),
		paramInters: paramInters.Map(),
		subMsgs:     subMsgs.Map(),
		paramMsgs:   paramMsgs.Map(),
	}
}

// builder wraps immutable.MapBuilder with first-wins insertion.
type builder[V any] struct {
	*immutable.MapBuilder[string, V]
}

func newBuilder[V any]() builder[V] {
	return builder[V]{immutable.NewMapBuilder[string, V](stringHasher{})}
}

func (b builder[V]) add(id string, v V) {
	if id == "" {
		return
	}
	if _, ok := b.Get(id); ok {
		return
	}
	b.Set(id, v)
}

// Snapshot returns the snapshot the index was built from.
func (ix *Index) Snapshot() *Snapshot { return ix.snap }

// Model returns the indexed model.
func (ix *Index) Model() *Model { return ix.snap.Model }

func (ix *Index) Message(id string) (Message, bool)      { return ix.messages.Get(id) }
func (ix *Index) Basic(id string) (BasicInterface, bool) { return ix.basics.Get(id) }
func (ix *Index) Party(id string) (Party, bool)          { return ix.parties.Get(id) }
func (ix *Index) Machine(id string) (StateMachine, bool) { return ix.machines.Get(id) }
func (ix *Index) State(id string) (State, bool)          { return ix.states.Get(id) }

func (ix *Index) Composite(id string) (CompositeInterface, bool) {
	return ix.composites.Get(id)
}

func (ix *Index) SubFunctionality(id string) (SubFunctionality, bool) {
	return ix.subfuncs.Get(id)
}

func (ix *Index) ParameterInterface(id string) (ParameterInterface, bool) {
	return ix.paramInters.Get(id)
}

// SubFuncMessage looks up a message exposed by a sub-functionality.
func (ix *Index) SubFuncMessage(id string) (ExternalMessage, bool) {
	return ix.subMsgs.Get(id)
}

// ParamInterMessage looks up a message exposed by a parameter interface.
func (ix *Index) ParamInterMessage(id string) (ExternalMessage, bool) {
	return ix.paramMsgs.Get(id)
}

// OwnerOf returns the basic interface that lists message id.
func (ix *Index) OwnerOf(id string) (BasicInterface, bool) {
	return ix.owners.Get(id)
}

// EmbeddingOf returns the first composite interface that embeds the basic
// interface basicID, together with the embedding instance.
func (ix *Index) EmbeddingOf(basicID string) (CompositeInterface, BasicInstance, bool) {
	e, ok := ix.embeddings.Get(basicID)
	return e.composite, e.instance, ok
}

// Instance finds the member of composite c whose instance id is instanceID.
func Instance(c CompositeInterface, instanceID string) (BasicInstance, bool) {
	if instanceID == "" {
		return BasicInstance{}, false
	}
	for _, inst := range c.BasicInterfaces {
		if inst.IDOfInstance == instanceID {
			return inst, true
		}
	}
	return BasicInstance{}, false
}

// InstanceOfBasic finds the first member of composite c that instantiates
// the basic interface basicID.
func InstanceOfBasic(c *CompositeInterface, basicID string) (BasicInstance, bool) {
	if c == nil {
		return BasicInstance{}, false
	}
	for _, inst := range c.BasicInterfaces {
		if inst.IDOfBasic == basicID {
			return inst, true
		}
	}
	return BasicInstance{}, false
}

// Transitions returns the transitions of sm whose source is stateID, in the
// order they appear in the model's transition list.
func (ix *Index) Transitions(sm StateMachine, stateID string) []Transition {
	member := make(map[string]struct{}, len(sm.Transitions))
	for _, id := range sm.Transitions {
		member[id] = struct{}{}
	}
	var out []Transition
	for _, t := range ix.snap.Model.StateMachines.Transitions {
		if _, ok := member[t.ID]; !ok {
			continue
		}
		if t.FromState == stateID {
			out = append(out, t)
		}
	}
	return out
}

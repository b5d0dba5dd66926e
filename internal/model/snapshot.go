package model

// ExternalMessage is a message defined in another model and exposed under a
// sub-functionality or parameter-interface namespace of this one.
//
// Owner is the id of the SubFunctionality or ParameterInterface that exposes
// the message. Composite is the composite interface (of the foreign model)
// that embeds Basic; it is nil when the message was reached through an
// adversarial basic interface.
type ExternalMessage struct {
	Message   Message
	Owner     string
	Composite *CompositeInterface
	Basic     BasicInterface
}

// IdealFunctionalityRef is catalog metadata for an ideal functionality
// defined in some model.
type IdealFunctionalityRef struct {
	ModelID   string `yaml:"modelId"`
	ModelName string `yaml:"modelName"`
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
}

// Snapshot is everything the generator reads: the model itself plus the
// cross-model lookups a catalog resolved for it. A zero Snapshot with only
// Model set is valid; unresolved references degrade to placeholders.
type Snapshot struct {
	Model                *Model
	SubFuncMessages      []ExternalMessage
	ParamInterMessages   []ExternalMessage
	IdealFunctionalities []IdealFunctionalityRef
}

// NewSnapshot wraps m without any cross-model data.
func NewSnapshot(m *Model) *Snapshot {
	return &Snapshot{Model: m}
}

// IdealFunctionalityOf returns the name of the ideal functionality of the
// model named modelName, as known to the snapshot.
func (s *Snapshot) IdealFunctionalityOf(modelName string) (string, bool) {
	for _, ref := range s.IdealFunctionalities {
		if ref.ModelName == modelName {
			return ref.Name, true
		}
	}
	return "", false
}

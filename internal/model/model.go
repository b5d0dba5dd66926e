package model

// model.go: UC protocol model as stored by the editor.
//
// The on-disk shape is {"model": {...}} exactly as the editor backend writes
// it (JSON, two-space indent). YAML is accepted too since yaml.v3 reads both.
// All types are plain values; nothing in this package mutates a loaded model.

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned by Load and Save for unknown file extensions.
var ErrUnsupportedFormat = errors.New("model: unsupported file format")

// ---------------------------------------------------------------------------
// Enumerations
// ---------------------------------------------------------------------------

// InterfaceKind distinguishes direct (environment-facing) from adversarial interfaces.
type InterfaceKind string

const (
	Direct      InterfaceKind = "direct"
	Adversarial InterfaceKind = "adversarial"
)

// Direction is the direction of a message relative to its interface.
type Direction string

const (
	In  Direction = "in"
	Out Direction = "out"
)

// ---------------------------------------------------------------------------
// Interfaces
// ---------------------------------------------------------------------------

// Document is the top-level wrapper of a model file.
type Document struct {
	Model Model `yaml:"model"`
}

// Model is one UC protocol model: interfaces, functionalities, parties and
// the state machines that drive them.
type Model struct {
	ID                 string             `yaml:"id"`
	Name               string             `yaml:"name"`
	Interfaces         Interfaces         `yaml:"interfaces"`
	IdealFunctionality IdealFunctionality `yaml:"idealFunctionality"`
	RealFunctionality  RealFunctionality  `yaml:"realFunctionality"`
	Parties            Parties            `yaml:"parties"`
	StateMachines      StateMachines      `yaml:"stateMachines"`
	Simulator          Simulator          `yaml:"simulator"`
	Subfunctionalities Subfunctionalities `yaml:"subfunctionalities"`
}

// Interfaces groups basic interfaces, composite interfaces and the messages
// the basic interfaces own.
type Interfaces struct {
	BasicInters []BasicInterface     `yaml:"basicInters"`
	CompInters  []CompositeInterface `yaml:"compInters"`
	Messages    []Message            `yaml:"messages"`
}

// BasicInterface owns an ordered list of message ids.
type BasicInterface struct {
	ID       string        `yaml:"id"`
	Name     string        `yaml:"name"`
	Type     InterfaceKind `yaml:"type"`
	Messages []string      `yaml:"messages"`
	Comment  string        `yaml:"interfaceComment"`
}

// Message is a single in or out message. Port is only meaningful for
// messages of direct interfaces.
type Message struct {
	ID         string    `yaml:"id"`
	Name       string    `yaml:"name"`
	Type       Direction `yaml:"type"`
	Parameters []Param   `yaml:"parameters"`
	Port       string    `yaml:"port,omitempty"`
	Comment    string    `yaml:"messageComment"`
}

// Param is a named, typed formal parameter of a message or state.
type Param struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// CompositeInterface bundles named instances of basic interfaces.
type CompositeInterface struct {
	ID              string          `yaml:"id"`
	Name            string          `yaml:"name"`
	Type            InterfaceKind   `yaml:"type"`
	BasicInterfaces []BasicInstance `yaml:"basicInterfaces"`
	Comment         string          `yaml:"interfaceComment"`
}

// BasicInstance is one labeled member of a composite interface. The same
// basic interface may appear several times under different instance names.
type BasicInstance struct {
	IDOfBasic    string `yaml:"idOfBasic"`
	IDOfInstance string `yaml:"idOfInstance"`
	Name         string `yaml:"name"`
}

// ---------------------------------------------------------------------------
// Functionalities and parties
// ---------------------------------------------------------------------------

// IdealFunctionality implements a composite direct interface and a basic
// adversarial interface with a single state machine.
type IdealFunctionality struct {
	ID                        string `yaml:"id"`
	Name                      string `yaml:"name"`
	CompositeDirectInterface  string `yaml:"compositeDirectInterface"`
	BasicAdversarialInterface string `yaml:"basicAdversarialInterface"`
	StateMachine              string `yaml:"stateMachine"`
}

// RealFunctionality is the multi-party protocol. Parties holds party ids.
type RealFunctionality struct {
	ID                            string               `yaml:"id,omitempty"`
	Name                          string               `yaml:"name"`
	CompositeDirectInterface      string               `yaml:"compositeDirectInterface"`
	CompositeAdversarialInterface string               `yaml:"compositeAdversarialInterface"`
	ParameterInterfaces           []ParameterInterface `yaml:"parameterInterfaces"`
	Parties                       []string             `yaml:"parties"`
}

// ParameterInterface binds a functionality parameter to a composite direct
// interface of another model.
type ParameterInterface struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	IDOfInterface string `yaml:"idOfInterface"`
	CompInterName string `yaml:"compInterName"`
	ModelName     string `yaml:"modelName"`
	Color         string `yaml:"color,omitempty"`
}

// Parties is the party collection of a model.
type Parties struct {
	Parties []Party `yaml:"parties"`
}

// Party is one participant of the real functionality. The interface fields
// hold instance ids (BasicInstance.IDOfInstance) of the real functionality's
// composite interfaces.
type Party struct {
	ID                        string `yaml:"id"`
	Name                      string `yaml:"name"`
	BasicDirectInterface      string `yaml:"basicDirectInterface"`
	BasicAdversarialInterface string `yaml:"basicAdversarialInterface"`
	StateMachine              string `yaml:"stateMachine"`
	Comment                   string `yaml:"comment"`
}

// Simulator translates real-world adversary behaviour into the ideal world.
// RealFunctionality is only tested for presence.
type Simulator struct {
	Name                      string `yaml:"name"`
	BasicAdversarialInterface string `yaml:"basicAdversarialInterface"`
	RealFunctionality         string `yaml:"realFunctionality"`
	StateMachine              string `yaml:"stateMachine"`
}

// Subfunctionalities is the sub-functionality collection of a model.
type Subfunctionalities struct {
	Subfunctionalities []SubFunctionality `yaml:"subfunctionalities"`
}

// SubFunctionality references the ideal functionality of another model.
type SubFunctionality struct {
	ID                     string `yaml:"id"`
	Name                   string `yaml:"name"`
	IdealFunctionalityID   string `yaml:"idealFunctionalityId"`
	IdealFunctionalityName string `yaml:"idealFunctionalityName"`
	IdealFuncModel         string `yaml:"idealFuncModel"`
	Color                  string `yaml:"color,omitempty"`
}

// ---------------------------------------------------------------------------
// State machines
// ---------------------------------------------------------------------------

// StateMachines holds every machine, state and transition of a model.
// Machines refer to states and transitions by id.
type StateMachines struct {
	StateMachines []StateMachine `yaml:"stateMachines"`
	States        []State        `yaml:"states"`
	Transitions   []Transition   `yaml:"transitions"`
}

// StateMachine is owned by a party, the ideal functionality or the simulator.
type StateMachine struct {
	ID          string   `yaml:"id"`
	InitState   string   `yaml:"initState"`
	States      []string `yaml:"states"`
	Transitions []string `yaml:"transitions"`
}

// State is a named state with optional formal parameters.
type State struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	Parameters []Param `yaml:"parameters"`
	Comment    string  `yaml:"comment"`
}

// Transition moves from FromState to ToState on InMessage, sending
// OutMessage. Guard is descriptive text only.
type Transition struct {
	ID                  string `yaml:"id"`
	Name                string `yaml:"name,omitempty"`
	FromState           string `yaml:"fromState"`
	ToState             string `yaml:"toState"`
	InMessage           string `yaml:"inMessage"`
	OutMessage          string `yaml:"outMessage"`
	OutMessageArguments []Arg  `yaml:"outMessageArguments"`
	ToStateArguments    []Arg  `yaml:"toStateArguments"`
	Guard               string `yaml:"guard"`
	TargetPort          string `yaml:"targetPort,omitempty"`
}

// Arg is an actual argument expression.
type Arg struct {
	ArgValue string `yaml:"argValue"`
}

// ---------------------------------------------------------------------------
// Loading and saving
// ---------------------------------------------------------------------------

// Parse decodes a model document from JSON or YAML bytes.
func Parse(data []byte) (*Model, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("model: decode: %w", err)
	}
	return &doc.Model, nil
}

// Load reads a model file (.json, .yaml or .yml).
func Load(path string) (*Model, error) {
	if !IsModelFile(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return m, nil
}

// Save writes m to path as YAML, creating parent directories as needed.
// Only .yaml and .yml targets are written.
func Save(m *Model, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	data, err := yaml.Marshal(Document{Model: *m})
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// IsModelFile reports whether path has a model file extension.
func IsModelFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// NameFromPath returns the model name implied by a file name: the base name
// without its extension.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

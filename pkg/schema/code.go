package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aretw0/automaton/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Code is the serialized form of an automaton.
type Code struct {
	Type      domain.Kind `json:"type" yaml:"type"`
	Automaton Definition  `json:"automaton" yaml:"automaton"`
}

// Definition holds the structure of the automaton keyed by state name.
type Definition struct {
	Alphabet      []string            `json:"alphabet" yaml:"alphabet"`
	StackAlphabet []string            `json:"stackAlphabet,omitempty" yaml:"stackAlphabet,omitempty"`
	States        map[string]StateDef `json:"states" yaml:"states"`
	Initial       string              `json:"initial" yaml:"initial"`
	Finals        []string            `json:"finals" yaml:"finals"`
}

// StateDef is a single state of the serialized automaton.
type StateDef struct {
	Position    *domain.Position           `json:"position,omitempty" yaml:"position,omitempty"`
	Transitions map[string][]TransitionDef `json:"transitions,omitempty" yaml:"transitions,omitempty"`
}

// TransitionDef is one transition label. FSM labels serialize as a bare symbol,
// PDA labels as an {input, top, push} object.
type TransitionDef struct {
	Input string   `json:"input" yaml:"input"`
	Top   string   `json:"top,omitempty" yaml:"top,omitempty"`
	Push  []string `json:"push,omitempty" yaml:"push,omitempty"`
}

// pdaTransition is TransitionDef without custom codecs.
type pdaTransition TransitionDef

func (t TransitionDef) isSymbol() bool {
	return t.Top == "" && len(t.Push) == 0
}

func (t TransitionDef) MarshalJSON() ([]byte, error) {
	if t.isSymbol() {
		return json.Marshal(t.Input)
	}
	return json.Marshal(pdaTransition(t))
}

func (t *TransitionDef) UnmarshalJSON(data []byte) error {
	var symbol string
	if err := json.Unmarshal(data, &symbol); err == nil {
		*t = TransitionDef{Input: symbol}
		return nil
	}
	var obj pdaTransition
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("transition must be a symbol or an {input, top, push} object: %w", err)
	}
	*t = TransitionDef(obj)
	return nil
}

func (t TransitionDef) MarshalYAML() (any, error) {
	if t.isSymbol() {
		return t.Input, nil
	}
	return pdaTransition(t), nil
}

func (t *TransitionDef) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*t = TransitionDef{Input: value.Value}
		return nil
	}
	var obj pdaTransition
	if err := value.Decode(&obj); err != nil {
		return fmt.Errorf("transition must be a symbol or an {input, top, push} object: %w", err)
	}
	*t = TransitionDef(obj)
	return nil
}

// Label converts the serialized transition into its domain form.
func (t TransitionDef) Label() domain.Label {
	return domain.Label{Input: t.Input, Pop: t.Top, Push: t.Push}
}

// FromLabel converts a domain label into its serialized form.
func FromLabel(l domain.Label) TransitionDef {
	return TransitionDef{Input: l.Input, Top: l.Pop, Push: l.Push}
}

// Parse decodes code from JSON or YAML. Documents starting with '{' are read as JSON.
func Parse(data []byte) (*Code, error) {
	var code Code
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty automaton document")
	}

	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &code); err != nil {
			return nil, fmt.Errorf("failed to parse automaton json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(trimmed, &code); err != nil {
			return nil, fmt.Errorf("failed to parse automaton yaml: %w", err)
		}
	}
	return &code, nil
}

// JSON encodes the code as indented JSON.
func (c *Code) JSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// YAML encodes the code as YAML.
func (c *Code) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode automaton yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Clone returns a deep copy of the code.
func (c *Code) Clone() *Code {
	next := &Code{
		Type: c.Type,
		Automaton: Definition{
			Alphabet:      append([]string(nil), c.Automaton.Alphabet...),
			StackAlphabet: append([]string(nil), c.Automaton.StackAlphabet...),
			Initial:       c.Automaton.Initial,
			Finals:        append([]string(nil), c.Automaton.Finals...),
			States:        make(map[string]StateDef, len(c.Automaton.States)),
		},
	}
	for name, def := range c.Automaton.States {
		copied := StateDef{}
		if def.Position != nil {
			pos := *def.Position
			copied.Position = &pos
		}
		if def.Transitions != nil {
			copied.Transitions = make(map[string][]TransitionDef, len(def.Transitions))
			for target, labels := range def.Transitions {
				out := make([]TransitionDef, len(labels))
				for i, l := range labels {
					out[i] = TransitionDef{Input: l.Input, Top: l.Top, Push: append([]string(nil), l.Push...)}
				}
				copied.Transitions[target] = out
			}
		}
		next.Automaton.States[name] = copied
	}
	return next
}

package task

import (
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v3"

	"github.com/tasksense/tasksense/internal/date"
)

// Value kinds. Enum values are strings drawn from a small observed set
// (e.g. priority levels); the distinction matters to the semantic index,
// not to storage.
const (
	KindString = "string"
	KindDate   = "date"
	KindEnum   = "enum"
)

// Value is the typed value of a discovered field: a small tagged union
// of string, date, and enum-like string.
type Value struct {
	Kind string
	Str  string
	Date date.Date
}

// String creates a string-kind value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Enum creates an enum-kind value.
func Enum(s string) Value { return Value{Kind: KindEnum, Str: s} }

// DateVal creates a date-kind value.
func DateVal(d date.Date) Value { return Value{Kind: KindDate, Date: d} }

// String returns the value in its display/query form.
func (v Value) String() string {
	if v.Kind == KindDate {
		return v.Date.String()
	}
	return v.Str
}

// wireValue is the serialized form: {type: ..., value: ...}.
type wireValue struct {
	Type  string `yaml:"type" json:"type"`
	Value string `yaml:"value" json:"value"`
}

func (v Value) wire() wireValue {
	return wireValue{Type: v.Kind, Value: v.String()}
}

func (v *Value) fromWire(w wireValue) error {
	switch w.Type {
	case KindString, KindEnum:
		*v = Value{Kind: w.Type, Str: w.Value}
		return nil
	case KindDate:
		d, err := date.Parse(w.Value)
		if err != nil {
			return err
		}
		*v = Value{Kind: KindDate, Date: d}
		return nil
	default:
		return fmt.Errorf("unknown field value type %q", w.Type)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.wire(), nil
}

// UnmarshalYAML implements yaml.v3 Unmarshaler.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var w wireValue
	if err := node.Decode(&w); err != nil {
		return err
	}
	return v.fromWire(w)
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.wire())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var w wireValue
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	return v.fromWire(w)
}

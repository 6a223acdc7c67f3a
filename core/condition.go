package core

import (
	"bytes"
	"encoding/json"
)

// Condition is a boolean combinator tree evaluated against one resource.
// The variant set is closed: RuleRef, AllOf, AnyOf and Not.
type Condition interface {
	isCondition()
}

// RuleRef applies a named, parameterized rule to the resource.
type RuleRef struct {
	Rule         string
	ResourceType string
	Params       map[string]any
}

// AllOf is satisfied when every child is satisfied.
// An empty child list is vacuously true.
type AllOf struct {
	Conditions []Condition
}

// AnyOf is satisfied when at least one child is satisfied.
// An empty child list is vacuously false.
type AnyOf struct {
	Conditions []Condition
}

// Not negates its child.
type Not struct {
	Condition Condition
}

func (RuleRef) isCondition() {}
func (AllOf) isCondition()   {}
func (AnyOf) isCondition()   {}
func (Not) isCondition()     {}

func (c RuleRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Rule         string         `json:"rule"`
		ResourceType string         `json:"resourceType"`
		Params       map[string]any `json:"params,omitempty"`
	}{c.Rule, c.ResourceType, c.Params})
}

func (c AllOf) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		AllOf []Condition `json:"allOf"`
	}{nonNil(c.Conditions)})
}

func (c AnyOf) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		AnyOf []Condition `json:"anyOf"`
	}{nonNil(c.Conditions)})
}

func (c Not) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Not Condition `json:"not"`
	}{c.Condition})
}

func nonNil(conditions []Condition) []Condition {
	if conditions == nil {
		return []Condition{}
	}
	return conditions
}

var jsonNull = []byte("null")

// UnmarshalCondition decodes one condition node. Exactly one of the variant
// keys (rule, allOf, anyOf, not) must be present.
func UnmarshalCondition(data []byte) (Condition, error) {
	var probe struct {
		Rule         *string           `json:"rule"`
		ResourceType string            `json:"resourceType"`
		Params       map[string]any    `json:"params"`
		AllOf        []json.RawMessage `json:"allOf"`
		AnyOf        []json.RawMessage `json:"anyOf"`
		Not          json.RawMessage   `json:"not"`
	}

	err := json.Unmarshal(data, &probe)
	if err != nil {
		return nil, NewErrorInvalid("invalid condition: " + err.Error())
	}

	variants := 0
	if probe.Rule != nil {
		variants++
	}
	if probe.AllOf != nil {
		variants++
	}
	if probe.AnyOf != nil {
		variants++
	}
	hasNot := len(probe.Not) > 0 && !bytes.Equal(probe.Not, jsonNull)
	if hasNot {
		variants++
	}
	if variants != 1 {
		return nil, NewErrorInvalid("invalid condition: expected exactly one of rule, allOf, anyOf, not")
	}

	switch {
	case probe.Rule != nil:
		return RuleRef{
			Rule:         *probe.Rule,
			ResourceType: probe.ResourceType,
			Params:       probe.Params,
		}, nil
	case probe.AllOf != nil:
		children, err := unmarshalConditions(probe.AllOf)
		if err != nil {
			return nil, err
		}
		return AllOf{Conditions: children}, nil
	case probe.AnyOf != nil:
		children, err := unmarshalConditions(probe.AnyOf)
		if err != nil {
			return nil, err
		}
		return AnyOf{Conditions: children}, nil
	default:
		child, err := UnmarshalCondition(probe.Not)
		if err != nil {
			return nil, err
		}
		return Not{Condition: child}, nil
	}
}

func unmarshalConditions(raw []json.RawMessage) ([]Condition, error) {
	children := make([]Condition, 0, len(raw))
	for _, r := range raw {
		child, err := UnmarshalCondition(r)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

package core

import (
	"bytes"
	"encoding/json"
)

type AuthorizeResult string

const (
	AuthorizeResultAllow       AuthorizeResult = "ALLOW"
	AuthorizeResultDeny        AuthorizeResult = "DENY"
	AuthorizeResultConditional AuthorizeResult = "CONDITIONAL"
)

// RequestItem is one entry of an apply-conditions batch.
// Conditions is nil when the item carries no condition tree,
// which resolves to ALLOW.
type RequestItem struct {
	ID           string
	ResourceRef  string
	ResourceType string
	Conditions   Condition
}

func (i *RequestItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID           string          `json:"id"`
		ResourceRef  string          `json:"resourceRef"`
		ResourceType string          `json:"resourceType"`
		Conditions   json.RawMessage `json:"conditions"`
	}
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return NewErrorInvalid("invalid request item: " + err.Error())
	}

	i.ID = raw.ID
	i.ResourceRef = raw.ResourceRef
	i.ResourceType = raw.ResourceType
	i.Conditions = nil

	if len(raw.Conditions) > 0 && !bytes.Equal(raw.Conditions, jsonNull) {
		conditions, err := UnmarshalCondition(raw.Conditions)
		if err != nil {
			return err
		}
		i.Conditions = conditions
	}
	return nil
}

func (i RequestItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID           string    `json:"id"`
		ResourceRef  string    `json:"resourceRef"`
		ResourceType string    `json:"resourceType"`
		Conditions   Condition `json:"conditions,omitempty"`
	}{i.ID, i.ResourceRef, i.ResourceType, i.Conditions})
}

// Verdict is the outcome for one request item.
type Verdict struct {
	ID     string          `json:"id"`
	Result AuthorizeResult `json:"result"`
}

// Decision is a prior authorization outcome. A CONDITIONAL decision carries
// the condition tree that still has to be evaluated against a resource.
type Decision struct {
	Result     AuthorizeResult
	Conditions Condition
}

func (d *Decision) UnmarshalJSON(data []byte) error {
	var raw struct {
		Result     AuthorizeResult `json:"result"`
		Conditions json.RawMessage `json:"conditions"`
	}
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return NewErrorInvalid("invalid decision: " + err.Error())
	}

	d.Result = raw.Result
	d.Conditions = nil

	if len(raw.Conditions) > 0 && !bytes.Equal(raw.Conditions, jsonNull) {
		conditions, err := UnmarshalCondition(raw.Conditions)
		if err != nil {
			return err
		}
		d.Conditions = conditions
	}
	return nil
}

func (d Decision) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Result     AuthorizeResult `json:"result"`
		Conditions Condition       `json:"conditions,omitempty"`
	}{d.Result, d.Conditions})
}

// Permission describes one permission the plugin exposes, following the
// shape used by the host application's permission framework.
type Permission struct {
	Type         string               `json:"type"`
	Name         string               `json:"name"`
	Attributes   PermissionAttributes `json:"attributes"`
	ResourceType string               `json:"resourceType,omitempty"`
}

type PermissionAttributes struct {
	Action string `json:"action,omitempty"`
}

// RuleMetadata is the discovery representation of one registered rule.
type RuleMetadata struct {
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	ResourceType string         `json:"resourceType"`
	ParamsSchema map[string]any `json:"paramsSchema"`
}

// Metadata is the payload of the metadata endpoint.
type Metadata struct {
	Permissions []Permission   `json:"permissions"`
	Rules       []RuleMetadata `json:"rules"`
}

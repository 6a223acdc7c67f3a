package rule

// Default returns the stock rule set for resourceType. The predicates work
// on the flattened attribute map produced by the resource store.
func Default(resourceType string) []Rule {
	return []Rule{
		{
			Name:         "has_tag",
			ResourceType: resourceType,
			Description:  "Allow resources carrying the given tag",
			ParamsSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"tag": map[string]any{
						"type":        "string",
						"description": "Tag to look for on the resource",
					},
				},
				"required":             []any{"tag"},
				"additionalProperties": false,
			},
			Apply: func(resource any, params map[string]any) bool {
				tag, _ := params["tag"].(string)
				return hasTag(resource, tag)
			},
			ToQuery: func(params map[string]any) map[string]any {
				return map[string]any{"field": "tags", "contains": params["tag"]}
			},
		},
		{
			Name:         "is_owner",
			ResourceType: resourceType,
			Description:  "Allow resources owned by the given principal",
			ParamsSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"owner": map[string]any{
						"type":        "string",
						"description": "Principal expected to own the resource",
					},
				},
				"required":             []any{"owner"},
				"additionalProperties": false,
			},
			Apply: func(resource any, params map[string]any) bool {
				owner, _ := params["owner"].(string)
				return owner != "" && attribute(resource, "owner") == owner
			},
			ToQuery: func(params map[string]any) map[string]any {
				return map[string]any{"field": "owner", "equals": params["owner"]}
			},
		},
		{
			Name:         "kind_is",
			ResourceType: resourceType,
			Description:  "Allow resources of the given kind",
			ParamsSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"kind": map[string]any{
						"type":        "string",
						"description": "Expected resource kind",
					},
				},
				"required":             []any{"kind"},
				"additionalProperties": false,
			},
			Apply: func(resource any, params map[string]any) bool {
				kind, _ := params["kind"].(string)
				return kind != "" && attribute(resource, "kind") == kind
			},
			ToQuery: func(params map[string]any) map[string]any {
				return map[string]any{"field": "kind", "equals": params["kind"]}
			},
		},
	}
}

func attribute(resource any, key string) string {
	attrs, ok := resource.(map[string]any)
	if !ok {
		return ""
	}
	value, _ := attrs[key].(string)
	return value
}

func hasTag(resource any, tag string) bool {
	if tag == "" {
		return false
	}
	attrs, ok := resource.(map[string]any)
	if !ok {
		return false
	}
	switch tags := attrs["tags"].(type) {
	case []string:
		for _, t := range tags {
			if t == tag {
				return true
			}
		}
	case []any:
		for _, t := range tags {
			if s, ok := t.(string); ok && s == tag {
				return true
			}
		}
	}
	return false
}

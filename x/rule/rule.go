// Package rule holds the catalog of named predicates a permission backend
// evaluates condition trees against.
package rule

// Rule is a named predicate scoped to one resource type.
// Apply must be pure: same resource and params, same answer, no side effects.
// ToQuery is the filter-building counterpart of Apply and is not consulted
// during condition evaluation.
type Rule struct {
	Name         string
	ResourceType string
	Description  string
	ParamsSchema map[string]any
	Apply        func(resource any, params map[string]any) bool
	ToQuery      func(params map[string]any) map[string]any
}

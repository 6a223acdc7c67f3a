// Package condition evaluates boolean combinator trees against a single
// resource, resolving rule applications through a rule catalog.
package condition

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/sstasik645/backstage/core"
	"github.com/sstasik645/backstage/x/rule"
)

// Evaluate resolves a condition tree against one resource. The resource must
// be present; absence is decided by the caller before evaluation starts.
// A lookup miss here means validation was skipped, so it fails the batch
// instead of degrading to a verdict.
func Evaluate(cond core.Condition, resource any, catalog *rule.Catalog) (bool, error) {
	switch c := cond.(type) {
	case core.RuleRef:
		r, ok := catalog.Lookup(c.Rule)
		if !ok {
			return false, errors.Errorf("rule %q vanished from the catalog during evaluation", c.Rule)
		}
		return r.Apply(resource, c.Params), nil
	case core.AllOf:
		for _, child := range c.Conditions {
			ok, err := Evaluate(child, resource, catalog)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case core.AnyOf:
		for _, child := range c.Conditions {
			ok, err := Evaluate(child, resource, catalog)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case core.Not:
		ok, err := Evaluate(c.Condition, resource, catalog)
		if err != nil {
			return false, err
		}
		return !ok, nil
	default:
		return false, errors.Errorf("unknown condition variant %T", cond)
	}
}

// Validate walks a condition tree before any resource is fetched: every rule
// must exist in the catalog, be bound to resourceType, and its params must
// satisfy the rule's schema.
func Validate(cond core.Condition, resourceType string, catalog *rule.Catalog) error {
	switch c := cond.(type) {
	case core.RuleRef:
		if _, ok := catalog.Lookup(c.Rule); !ok {
			return core.NewErrorInvalid(fmt.Sprintf("invalid condition: unknown rule %q", c.Rule))
		}
		if c.ResourceType != resourceType {
			return core.NewErrorInvalid(fmt.Sprintf("invalid condition: rule %q references resource type %q, expected %q", c.Rule, c.ResourceType, resourceType))
		}
		return catalog.ValidateParams(c.Rule, c.Params)
	case core.AllOf:
		for _, child := range c.Conditions {
			err := Validate(child, resourceType, catalog)
			if err != nil {
				return err
			}
		}
		return nil
	case core.AnyOf:
		for _, child := range c.Conditions {
			err := Validate(child, resourceType, catalog)
			if err != nil {
				return err
			}
		}
		return nil
	case core.Not:
		return Validate(c.Condition, resourceType, catalog)
	default:
		return core.NewErrorInvalid(fmt.Sprintf("invalid condition: unknown variant %T", cond))
	}
}

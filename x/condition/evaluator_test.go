package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sstasik645/backstage/core"
	"github.com/sstasik645/backstage/x/rule"
)

var testResource = map[string]any{
	"ref":   "resource-1",
	"kind":  "component",
	"owner": "team-a",
	"tags":  []string{"internal", "experimental"},
}

func newTestCatalog(t *testing.T) *rule.Catalog {
	t.Helper()

	rules := append(rule.Default("test-resource"),
		rule.Rule{
			Name:         "always",
			ResourceType: "test-resource",
			Description:  "always true",
			Apply: func(resource any, params map[string]any) bool {
				return true
			},
		},
		rule.Rule{
			Name:         "never",
			ResourceType: "test-resource",
			Description:  "always false",
			Apply: func(resource any, params map[string]any) bool {
				return false
			},
		},
	)

	catalog, err := rule.NewCatalog("test-resource", rules...)
	assert.NoError(t, err)
	return catalog
}

func ruleRef(name string, params map[string]any) core.Condition {
	return core.RuleRef{Rule: name, ResourceType: "test-resource", Params: params}
}

func TestEvaluateRuleRef(t *testing.T) {
	catalog := newTestCatalog(t)

	ok, err := Evaluate(ruleRef("has_tag", map[string]any{"tag": "internal"}), testResource, catalog)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = Evaluate(ruleRef("has_tag", map[string]any{"tag": "public"}), testResource, catalog)
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = Evaluate(ruleRef("is_owner", map[string]any{"owner": "team-a"}), testResource, catalog)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluateNotNegates(t *testing.T) {
	catalog := newTestCatalog(t)

	for _, inner := range []core.Condition{
		ruleRef("always", nil),
		ruleRef("never", nil),
		core.AllOf{Conditions: []core.Condition{ruleRef("always", nil), ruleRef("never", nil)}},
	} {
		direct, err := Evaluate(inner, testResource, catalog)
		assert.NoError(t, err)
		negated, err := Evaluate(core.Not{Condition: inner}, testResource, catalog)
		assert.NoError(t, err)
		assert.Equal(t, !direct, negated)
	}
}

func TestEvaluateAllOfIsConjunction(t *testing.T) {
	catalog := newTestCatalog(t)

	cases := []struct {
		left, right string
		expected    bool
	}{
		{"always", "always", true},
		{"always", "never", false},
		{"never", "always", false},
		{"never", "never", false},
	}

	for _, tc := range cases {
		tree := core.AllOf{Conditions: []core.Condition{ruleRef(tc.left, nil), ruleRef(tc.right, nil)}}
		ok, err := Evaluate(tree, testResource, catalog)
		assert.NoError(t, err)
		assert.Equal(t, tc.expected, ok)
	}
}

func TestEvaluateAnyOfIsDisjunction(t *testing.T) {
	catalog := newTestCatalog(t)

	cases := []struct {
		left, right string
		expected    bool
	}{
		{"always", "always", true},
		{"always", "never", true},
		{"never", "always", true},
		{"never", "never", false},
	}

	for _, tc := range cases {
		tree := core.AnyOf{Conditions: []core.Condition{ruleRef(tc.left, nil), ruleRef(tc.right, nil)}}
		ok, err := Evaluate(tree, testResource, catalog)
		assert.NoError(t, err)
		assert.Equal(t, tc.expected, ok)
	}
}

func TestEvaluateEmptyCombinators(t *testing.T) {
	catalog := newTestCatalog(t)

	ok, err := Evaluate(core.AllOf{}, testResource, catalog)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = Evaluate(core.AnyOf{}, testResource, catalog)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestEvaluateNestedTree(t *testing.T) {
	catalog := newTestCatalog(t)

	// (has_tag internal AND NOT is_owner team-b) OR never
	tree := core.AnyOf{Conditions: []core.Condition{
		core.AllOf{Conditions: []core.Condition{
			ruleRef("has_tag", map[string]any{"tag": "internal"}),
			core.Not{Condition: ruleRef("is_owner", map[string]any{"owner": "team-b"})},
		}},
		ruleRef("never", nil),
	}}

	ok, err := Evaluate(tree, testResource, catalog)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluateUnknownRuleFails(t *testing.T) {
	catalog := newTestCatalog(t)

	_, err := Evaluate(ruleRef("nonexistent", nil), testResource, catalog)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	catalog := newTestCatalog(t)

	err := Validate(ruleRef("has_tag", map[string]any{"tag": "internal"}), "test-resource", catalog)
	assert.NoError(t, err)

	err = Validate(ruleRef("nonexistent", nil), "test-resource", catalog)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown rule")

	err = Validate(core.RuleRef{Rule: "always", ResourceType: "other-resource"}, "test-resource", catalog)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid condition")

	err = Validate(ruleRef("has_tag", map[string]any{"tag": 42}), "test-resource", catalog)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid params")

	// validation descends into combinators
	err = Validate(core.AllOf{Conditions: []core.Condition{
		ruleRef("always", nil),
		core.Not{Condition: ruleRef("nonexistent", nil)},
	}}, "test-resource", catalog)
	assert.Error(t, err)
}

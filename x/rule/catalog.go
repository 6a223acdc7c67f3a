package rule

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/sstasik645/backstage/core"
)

// Catalog holds the rules for one resource type. It is assembled at startup
// and read-only afterwards, so concurrent lookups need no locking.
type Catalog struct {
	resourceType string
	rules        map[string]Rule
	order        []string
}

// NewCatalog registers the given rules for resourceType.
// Registration fails on the first malformed or duplicate rule.
func NewCatalog(resourceType string, rules ...Rule) (*Catalog, error) {
	if resourceType == "" {
		return nil, fmt.Errorf("resource type must not be empty")
	}

	c := &Catalog{
		resourceType: resourceType,
		rules:        make(map[string]Rule, len(rules)),
	}
	for _, r := range rules {
		err := c.register(r)
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) register(r Rule) error {
	if r.Name == "" {
		return fmt.Errorf("rule name must not be empty")
	}
	if r.Apply == nil {
		return fmt.Errorf("rule %q has no predicate", r.Name)
	}
	if r.ResourceType != c.resourceType {
		return fmt.Errorf("rule %q is bound to resource type %q, catalog expects %q", r.Name, r.ResourceType, c.resourceType)
	}
	if _, exists := c.rules[r.Name]; exists {
		return fmt.Errorf("rule %q is already registered", r.Name)
	}
	c.rules[r.Name] = r
	c.order = append(c.order, r.Name)
	return nil
}

func (c *Catalog) ResourceType() string {
	return c.resourceType
}

func (c *Catalog) Len() int {
	return len(c.rules)
}

func (c *Catalog) Lookup(name string) (Rule, bool) {
	r, ok := c.rules[name]
	return r, ok
}

// ValidateParams checks params against the rule's declared JSON-Schema.
func (c *Catalog) ValidateParams(name string, params map[string]any) error {
	r, ok := c.rules[name]
	if !ok {
		return core.NewErrorInvalid(fmt.Sprintf("invalid condition: unknown rule %q", name))
	}
	if r.ParamsSchema == nil {
		return nil
	}
	if params == nil {
		params = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(r.ParamsSchema),
		gojsonschema.NewGoLoader(params),
	)
	if err != nil {
		return core.NewErrorInvalid(fmt.Sprintf("invalid params for rule %q: %v", name, err))
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return core.NewErrorInvalid(fmt.Sprintf("invalid params for rule %q: %s", name, strings.Join(details, "; ")))
	}
	return nil
}

// Metadata lists the registered rules in registration order for discovery.
func (c *Catalog) Metadata() []core.RuleMetadata {
	metadata := make([]core.RuleMetadata, 0, len(c.order))
	for _, name := range c.order {
		r := c.rules[name]
		schema := r.ParamsSchema
		if schema == nil {
			schema = map[string]any{"type": "object"}
		}
		metadata = append(metadata, core.RuleMetadata{
			Name:         r.Name,
			Description:  r.Description,
			ResourceType: r.ResourceType,
			ParamsSchema: schema,
		})
	}
	return metadata
}

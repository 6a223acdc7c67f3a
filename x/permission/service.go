package permission

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/xid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/sstasik645/backstage/core"
	"github.com/sstasik645/backstage/x/condition"
	"github.com/sstasik645/backstage/x/rule"
)

var decisionsMetric = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "permission_decisions_total",
		Help: "resolved verdicts by result",
	},
	[]string{"result"},
)

type service struct {
	loader      core.ResourceLoader
	catalog     *rule.Catalog
	permissions []core.Permission
}

// NewService creates the batch authorization service. loader and catalog may
// both be nil, in which case the service only resolves unconditional batches
// and reports conditional ones as unsupported.
func NewService(loader core.ResourceLoader, catalog *rule.Catalog, permissions []core.Permission) core.PermissionService {
	return &service{loader, catalog, permissions}
}

// ApplyConditions resolves a batch of authorization request items to one
// verdict each, in input order. Validation failures reject the whole batch
// before any resource is fetched; the resource loader is invoked exactly once
// with the de-duplicated set of refs.
func (s *service) ApplyConditions(ctx context.Context, items []core.RequestItem) ([]core.Verdict, error) {
	ctx, span := tracer.Start(ctx, "Permission.Service.ApplyConditions")
	defer span.End()

	batch := xid.New().String()
	span.SetAttributes(
		attribute.String("batch", batch),
		attribute.Int("items", len(items)),
	)

	for _, item := range items {
		if item.ID == "" || item.ResourceRef == "" {
			return nil, core.NewErrorInvalid("invalid request item: id and resourceRef are required")
		}
	}

	if s.loader == nil || s.catalog == nil {
		for _, item := range items {
			if item.Conditions != nil {
				return nil, core.NewErrorUnsupported()
			}
		}
		verdicts := make([]core.Verdict, 0, len(items))
		for _, item := range items {
			verdicts = append(verdicts, core.Verdict{ID: item.ID, Result: core.AuthorizeResultAllow})
			decisionsMetric.WithLabelValues(string(core.AuthorizeResultAllow)).Inc()
		}
		return verdicts, nil
	}

	resourceType := s.catalog.ResourceType()
	unexpected := make(map[string]struct{})
	for _, item := range items {
		if item.ResourceType != resourceType {
			unexpected[item.ResourceType] = struct{}{}
		}
	}
	if len(unexpected) > 0 {
		types := make([]string, 0, len(unexpected))
		for t := range unexpected {
			types = append(types, t)
		}
		sort.Strings(types)
		return nil, core.NewErrorInvalid(fmt.Sprintf("unexpected resource types: %s", strings.Join(types, ", ")))
	}

	for _, item := range items {
		if item.Conditions == nil {
			continue
		}
		err := condition.Validate(item.Conditions, resourceType, s.catalog)
		if err != nil {
			return nil, err
		}
	}

	refs := distinctRefs(items)
	resources, err := s.loader.LoadResources(ctx, refs)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to load resources")
	}
	if len(resources) != len(refs) {
		return nil, errors.Errorf("resource loader returned %d resources for %d refs", len(resources), len(refs))
	}

	byRef := make(map[string]any, len(refs))
	for i, ref := range refs {
		byRef[ref] = resources[i]
	}

	verdicts := make([]core.Verdict, 0, len(items))
	for _, item := range items {
		result, err := s.decide(item, byRef[item.ResourceRef])
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		verdicts = append(verdicts, core.Verdict{ID: item.ID, Result: result})
		decisionsMetric.WithLabelValues(string(result)).Inc()
	}

	slog.DebugContext(ctx, "batch resolved",
		slog.String("batch", batch),
		slog.Int("items", len(items)),
		slog.Int("resources", len(refs)),
	)

	return verdicts, nil
}

func (s *service) decide(item core.RequestItem, resource any) (core.AuthorizeResult, error) {
	if resource == nil {
		return core.AuthorizeResultDeny, nil
	}
	if item.Conditions == nil {
		return core.AuthorizeResultAllow, nil
	}
	ok, err := condition.Evaluate(item.Conditions, resource, s.catalog)
	if err != nil {
		return "", err
	}
	if ok {
		return core.AuthorizeResultAllow, nil
	}
	return core.AuthorizeResultDeny, nil
}

// distinctRefs de-duplicates resource refs, keeping first-seen order.
func distinctRefs(items []core.RequestItem) []string {
	seen := make(map[string]struct{}, len(items))
	refs := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ResourceRef]; ok {
			continue
		}
		seen[item.ResourceRef] = struct{}{}
		refs = append(refs, item.ResourceRef)
	}
	return refs
}

// Metadata reports the configured permissions and the rule catalog for
// discovery.
func (s *service) Metadata(ctx context.Context) (core.Metadata, error) {
	ctx, span := tracer.Start(ctx, "Permission.Service.Metadata")
	defer span.End()

	metadata := core.Metadata{
		Permissions: []core.Permission{},
		Rules:       []core.RuleMetadata{},
	}
	if s.permissions != nil {
		metadata.Permissions = s.permissions
	}
	if s.catalog != nil {
		metadata.Rules = s.catalog.Metadata()
	}

	return metadata, nil
}

// IsAuthorized resolves a prior decision: ALLOW and DENY pass through
// untouched, CONDITIONAL evaluates the carried tree against the resource.
func (s *service) IsAuthorized(ctx context.Context, decision core.Decision, resource any) (bool, error) {
	ctx, span := tracer.Start(ctx, "Permission.Service.IsAuthorized")
	defer span.End()

	switch decision.Result {
	case core.AuthorizeResultAllow:
		return true, nil
	case core.AuthorizeResultDeny:
		return false, nil
	case core.AuthorizeResultConditional:
		if s.catalog == nil {
			return false, core.NewErrorUnsupported()
		}
		if decision.Conditions == nil {
			return false, core.NewErrorInvalid("invalid decision: conditional decision carries no conditions")
		}
		if resource == nil {
			return false, nil
		}
		return condition.Evaluate(decision.Conditions, resource, s.catalog)
	default:
		return false, core.NewErrorInvalid(fmt.Sprintf("invalid decision result %q", decision.Result))
	}
}

package resource

import (
	"context"

	"github.com/sstasik645/backstage/core"
)

type service struct {
	repository Repository
}

// NewService creates the resource store service. It doubles as the
// core.ResourceLoader consumed by the permission service.
func NewService(repository Repository) core.ResourceService {
	return &service{repository}
}

// LoadResources resolves refs in one repository call. The result has the
// same length and order as refs; nil entries mark absent resources.
func (s *service) LoadResources(ctx context.Context, refs []string) ([]any, error) {
	ctx, span := tracer.Start(ctx, "Resource.Service.LoadResources")
	defer span.End()

	found, err := s.repository.GetMulti(ctx, refs)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	resources := make([]any, len(refs))
	for i, ref := range refs {
		if record, ok := found[ref]; ok {
			resources[i] = record.Attributes()
		}
	}
	return resources, nil
}

func (s *service) Get(ctx context.Context, ref string) (core.Resource, error) {
	ctx, span := tracer.Start(ctx, "Resource.Service.Get")
	defer span.End()

	return s.repository.Get(ctx, ref)
}

func (s *service) Upsert(ctx context.Context, resource core.Resource) (core.Resource, error) {
	ctx, span := tracer.Start(ctx, "Resource.Service.Upsert")
	defer span.End()

	return s.repository.Upsert(ctx, resource)
}

func (s *service) Delete(ctx context.Context, ref string) error {
	ctx, span := tracer.Start(ctx, "Resource.Service.Delete")
	defer span.End()

	return s.repository.Delete(ctx, ref)
}

func (s *service) Count(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "Resource.Service.Count")
	defer span.End()

	return s.repository.Count(ctx)
}

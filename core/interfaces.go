//go:generate go run go.uber.org/mock/mockgen -source=interfaces.go -destination=mock/services.go
package core

import (
	"context"
)

// ResourceLoader fetches the resources referenced by a batch in one call.
// The returned slice has the same length and order as refs; a nil entry
// means the resource does not exist, which is not an error.
type ResourceLoader interface {
	LoadResources(ctx context.Context, refs []string) ([]any, error)
}

type ResourceService interface {
	LoadResources(ctx context.Context, refs []string) ([]any, error)

	Get(ctx context.Context, ref string) (Resource, error)
	Upsert(ctx context.Context, resource Resource) (Resource, error)
	Delete(ctx context.Context, ref string) error
	Count(ctx context.Context) (int64, error)
}

type PermissionService interface {
	ApplyConditions(ctx context.Context, items []RequestItem) ([]Verdict, error)
	Metadata(ctx context.Context) (Metadata, error)
	IsAuthorized(ctx context.Context, decision Decision, resource any) (bool, error)
}

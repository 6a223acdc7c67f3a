//go:generate go run go.uber.org/mock/mockgen -source=repository.go -destination=mock/repository.go
package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"github.com/sstasik645/backstage/core"
)

var tracer = otel.Tracer("resource")

const (
	bodyCacheTTL    int32 = 300 // seconds
	missingCacheTTL       = time.Minute
)

type Repository interface {
	GetMulti(ctx context.Context, refs []string) (map[string]core.Resource, error)
	Get(ctx context.Context, ref string) (core.Resource, error)
	Upsert(ctx context.Context, resource core.Resource) (core.Resource, error)
	Delete(ctx context.Context, ref string) error
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db  *gorm.DB
	rdb *redis.Client
	mc  *memcache.Client
}

func NewRepository(db *gorm.DB, rdb *redis.Client, mc *memcache.Client) Repository {
	return &repository{db, rdb, mc}
}

func bodyCacheKey(ref string) string {
	return "resource:" + ref
}

func missingCacheKey(ref string) string {
	return fmt.Sprintf("resource-missing:%s", ref)
}

// GetMulti fetches the requested refs with one database query, consulting
// the memcached body cache first and a short-lived redis tombstone for refs
// recently confirmed absent. Refs that do not resolve are left out of the
// returned map; absence is not an error.
func (r *repository) GetMulti(ctx context.Context, refs []string) (map[string]core.Resource, error) {
	ctx, span := tracer.Start(ctx, "Resource.Repository.GetMulti")
	defer span.End()

	found := make(map[string]core.Resource, len(refs))
	misses := refs

	if r.mc != nil {
		keys := make([]string, 0, len(refs))
		for _, ref := range refs {
			keys = append(keys, bodyCacheKey(ref))
		}
		cache, err := r.mc.GetMulti(keys)
		if err == nil {
			misses = make([]string, 0, len(refs))
			for _, ref := range refs {
				item, ok := cache[bodyCacheKey(ref)]
				if !ok {
					misses = append(misses, ref)
					continue
				}
				var resource core.Resource
				err := json.Unmarshal(item.Value, &resource)
				if err != nil {
					misses = append(misses, ref)
					continue
				}
				found[ref] = resource
			}
		}
	}

	if r.rdb != nil && len(misses) > 0 {
		keys := make([]string, 0, len(misses))
		for _, ref := range misses {
			keys = append(keys, missingCacheKey(ref))
		}
		tombstones, err := r.rdb.MGet(ctx, keys...).Result()
		if err == nil {
			remaining := make([]string, 0, len(misses))
			for i, ref := range misses {
				if tombstones[i] == nil {
					remaining = append(remaining, ref)
				}
			}
			misses = remaining
		}
	}

	if len(misses) == 0 {
		return found, nil
	}

	var records []core.Resource
	err := r.db.WithContext(ctx).Where("ref IN ?", misses).Find(&records).Error
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	loaded := make(map[string]struct{}, len(records))
	for _, record := range records {
		found[record.Ref] = record
		loaded[record.Ref] = struct{}{}
		if r.mc != nil {
			body, err := json.Marshal(record)
			if err == nil {
				r.mc.Set(&memcache.Item{Key: bodyCacheKey(record.Ref), Value: body, Expiration: bodyCacheTTL})
			}
		}
	}

	if r.rdb != nil {
		for _, ref := range misses {
			if _, ok := loaded[ref]; !ok {
				r.rdb.Set(ctx, missingCacheKey(ref), "1", missingCacheTTL)
			}
		}
	}

	return found, nil
}

func (r *repository) Get(ctx context.Context, ref string) (core.Resource, error) {
	ctx, span := tracer.Start(ctx, "Resource.Repository.Get")
	defer span.End()

	var resource core.Resource
	err := r.db.WithContext(ctx).Where("ref = ?", ref).First(&resource).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return core.Resource{}, core.NewErrorNotFound()
		}
		span.RecordError(err)
		return core.Resource{}, err
	}
	return resource, nil
}

func (r *repository) Upsert(ctx context.Context, resource core.Resource) (core.Resource, error) {
	ctx, span := tracer.Start(ctx, "Resource.Repository.Upsert")
	defer span.End()

	err := r.db.WithContext(ctx).Save(&resource).Error
	if err != nil {
		span.RecordError(err)
		return core.Resource{}, err
	}

	r.invalidate(ctx, resource.Ref)
	return resource, nil
}

func (r *repository) Delete(ctx context.Context, ref string) error {
	ctx, span := tracer.Start(ctx, "Resource.Repository.Delete")
	defer span.End()

	err := r.db.WithContext(ctx).Where("ref = ?", ref).Delete(&core.Resource{}).Error
	if err != nil {
		span.RecordError(err)
		return err
	}

	r.invalidate(ctx, ref)
	return nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "Resource.Repository.Count")
	defer span.End()

	var count int64
	err := r.db.WithContext(ctx).Model(&core.Resource{}).Count(&count).Error
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	return count, nil
}

func (r *repository) invalidate(ctx context.Context, ref string) {
	if r.mc != nil {
		r.mc.Delete(bodyCacheKey(ref))
	}
	if r.rdb != nil {
		r.rdb.Del(ctx, missingCacheKey(ref))
	}
}

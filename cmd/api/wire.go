//go:build wireinject

package main

import (
	"github.com/bradfitz/gomemcache/memcache"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/sstasik645/backstage/core"
	"github.com/sstasik645/backstage/x/permission"
	"github.com/sstasik645/backstage/x/resource"
	"github.com/sstasik645/backstage/x/rule"
)

var resourceServiceProvider = wire.NewSet(resource.NewService, resource.NewRepository)
var permissionServiceProvider = wire.NewSet(
	permission.NewService,
	resourceServiceProvider,
	wire.Bind(new(core.ResourceLoader), new(core.ResourceService)),
)

func SetupPermissionHandler(db *gorm.DB, rdb *redis.Client, mc *memcache.Client, catalog *rule.Catalog, permissions []core.Permission) permission.Handler {
	wire.Build(permission.NewHandler, permissionServiceProvider)
	return nil
}

func SetupPermissionService(db *gorm.DB, rdb *redis.Client, mc *memcache.Client, catalog *rule.Catalog, permissions []core.Permission) core.PermissionService {
	wire.Build(permissionServiceProvider)
	return nil
}

func SetupResourceHandler(db *gorm.DB, rdb *redis.Client, mc *memcache.Client) resource.Handler {
	wire.Build(resource.NewHandler, resourceServiceProvider)
	return nil
}

func SetupResourceService(db *gorm.DB, rdb *redis.Client, mc *memcache.Client) core.ResourceService {
	wire.Build(resourceServiceProvider)
	return nil
}

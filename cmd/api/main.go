package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.7.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/sstasik645/backstage/core"
	"github.com/sstasik645/backstage/util"
	"github.com/sstasik645/backstage/x/permission"
	"github.com/sstasik645/backstage/x/rule"
)

type CustomHandler struct {
	slog.Handler
}

func (h *CustomHandler) Handle(ctx context.Context, r slog.Record) error {

	r.AddAttrs(slog.String("type", "app"))

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		r.AddAttrs(slog.String("traceID", span.SpanContext().TraceID().String()))
		r.AddAttrs(slog.String("spanID", span.SpanContext().SpanID().String()))
	}

	return h.Handler.Handle(ctx, r)
}

var (
	version = "unknown"
)

func main() {

	handler := &CustomHandler{Handler: slog.NewJSONHandler(os.Stdout, nil)}
	slogger := slog.New(handler)
	slog.SetDefault(slogger)

	slog.Info(fmt.Sprintf("Permission backend %s starting...", version))

	e := echo.New()
	e.HidePort = true
	e.HideBanner = true

	config := util.Config{}
	configPath := os.Getenv("PERMISSION_CONFIG")
	if configPath == "" {
		configPath = "/etc/backstage-permission/config.yaml"
	}

	err := config.Load(configPath)
	if err != nil {
		slog.Error("Failed to load config: ", err)
	}

	if config.Server.EnableTrace {
		cleanup, err := setupTraceProvider(config.Server.TraceEndpoint, "permission-backend", version)
		if err != nil {
			panic(err)
		}
		defer cleanup()

		skipper := otelecho.WithSkipper(
			func(c echo.Context) bool {
				return c.Path() == "/metrics" || c.Path() == "/health"
			},
		)
		e.Use(otelecho.Middleware("api", skipper))
	}

	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace: "permission",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health"
		},
	}))

	e.Use(middleware.Recover())

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             300 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(config.Server.Dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		panic("failed to connect database")
	}
	sqlDB, err := db.DB() // for pinging
	if err != nil {
		panic("failed to connect database")
	}
	defer sqlDB.Close()

	err = db.Use(tracing.NewPlugin(
		tracing.WithDBName("postgres"),
	))
	if err != nil {
		panic("failed to setup tracing plugin")
	}

	slog.Info("start migrate")
	db.AutoMigrate(
		&core.Resource{},
	)

	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Server.RedisAddr,
		Password: "",
		DB:       config.Server.RedisDB,
	})
	err = redisotel.InstrumentTracing(
		rdb,
		redisotel.WithAttributes(
			attribute.KeyValue{
				Key:   "db.name",
				Value: attribute.StringValue("redis"),
			},
		),
	)
	if err != nil {
		panic("failed to setup tracing plugin")
	}

	mc := memcache.New(config.Server.MemcachedAddr)
	defer mc.Close()

	permissions := make([]core.Permission, 0, len(config.Permission.Permissions))
	for _, entry := range config.Permission.Permissions {
		permissions = append(permissions, core.Permission{
			Type:         entry.Type,
			Name:         entry.Name,
			Attributes:   core.PermissionAttributes{Action: entry.Action},
			ResourceType: entry.ResourceType,
		})
	}

	var permissionHandler permission.Handler
	var catalog *rule.Catalog
	if config.Permission.ResourceType == "" {
		slog.Info("no resource type configured, conditional decisions are unsupported")
		permissionHandler = permission.NewHandler(permission.NewService(nil, nil, permissions))
	} else {
		catalog, err = rule.NewCatalog(config.Permission.ResourceType, rule.Default(config.Permission.ResourceType)...)
		if err != nil {
			panic(err)
		}
		permissionHandler = SetupPermissionHandler(db, rdb, mc, catalog, permissions)
	}

	resourceService := SetupResourceService(db, rdb, mc)
	resourceHandler := SetupResourceHandler(db, rdb, mc)

	e.POST("/apply-conditions", permissionHandler.ApplyConditions)
	e.GET("/metadata", permissionHandler.Metadata)

	e.GET("/resources/:ref", resourceHandler.Get)
	e.PUT("/resources/:ref", resourceHandler.Upsert)
	e.DELETE("/resources/:ref", resourceHandler.Delete)

	e.GET("/health", func(c echo.Context) (err error) {
		ctx := c.Request().Context()
		err = sqlDB.Ping()
		if err != nil {
			return c.String(http.StatusInternalServerError, "db error")
		}
		err = rdb.Ping(ctx).Err()
		if err != nil {
			return c.String(http.StatusInternalServerError, "redis error")
		}
		return c.String(http.StatusOK, "ok")
	})

	var ruleCountMetrics = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "permission_rules_count",
			Help: "registered rules count",
		},
	)
	prometheus.MustRegister(ruleCountMetrics)
	if catalog != nil {
		ruleCountMetrics.Set(float64(catalog.Len()))
	}

	var resourceCountMetrics = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "permission_resources_count",
			Help: "stored resources count",
		},
	)
	prometheus.MustRegister(resourceCountMetrics)

	go func() {
		for {
			time.Sleep(15 * time.Second)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			count, err := resourceService.Count(ctx)
			cancel()
			if err != nil {
				slog.Error(fmt.Sprintf("failed to count resources: %v", err))
				continue
			}
			resourceCountMetrics.Set(float64(count))
		}
	}()

	e.GET("/metrics", echoprometheus.NewHandler())

	listenAddr := config.Server.ListenAddr
	if listenAddr == "" {
		listenAddr = ":8000"
	}
	e.Logger.Fatal(e.Start(listenAddr))
}

func setupTraceProvider(endpoint string, serviceName string, serviceVersion string) (func(), error) {

	exporter, err := otlptracehttp.New(
		context.Background(),
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)

	if err != nil {
		return nil, err
	}

	resource := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
		semconv.ServiceVersionKey.String(serviceVersion),
	)

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(resource),
	)
	otel.SetTracerProvider(tracerProvider)

	propagator := propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
	otel.SetTextMapPropagator(propagator)

	cleanup := func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			slog.Error(fmt.Sprintf("Failed to shutdown tracer provider: %v", err))
		}
	}
	return cleanup, nil
}

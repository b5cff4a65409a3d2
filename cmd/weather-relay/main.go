package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"weather-relay/configs"
	_ "weather-relay/docs"
	"weather-relay/internal/application/controller"
	"weather-relay/internal/application/middleware"
	"weather-relay/internal/application/processor"
	"weather-relay/internal/application/schedule"
	"weather-relay/internal/domain/gateway/api"
	"weather-relay/internal/domain/gateway/transport"
	"weather-relay/internal/domain/usecase/health"
	"weather-relay/internal/domain/usecase/relay"
	"weather-relay/pkg/log"
	"weather-relay/pkg/msg"
	"weather-relay/pkg/redis"
	"weather-relay/pkg/resource"
)

// @title Pirate Weather Relay API
// @version 1.0
// @description Relays Pirate Weather forecasts to display instances over a notification transport.
// @BasePath /weather-relay
func main() {
	defer log.Sync()

	resource.Load()
	log.Info(msg.GetMessage("app.start"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kind := resource.GetStringOrDefault("app.transport.kind", transportRedis)
	scheduleEnabled := resource.GetBool("app.schedule.enabled")

	// Init redis, shared by the redis transport and the scheduler lock
	var redisClient *redis.Client
	var redisChecker *redis.HealthChecker
	if kind == transportRedis || scheduleEnabled {
		client, err := newRedisClient()
		if err != nil {
			log.Fatalf("Failed to create redis client: %v", err)
		}
		defer client.Close()
		redisClient = client
		redisChecker = redis.NewHealthChecker(client)
	}

	// Init transport
	transportHealth := transport.NewHealthGateway(kind)
	fetchProcessor := &lazyProcessor{}
	bus, err := newTransport(ctx, kind, redisClient, fetchProcessor, transportHealth)
	if err != nil {
		log.Fatalf("Failed to initialize %s transport: %v", kind, err)
	}
	defer bus.close()

	// Init UseCase
	forecastGateway := api.NewForecastGateway(api.ForecastGatewayOptions{
		BaseURL:   resource.GetStringOrDefault("app.provider.base-url", api.DefaultBaseURL),
		UserAgent: resource.GetString("app.provider.user-agent"),
		Timeout:   resource.GetDuration("app.provider.timeout"),
	})
	relayUseCase := relay.NewRelayUseCase(forecastGateway, bus.notifier, relay.Options{
		ModuleTag: resource.GetString("app.module-tag"),
		Timeout:   resource.GetDuration("app.provider.timeout"),
		Writer:    log.NewLineWriter(),
	})
	healthUseCase := health.NewHealthUseCase(transport.NewRedisHealthGateway(redisChecker), transportHealth)

	fetchProcessor.set(processor.NewFetchProcessor(relayUseCase))
	go bus.start(ctx)

	// Init Controller
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RequestID())
	middleware.SetupRequestLogger(e)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	apiGroup := e.Group(configs.Env.ContextPath)
	controller.NewHealthController(apiGroup, healthUseCase).InitHealthRoutes()
	controller.NewRelayController(apiGroup, relayUseCase).InitRelayRoutes()

	// Init Schedule
	if scheduleEnabled {
		pollScheduler := schedule.NewPollScheduler(relayUseCase, redisClient, newPollSchedulerConfig())
		pollScheduler.InitPollScheduleTasks(ctx)
		defer pollScheduler.Stop()
	}

	// Start Routes
	go func() {
		if err := e.Start(":" + resource.GetString("app.server.port")); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Info(msg.GetMessage("app.started", kind))

	<-ctx.Done()
	log.Info(msg.GetMessage("app.stopping"))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Failed to shutdown server: %v", err)
	}

	relayUseCase.Wait()
	log.Info(msg.GetMessage("app.stopped"))
}

func newRedisClient() (*redis.Client, error) {
	config := redis.NewRedisConfig().
		WithHost(resource.GetStringOrDefault("app.transport.redis.host", "localhost")).
		WithPort(resource.GetInt("app.transport.redis.port")).
		WithPassword(resource.GetString("app.transport.redis.password")).
		WithDatabase(resource.GetInt("app.transport.redis.database"))
	return redis.NewClient(config)
}

func newPollSchedulerConfig() *schedule.PollSchedulerConfig {
	var targets []schedule.Target
	if err := resource.UnmarshalKey("app.schedule.targets", &targets); err != nil {
		log.Fatalf("Invalid app.schedule.targets: %v", err)
	}

	return &schedule.PollSchedulerConfig{
		CronExpression:  resource.GetString("app.schedule.cron"),
		LockTTL:         time.Duration(resource.GetInt("app.schedule.lock-ttl")) * time.Second,
		RefreshInterval: time.Duration(resource.GetInt("app.schedule.refresh-interval")) * time.Second,
		APIKey:          resource.GetString("app.provider.api-key"),
		Targets:         targets,
	}
}

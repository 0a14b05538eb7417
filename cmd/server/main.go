package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shubm18/Poll-Battel/internal/app"
	"github.com/shubm18/Poll-Battel/internal/broadcast"
	"github.com/shubm18/Poll-Battel/internal/domain"
	"github.com/shubm18/Poll-Battel/internal/metrics"
	"github.com/shubm18/Poll-Battel/internal/platform/config"
	"github.com/shubm18/Poll-Battel/internal/platform/logging"
	"github.com/shubm18/Poll-Battel/internal/platform/version"
	"github.com/shubm18/Poll-Battel/internal/poll"
	"github.com/shubm18/Poll-Battel/internal/redis"
	"github.com/shubm18/Poll-Battel/internal/registry"
	"github.com/shubm18/Poll-Battel/internal/room"
	"github.com/shubm18/Poll-Battel/internal/router"
	"github.com/shubm18/Poll-Battel/internal/server"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// slog is not configured yet
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// eventPublisher holds the Redis publisher when REDIS_URL is set.
type eventPublisher struct {
	domain.EventPublisher
	client    *goredis.Client
	publisher *redis.Publisher
}

func (p *eventPublisher) Close() {
	if p.publisher != nil {
		p.publisher.Close()
	}
	if p.client != nil {
		_ = p.client.Close()
	}
}

func setupPublisher(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) *eventPublisher {
	if cfg.RedisURL == "" {
		slog.Info("REDIS_URL not set, poll events are not published")
		return &eventPublisher{EventPublisher: domain.NoopPublisher{}}
	}

	m := metrics.NewPublisherMetrics(reg)
	client, err := redis.NewClient(ctx, cfg.RedisURL,
		redis.NewCircuitBreakerHook(m.CircuitBreakerState),
		redis.NewMetricsHook(m.RedisOps),
	)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	publisher := redis.NewPublisher(client, m)
	return &eventPublisher{EventPublisher: publisher, client: client, publisher: publisher}
}

func healthChecks(hub *app.Hub, publisher *eventPublisher) []server.HealthCheck {
	checks := []server.HealthCheck{{
		Name: "event_loop",
		Check: func(ctx context.Context) error {
			_, err := hub.Stats(ctx)
			return err
		},
	}}
	if publisher.client != nil {
		checks = append(checks, server.HealthCheck{Name: "redis", Check: redis.HealthCheck(publisher.client)})
	}
	return checks
}

func runGracefulShutdown(cfg *config.Config, srv *server.Server, hub *app.Hub, publisher *eventPublisher) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		// sockets close first so the upgrade handlers can return
		hub.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		publisher.Close()
		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "version", version.Get().String(), "env", cfg.AppEnv, "port", cfg.Port)

	reg := metrics.NewRegistry()
	wsMetrics := metrics.NewWebSocketMetrics(reg)

	publisher := setupPublisher(context.Background(), cfg, reg)

	connections := registry.New()
	rooms := room.NewStore(room.RandomCode, metrics.NewRoomMetrics(reg))
	dispatcher := broadcast.NewDispatcher(wsMetrics)
	polls := poll.NewCoordinator(rooms, dispatcher, publisher, clock, metrics.NewPollMetrics(reg))
	r := router.New(connections, rooms, polls, dispatcher, wsMetrics)
	hub := app.NewHub(r, polls, rooms, connections, clock, metrics.NewHubMetrics(reg))

	srv := server.NewServer(cfg, server.Deps{
		Loop:         hub,
		Registry:     reg,
		HTTPMetrics:  metrics.NewHTTPMetrics(reg),
		WSMetrics:    wsMetrics,
		Clock:        clock,
		HealthChecks: healthChecks(hub, publisher),
	})

	done := runGracefulShutdown(cfg, srv, hub, publisher)

	if err := srv.Start(); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}

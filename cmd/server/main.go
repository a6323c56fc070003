// Command server runs the taskgate HTTP server: signup and login, the
// per-role onboarding state machine, and the route guard that keeps users on
// their current activation step.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	activationhandler "taskgate/internal/activation/handler"
	activationmetrics "taskgate/internal/activation/metrics"
	activationservice "taskgate/internal/activation/service"
	"taskgate/internal/activation/store"
	memorystore "taskgate/internal/activation/store/memory"
	activationpg "taskgate/internal/activation/store/postgres"
	"taskgate/internal/activation/store/rediscache"
	"taskgate/internal/audit"
	identityhandler "taskgate/internal/identity/handler"
	identityservice "taskgate/internal/identity/service"
	identitystore "taskgate/internal/identity/store"
	"taskgate/internal/jwttoken"
	"taskgate/internal/platform/config"
	"taskgate/internal/platform/httpserver"
	"taskgate/internal/platform/logger"
	"taskgate/internal/platform/metrics"
	"taskgate/internal/platform/postgres"
	"taskgate/internal/platform/redis"
	"taskgate/internal/quiz/grading"
	"taskgate/internal/quiz/source"
	"taskgate/internal/routeguard"
	guardmetrics "taskgate/internal/routeguard/metrics"
	httptransport "taskgate/internal/transport/http"
)

const (
	recordCacheTTL  = 5 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	records, questions, closeStores, err := buildStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStores()

	auditStore := audit.NewMemoryStore()
	sinks := []audit.Sink{auditStore}
	kafkaSink, err := audit.NewKafkaSink(ctx, cfg.Kafka)
	if err != nil {
		return err
	}
	if kafkaSink != nil {
		defer kafkaSink.Close()
		sinks = append(sinks, kafkaSink)
		log.Info("audit events publishing to kafka", "topic", cfg.Kafka.Topic)
	}
	auditor := audit.NewPublisher(log, sinks...)

	activationSvc := activationservice.New(records, questions, grading.New(cfg.PassingThresholdPercent),
		activationservice.WithLogger(log),
		activationservice.WithAuditPublisher(auditor),
		activationservice.WithMetrics(activationmetrics.New()),
	)

	sharedMetrics := metrics.New()
	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	identitySvc := identityservice.New(identitystore.NewMemoryStore(), jwtService, activationSvc, cfg.TokenTTL,
		identityservice.WithLogger(log),
		identityservice.WithAuditPublisher(auditor),
		identityservice.WithMetrics(sharedMetrics),
	)

	var policy routeguard.GatePolicy = routeguard.NewRealGatePolicy(routeguard.DefaultTable())
	if cfg.DevBypassEnabled {
		log.Warn("DEV GATE BYPASS ENABLED: the activation gate is not enforced; never run production with DEV_GATE_BYPASS set")
		policy = routeguard.NewBypassGatePolicy()
	}
	guard := routeguard.New(policy, activationSvc,
		routeguard.WithLogger(log),
		routeguard.WithAuditPublisher(auditor),
		routeguard.WithMetrics(guardmetrics.New()),
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:       log,
		Metrics:      sharedMetrics,
		JWTValidator: jwttoken.NewJWTServiceAdapter(jwtService),
		Identity:     identityhandler.New(identitySvc, log),
		Activation:   activationhandler.New(activationSvc, log),
		Guard:        guard,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting taskgate", "addr", cfg.Addr, "gate_policy", policy.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// buildStores selects the record store and question source from config:
// PostgreSQL when a URL is configured, in-memory otherwise, with an optional
// Redis read-through cache in front of the record store.
func buildStores(ctx context.Context, cfg config.Server, log *slog.Logger) (store.RecordStore, source.QuestionSource, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var records store.RecordStore
	var questions source.QuestionSource
	if cfg.Postgres.URL != "" {
		pool, err := postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, nil, err
		}
		closers = append(closers, pool.Close)
		records = activationpg.New(pool)

		contentDB, err := source.Open(cfg.Postgres.URL)
		if err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		closers = append(closers, func() { _ = contentDB.Close() })
		questions = source.NewPostgres(contentDB)
	} else {
		log.Warn("POSTGRES_URL not set; records and quiz content are in-memory and lost on restart")
		records = memorystore.New()
		mem := source.NewMemory()
		mem.Put(source.DefaultDoerBank())
		questions = mem
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		closeAll()
		return nil, nil, nil, err
	}
	if redisClient != nil {
		closers = append(closers, func() { _ = redisClient.Close() })
		records = rediscache.New(records, redisClient, recordCacheTTL, log)
		log.Info("record cache enabled", "ttl", recordCacheTTL)
	}

	return records, questions, closeAll, nil
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	httpAdapter "github.com/prospectly/coinledger/internal/adapter/http"
	"github.com/prospectly/coinledger/internal/adapter/http/handler"
	postgresRepo "github.com/prospectly/coinledger/internal/adapter/repository/postgres"
	redisRepo "github.com/prospectly/coinledger/internal/adapter/repository/redis"
	"github.com/prospectly/coinledger/internal/infrastructure/config"
	"github.com/prospectly/coinledger/internal/infrastructure/eventpublisher"
	"github.com/prospectly/coinledger/internal/infrastructure/logger"
	"github.com/prospectly/coinledger/internal/infrastructure/metrics"
	"github.com/prospectly/coinledger/internal/infrastructure/postgres"
	"github.com/prospectly/coinledger/internal/infrastructure/redis"
	"github.com/prospectly/coinledger/internal/pricing"
	"github.com/prospectly/coinledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "coinledger",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DatabaseMaxConns,
		MinConns: cfg.DatabaseMinConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(log, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	priceBook, err := pricing.Load(cfg.PriceBookPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.PriceBookPath).Msg("failed to load price book")
	}

	m := metrics.New()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	reservationRepo := postgresRepo.NewReservationRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Use cases
	walletUC := usecase.NewWalletUseCase(txManager, accountRepo, entryRepo, outboxRepo, idGen, retrier, cache, cfg.BalanceCacheTTL, m)
	reservationUC := usecase.NewReservationUseCase(txManager, accountRepo, reservationRepo, entryRepo, outboxRepo, idGen, retrier, cache, m, cfg.ReservationLifetime)
	ledgerUC := usecase.NewLedgerUseCase(accountRepo, entryRepo, m)

	// Outbox drain: events land in Kafka when brokers are configured,
	// otherwise they go to the log.
	var publisher eventpublisher.Publisher = eventpublisher.NewLogPublisher(log)
	if cfg.KafkaBrokers != "" {
		kafkaPublisher := eventpublisher.NewKafkaPublisher(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic, log)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info().Str("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publishing events to kafka")
	}

	eventPublisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  publisher,
		Log:        log,
		Metrics:    m,
	})
	go func() {
		if err := eventPublisher.Start(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	go runSweeper(ctx, log, reservationUC, cfg.SweepInterval)

	// Handlers
	accountHandler := handler.NewAccountHandler(walletUC, cfg.SignupBonus)
	reservationHandler := handler.NewReservationHandler(reservationUC)
	entryHandler := handler.NewEntryHandler(ledgerUC)
	pricingHandler := handler.NewPricingHandler(priceBook)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     accountHandler,
		ReservationHandler: reservationHandler,
		EntryHandler:       entryHandler,
		PricingHandler:     pricingHandler,
		HealthHandler:      healthHandler,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		Log:                log,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// runSweeper periodically fails pending reservations past their deadline so
// abandoned holds stop counting against available balance.
func runSweeper(ctx context.Context, log zerolog.Logger, reservationUC *usecase.ReservationUseCase, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			swept, err := reservationUC.SweepExpired(ctx)
			if err != nil {
				log.Error().Err(err).Msg("failed to sweep expired reservations")
				continue
			}
			if swept > 0 {
				log.Info().Int("count", swept).Msg("swept expired reservations")
			}
		}
	}
}

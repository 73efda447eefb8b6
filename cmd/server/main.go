package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightstatus-service/internal/domain/repository"
	"flightstatus-service/internal/infrastructure/config"
	"flightstatus-service/internal/infrastructure/persistence"
	"flightstatus-service/internal/infrastructure/router"
	"flightstatus-service/internal/interface/httpapi"
	repoimpl "flightstatus-service/internal/interface/repository"
	"flightstatus-service/internal/usecase"
	"flightstatus-service/pkg/clock"
	"flightstatus-service/pkg/logger"
	"flightstatus-service/pkg/metrics"
	"flightstatus-service/pkg/utils"
	"flightstatus-service/templates"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger().Fatal("Failed to load config", "error", err)
	}

	log := logger.NewLoggerWithLevel(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting Flight Status Service", "version", cfg.AppVersion)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mongoClient *mongo.Client
		mongoDB     *mongo.Database
		redisClient *redis.Client
	)

	// MongoDB backs the mongo session store and the query log
	if cfg.SessionBackend == config.SessionBackendMongo || cfg.MongoURI != "" {
		log.Info("Connecting to MongoDB")
		mongoClient, err = persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			if cfg.SessionBackend == config.SessionBackendMongo {
				log.Fatal("Failed to connect to MongoDB", "error", err)
			}
			log.Warn("MongoDB unavailable, query log disabled", "error", err)
		} else {
			mongoDB = mongoClient.Database(cfg.MongoDB)
		}
	}

	// Set up session repository
	var sessionRepo repository.SessionRepository
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		log.Info("Connecting to Redis", "addr", cfg.RedisAddr)
		redisClient, err = persistence.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal("Failed to connect to Redis", "error", err)
		}
		sessionRepo = repoimpl.NewRedisSessionRepository(redisClient)
	case config.SessionBackendMongo:
		sessionRepo = repoimpl.NewMongoSessionRepository(mongoDB)
	default:
		sessionRepo = repoimpl.NewMemorySessionRepository()
	}
	log.Info("Session store ready", "backend", cfg.SessionBackend, "ttl", cfg.SessionTTL.String())

	var (
		queryRepo        repository.FlightQueryRepository
		subscriptionRepo repository.SubscriptionRepository
	)
	if mongoDB != nil {
		queryRepo = repoimpl.NewMongoFlightQueryRepository(mongoDB)
		subscriptionRepo = repoimpl.NewMongoSubscriptionRepository(mongoDB)
	} else {
		log.Warn("Flight subscriptions kept in memory only")
		subscriptionRepo = repoimpl.NewMemorySubscriptionRepository()
	}

	// Reference data is optional
	var (
		airportRepository repository.AirportRepository
		airlineRepository repository.AirlineRepository
	)
	if cfg.PostgresURI != "" {
		gormDB, err := persistence.NewPostgresDB(cfg.PostgresURI)
		if err != nil {
			log.Warn("PostgreSQL unavailable, reference enrichment disabled", "error", err)
		} else {
			airportRepository = repoimpl.NewGormAirportRepository(gormDB)
			airlineRepository = repoimpl.NewGormAirlineRepository(gormDB)
		}
	}

	provider := repoimpl.NewAeroDataBoxRepository(repoimpl.AeroDataBoxConfig{
		BaseURL: cfg.AeroDataBoxBaseURL,
		APIKey:  cfg.AeroDataBoxAPIKey,
		Host:    cfg.AeroDataBoxHost,
		Timeout: cfg.ProviderTimeout,
	}, log)
	if cfg.AeroDataBoxAPIKey == "" {
		log.Warn("AERODATABOX_API_KEY not set, every lookup will report a temporary error")
	}

	m := metrics.NewMetrics("flightstatus", nil)
	clk := clock.SystemClock{}
	renderer := templates.NewRenderer(m, log)

	sessions := usecase.NewSessionManager(sessionRepo, clk, usecase.SessionConfig{
		TTL:           cfg.SessionTTL,
		SweepInterval: cfg.SessionSweepInterval,
	}, m, log)

	conversation := usecase.NewConversation(
		sessions,
		provider,
		queryRepo,
		airportRepository,
		airlineRepository,
		subscriptionRepo,
		renderer,
		clk,
		m,
		log,
	)

	actionRouter := router.NewActionRouter(log)
	for _, h := range usecase.ConversationActionHandlers(conversation) {
		actionRouter.Register(h)
	}
	dispatcher := usecase.NewActionDispatcher(actionRouter, m, log)

	// Sweep expired sessions even when nobody is talking
	if cfg.SessionSweepInterval > 0 {
		go func() {
			sweepTicker := time.NewTicker(cfg.SessionSweepInterval)
			defer sweepTicker.Stop()

			for {
				select {
				case <-ctx.Done():
					log.Info("Session sweeper stopped")
					return
				case <-sweepTicker.C:
					removed, err := sessions.SweepExpired(ctx)
					if err != nil {
						log.Error("Error sweeping sessions", "error", err)
						continue
					}
					if removed > 0 {
						log.Debug("Swept expired sessions", "count", removed)
					}
				}
			}
		}()
	}

	// Set up HTTP server
	gin.SetMode(gin.ReleaseMode)
	handler := httpapi.NewHandler(conversation, dispatcher, renderer, utils.ParseLocale(cfg.DefaultLocale), log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpapi.NewRouter(handler, nil, log),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Redis close error", "error", err)
		}
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}

	log.Info("Flight Status Service stopped")
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskstream/riskstream/internal/config"
	"github.com/riskstream/riskstream/internal/handlers"
	"github.com/riskstream/riskstream/internal/hub"
	"github.com/riskstream/riskstream/internal/logs"
	"github.com/riskstream/riskstream/internal/ratelimit"
	"github.com/riskstream/riskstream/internal/scoring"
	"github.com/riskstream/riskstream/internal/server"
	"github.com/riskstream/riskstream/internal/service"
	"github.com/riskstream/riskstream/internal/simulator"
	"github.com/riskstream/riskstream/internal/store"
	"github.com/riskstream/riskstream/internal/verification"
	"github.com/riskstream/riskstream/pkg/logging"
	"github.com/riskstream/riskstream/pkg/messaging"
	"github.com/riskstream/riskstream/pkg/middleware"

	natsclient "github.com/riskstream/riskstream/pkg/messaging/nats"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logging
	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("riskstream"))
	logging.SetDefault(logger)

	slog.Info("Starting RiskStream service",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Logging.Level),
		slog.String("log_format", cfg.Logging.Format),
	)
	if *configPath != "" {
		slog.Info("Loaded configuration", slog.String("config_path", *configPath))
	}

	// Initialize scoring engine and load model parameters
	engine := scoring.NewEngine(cfg.Scoring.ModelPath)
	if err := engine.Load(); err != nil {
		log.Printf("WARNING: Failed to load fraud model from %s: %v", cfg.Scoring.ModelPath, err)
		log.Println("Scoring requests will fail until the model file is available")
	} else {
		slog.Info("Fraud model loaded", slog.String("model_path", cfg.Scoring.ModelPath))
	}

	// Initialize in-memory state
	eventStore := store.New(cfg.Store.Capacity)
	broadcastHub := hub.New(cfg.Hub.QueueCapacity)
	verificationStore := verification.NewStore(cfg.Store.Capacity)

	// Initialize rate limiter
	var rateLimiter ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter, err := ratelimit.NewRedisRateLimiter(
			cfg.RateLimit.RedisURL,
			cfg.RateLimit.Requests,
			cfg.RateLimit.Window,
			false,
		)
		if err != nil {
			log.Printf("WARNING: Failed to initialize Redis rate limiter: %v", err)
			log.Println("Continuing without rate limiting")
			rateLimiter = &ratelimit.NoOpRateLimiter{}
		} else {
			rateLimiter = limiter
			log.Printf("Rate limiting enabled: %d requests per %s", cfg.RateLimit.Requests, cfg.RateLimit.Window)
		}
	} else {
		rateLimiter = &ratelimit.NoOpRateLimiter{}
		log.Println("Rate limiting disabled in configuration")
	}
	defer rateLimiter.Close()

	// Initialize NATS messaging
	var busPublisher messaging.Publisher
	var verificationSub *verification.Subscriber
	if cfg.NATS.Enabled {
		natsCfg := natsclient.DefaultConfig()
		natsCfg.URL = cfg.NATS.URL
		client, err := natsclient.NewClient(natsCfg)
		if err != nil {
			log.Printf("WARNING: Failed to connect to NATS at %s: %v", cfg.NATS.URL, err)
			log.Println("Continuing without message bus integration")
		} else {
			busPublisher = client
			verificationSub = verification.NewSubscriber(client, verificationStore, logger)
			if err := verificationSub.Start(); err != nil {
				log.Printf("WARNING: Failed to subscribe to verification outcomes: %v", err)
			}
			defer client.Drain()
		}
	} else {
		log.Println("NATS disabled - scored events will not be published to the bus")
	}

	// Initialize the scoring service and log merging
	riskService := service.NewRiskService(engine, eventStore, broadcastHub, busPublisher, logger)
	logMerger := logs.NewMerger(eventStore, verificationStore)
	logAggregator := logs.NewAggregator(eventStore, verificationStore)

	// Initialize HTTP handlers
	txHandler := handlers.NewTransactionHandler(riskService, rateLimiter, logger)
	streamHandler := handlers.NewStreamHandler(broadcastHub, logger)
	logsHandler := handlers.NewLogsHandler(logMerger, logAggregator)

	router := server.NewRouter(txHandler, streamHandler, logsHandler, middleware.CORSConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
	})

	// Start traffic simulator when enabled
	simCtx, simCancel := context.WithCancel(context.Background())
	defer simCancel()
	if cfg.Simulator.Enabled {
		sim := simulator.New(riskService, simulator.Config{
			MinInterval:     cfg.Simulator.MinInterval,
			MaxInterval:     cfg.Simulator.MaxInterval,
			SuspiciousRatio: cfg.Simulator.SuspiciousRatio,
		}, logger)
		go sim.Run(simCtx)
		slog.Info("Traffic simulator started",
			slog.Duration("min_interval", cfg.Simulator.MinInterval),
			slog.Duration("max_interval", cfg.Simulator.MaxInterval),
			slog.Float64("suspicious_ratio", cfg.Simulator.SuspiciousRatio),
		)
	}

	// Create server with config values
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("RiskStream service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	simCancel()
	if verificationSub != nil {
		if err := verificationSub.Stop(); err != nil {
			log.Printf("Failed to stop verification subscriber: %v", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

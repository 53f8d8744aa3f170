// cmd/api/main.go
// Main entry point for the matchmaking API
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/auth"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/common/database"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/config"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/logger"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/matches"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/matching"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/messaging"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/notification"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/personality"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/profile"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/quota"
)

func main() {
	// 1. Load environment variables
	envErr := godotenv.Load()

	// 2. Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting matchmaking API", "environment", cfg.Environment)
	if envErr != nil {
		log.Warn("no .env file found, using environment variables", "error", envErr)
	}

	// 3. Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", "error", err)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// 4. Connect to PostgreSQL
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}
	defer db.Close()
	log.Info("connected to PostgreSQL")

	// 5. Run database migrations
	if err := database.RunMigrations(rootCtx, db); err != nil {
		log.Fatal("failed to run migrations", "error", err)
	}
	log.Info("migrations applied")

	// 6. Quota store. Postgres counters share the proposal transaction;
	// redis and memory counters live beside it.
	var (
		quotaStore quota.Store
		external   quota.Store
	)
	switch cfg.QuotaBackend {
	case "redis":
		redisClient, err := database.NewRedisClientFromURL(rootCtx, cfg.RedisURL)
		if err != nil {
			log.Fatal("failed to connect to Redis", "error", err)
		}
		defer redisClient.Close()
		external = quota.NewRedisStore(redisClient)
		quotaStore = external
	case "memory":
		external = quota.NewMemoryStore()
		quotaStore = external
	default:
		quotaStore = quota.NewPostgresStore(db)
	}
	log.Info("quota store ready", "backend", cfg.QuotaBackend)

	limits := quota.Limits{
		FreeMatches:     cfg.FreeDailyMatches,
		PremiumMatches:  cfg.PremiumDailyMatches,
		FreeMessages:    cfg.FreeDailyMessages,
		PremiumMessages: cfg.PremiumDailyMessages,
	}
	if err := limits.Validate(); err != nil {
		log.Fatal("invalid quota limits", "error", err)
	}
	gate := quota.NewGate(quotaStore, limits, cfg.QuotaLocation(), log.With("component", "quota"))

	// 7. Profiles
	profileService := profile.NewService(profile.NewPostgresRepository(db), log.With("component", "profile"))
	profileHandler := profile.NewHandler(profileService)

	// 8. Compatibility engine
	engineOpts := []matching.EngineOption{matching.WithLogger(log.With("component", "engine"))}
	var scorer *personality.Client
	if cfg.PersonalityScorerURL != "" {
		scorer = personality.NewClient(personality.Config{
			URL:            cfg.PersonalityScorerURL,
			Timeout:        cfg.PersonalityTimeout,
			RequestsPerSec: cfg.PersonalityRPS,
		}, log.With("component", "personality"))
		engineOpts = append(engineOpts, matching.WithAuxScorer(scorer, cfg.PersonalityWeight))
		log.Info("personality scorer enabled", "url", cfg.PersonalityScorerURL)
	}
	engine := matching.NewEngine(engineOpts...)

	// 9. Notifications
	hub := matches.NewHub(log.With("component", "websocket"))
	go hub.Run(rootCtx)

	notifiers := notification.Multi{notification.NewLogNotifier(log.With("component", "notification")), hub}

	if cfg.EnableEmailNotifications {
		var sender notification.EmailSender
		if cfg.EmailProvider == "sendgrid" {
			sender = notification.NewSendGridSender(cfg.SendGridAPIKey, cfg.EmailFrom)
		} else {
			sender = notification.NewMockEmailSender(log)
		}
		notifiers = append(notifiers, notification.NewEmailNotifier(sender, profileService))
		log.Info("email notifications enabled", "provider", cfg.EmailProvider)
	}

	if cfg.EnableSMSNotifications {
		var sender notification.SMSSender
		if cfg.SMSProvider == "twilio" {
			sender = notification.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
		} else {
			sender = notification.NewMockSMSSender(log)
		}
		notifiers = append(notifiers, notification.NewSMSNotifier(sender, profileService))
		log.Info("SMS notifications enabled", "provider", cfg.SMSProvider)
	}

	notifier := notification.NewAsync(notifiers, 256, 10*time.Second, log.With("component", "notification"))
	notifier.Start(rootCtx)

	// 10. Match lifecycle
	matchRepo := matches.NewPostgresRepository(db)
	matchService := matches.NewService(
		matchRepo,
		matches.NewPostgresTransactor(db, external),
		profileService,
		engine,
		gate,
		notifier,
		matches.Config{
			ExpiryWindow:   cfg.MatchExpiryWindow,
			ScoreThreshold: cfg.MatchScoreThreshold,
		},
		log.With("component", "matches"),
	)
	matchHandler := matches.NewHandler(matchService, cfg.MatchScoreThreshold)

	matches.NewScheduler(matchService, cfg.ExpirySweepInterval, log.With("component", "scheduler")).Start(rootCtx)
	log.Info("expiry sweep scheduled", "interval", cfg.ExpirySweepInterval.String())

	// 11. Messaging between matched parties
	messageService := messaging.NewService(
		messaging.NewPostgresRepository(db),
		matchService,
		profileService,
		gate,
		log.With("component", "messaging"),
	)
	messageHandler := messaging.NewHandler(messageService)

	// 12. Routes
	authMiddleware := auth.NewMiddleware(cfg.JWTSecret)
	router := mux.NewRouter()

	var scorerState breakerState
	if scorer != nil {
		scorerState = scorer
	}
	router.HandleFunc("/health", healthCheck(db, scorerState)).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	matches.RegisterRoutes(router, matchHandler, hub, authMiddleware)
	messaging.RegisterRoutes(router, messageHandler, authMiddleware)

	profileRouter := chi.NewRouter()
	profile.RegisterRoutes(profileRouter, profileHandler, authMiddleware)
	router.PathPrefix("/api/v1/profile").Handler(profileRouter)

	router.Use(requestIDMiddleware)
	router.Use(loggingMiddleware(log.With("component", "http")))
	router.Use(corsMiddleware)

	// 13. Create and start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	// Stop the scheduler and hub, then let queued notifications drain
	stop()
	select {
	case <-notifier.Done():
	case <-ctx.Done():
		log.Warn("notification queue not drained before timeout")
	}

	log.Info("server exited gracefully")
}

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/seatfund/backend/internal/config"
	"github.com/seatfund/backend/internal/database"
	"github.com/seatfund/backend/internal/events"
	"github.com/seatfund/backend/internal/handlers"
	mW "github.com/seatfund/backend/internal/middleware"
	"github.com/seatfund/backend/internal/models"
	"github.com/seatfund/backend/internal/repository"
	"github.com/seatfund/backend/internal/services"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// @title Seat Fund Ledger API
// @version 1.0
// @description Double-entry ledger for member transactions, seat contributions and expenses
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Initialize config
	viper.SetConfigFile(".env") // explicitly point to .env file
	viper.AutomaticEnv()        // allow environment variables to override .env

	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")
	viper.BindEnv("jwt.expiry_hours", "JWT_EXPIRY_HOURS")
	viper.BindEnv("argon2.time", "ARGON2_TIME")
	viper.BindEnv("argon2.memory", "ARGON2_MEMORY")
	viper.BindEnv("argon2.threads", "ARGON2_THREADS")
	viper.BindEnv("argon2.key_length", "ARGON2_KEY_LENGTH")
	viper.BindEnv("argon2.salt_length", "ARGON2_SALT_LENGTH")

	if err := viper.ReadInConfig(); err != nil {
		logger.Info("Config file not found, using defaults", zap.Error(err))
	}
	services.SetAuthDefaults()

	dbConfig := config.LoadDatabaseConfig()
	db, err := database.InitDB(dbConfig, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db, dbConfig.Name, logger); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	redisClient := database.InitRedis(context.Background(), config.LoadRedisConfig(), logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	ledgerConfig := config.LoadLedgerConfig()
	publisher, err := events.NewPublisher(ledgerConfig.Events, redisClient)
	if err != nil {
		logger.Fatal("Failed to initialize event publisher", zap.Error(err))
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("Failed to close event publisher", zap.Error(err))
		}
	}()

	repos := repository.New(db)
	transactionService := services.NewTransactionService(db, repos,
		services.WithLogger(logger),
		services.WithPublisher(publisher),
		services.WithIsolation(ledgerConfig.Isolation),
	)
	authService := services.NewAuthService(repos.Users, redisClient, logger)

	ledgerHandler := handlers.NewLedgerHandler(
		transactionService,
		transactionService.Balances(),
		repos.Ledger,
		handlers.RetryPolicy{Attempts: ledgerConfig.RetryAttempts, BaseDelay: ledgerConfig.RetryBaseDelay},
		logger,
	)
	recordHandler := handlers.NewRecordHandler(repos, transactionService, logger)
	historyHandler := handlers.NewHistoryHandler(repos, logger)

	// Setup router
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := "healthy"
		if err := db.PingContext(r.Context()); err != nil {
			status = "degraded"
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": status})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", authService.Login)
		r.Post("/auth/logout", authService.Logout)

		r.Group(func(r chi.Router) {
			r.Use(mW.Auth(authService))

			r.Get("/ledger", ledgerHandler.ListEntries)
			r.Get("/ledger/balances", ledgerHandler.GetBalances)
			r.Get("/members/{id}", recordHandler.GetMember)
			r.Get("/categories", recordHandler.ListCategories)
			r.Get("/transactions", historyHandler.ListTransactions)
			r.Get("/transactions/{id}", historyHandler.GetTransaction)
			r.Get("/expenses", historyHandler.ListExpenses)
			r.Get("/expenses/{id}", historyHandler.GetExpense)
			r.Get("/seat-contributions", historyHandler.ListContributions)
			r.Get("/seat-contributions/{id}", historyHandler.GetContribution)

			r.Group(func(r chi.Router) {
				r.Use(mW.RequireRole(models.RoleAdmin, models.RoleManager))

				r.Post("/members", recordHandler.CreateMember)
				r.Post("/seats", recordHandler.CreateSeat)
				r.Patch("/seats/{id}", recordHandler.UpdateSeat)
				r.Post("/categories", recordHandler.CreateCategory)
				r.Post("/transactions", ledgerHandler.CreateTransaction)
				r.Post("/seat-contributions", ledgerHandler.CreateSeatContribution)
				r.Post("/expenses", ledgerHandler.CreateExpense)
				r.Delete("/{entity}/{id}", recordHandler.DeleteRecord)
			})
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info("Server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("Server stopped")
}

package main

import (
	"context"

	"github.com/seatfund/backend/internal/config"
	"github.com/seatfund/backend/internal/database"
	"github.com/seatfund/backend/internal/repository"
	"github.com/seatfund/backend/internal/services"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

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

	logger.Info("Seeding database...")
	s := newSeeder(repository.New(db), logger)
	admin := config.LoadAdminConfig()
	if err := s.run(context.Background(), admin.Email, admin.Password); err != nil {
		logger.Fatal("Seed error", zap.Error(err))
	}
	logger.Info("Seeding complete.")
}

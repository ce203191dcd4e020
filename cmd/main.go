package main

import (
	"Recipe-Platform/cmd/config"
	migration "Recipe-Platform/cmd/database/migrate"
	"Recipe-Platform/cmd/database/seed"
	"Recipe-Platform/internal/utils"
	"Recipe-Platform/internal/utils/logging"
	"Recipe-Platform/pkg/user"
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	migrate := flag.Bool("migrate", false, "run database migrations before serving")
	seedAdmin := flag.Bool("seed", false, "create the admin account from ADMIN_EMAIL and ADMIN_PASSWORD")
	flag.Parse()

	utils.LoadConfig()
	logging.Init(logging.Config{
		Level:  utils.GetConfig("LOG_LEVEL"),
		Format: utils.GetConfig("LOG_FORMAT"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.ConnectDB()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}

	if *migrate {
		if err := migration.Migrate(db); err != nil {
			logging.Fatal().Err(err).Msg("migration failed")
		}
	}
	if *seedAdmin {
		_, err := seed.SeedAdmin(ctx, user.NewUserRepository(db), utils.GetConfig("ADMIN_EMAIL"), utils.GetConfig("ADMIN_PASSWORD"))
		if err != nil {
			logging.Fatal().Err(err).Msg("seeding admin failed")
		}
	}

	server, err := config.NewApp(ctx, db)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build app")
	}
	server.Scheduler.Start()

	port := utils.GetConfig("APP_PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		if err := server.App.Listen(":" + port); err != nil {
			logging.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()
	logging.Info().Str("port", port).Msg("server started")

	<-ctx.Done()
	logging.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("shutdown finished with errors")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

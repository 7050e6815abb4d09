package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/Amish929/Eco-Gamify-Project/internal/app"
	"github.com/Amish929/Eco-Gamify-Project/internal/config"
	"github.com/Amish929/Eco-Gamify-Project/internal/database"
	"github.com/Amish929/Eco-Gamify-Project/pkg/logger"
)

func main() {
	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)
	migrateDirection := migrateCmd.String("direction", "up", "direction of migration (up/down)")

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			migrateCmd.Parse(os.Args[2:])
			runMigrations(*migrateDirection)
			return
		case "seed":
			runSeed()
			return
		}
	}

	cfg, log := loadConfig()

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create application")
	}

	if cfg.Seed.DemoTasks {
		if err := application.Seed(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to seed demo tasks")
		}
	}

	go func() {
		if err := application.Run(); err != nil {
			log.Fatal().Err(err).Msg("Failed to run application")
		}
	}()

	log.Info().Msgf("Eco-gamify service started on %s", cfg.Server.Address)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown gracefully")
	}

	log.Info().Msg("Eco-gamify service stopped")
}

func loadConfig() (*config.Config, zerolog.Logger) {
	cfg, err := config.Load()
	if err != nil {
		log := logger.New()
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	return cfg, logger.NewWithConfig(cfg.Logging.Level, cfg.Logging.Pretty, cfg.Logging.NoColor)
}

func runMigrations(direction string) {
	cfg, log := loadConfig()

	migrator, err := database.NewMigrator(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create migrator")
	}

	switch direction {
	case "up":
		if err := migrator.Up(); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
		log.Info().Msg("Migrations applied successfully")
	case "down":
		if err := migrator.Down(); err != nil {
			log.Fatal().Err(err).Msg("Failed to rollback migrations")
		}
		log.Info().Msg("Migrations rolled back successfully")
	default:
		log.Fatal().Msg("Invalid migration direction. Use 'up' or 'down'")
	}
}

func runSeed() {
	cfg, log := loadConfig()
	ctx := context.Background()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create application")
	}
	defer application.Shutdown(ctx)

	if err := application.Seed(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed demo tasks")
	}
	log.Info().Msg("Seeding finished")
}

package main

import (
	"PantryPal/cmd/config"
	migration "PantryPal/cmd/database/migrate"
	"PantryPal/internal/utils"
	"PantryPal/pkg/notification"
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

func main() {
	utils.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := config.ConnectStore(ctx)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}

	if err := migration.Migrate(ctx, store); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if migrate, _ := strconv.ParseBool(utils.GetConfig("MIGRATE_LEGACY_STORAGE")); migrate {
		if _, err := migration.ImportLegacyDocuments(ctx, store); err != nil {
			log.Errorf("Legacy document import incomplete: %v", err)
		}
		if _, err := migration.MigrateLegacyStorage(ctx, store.Users); err != nil {
			log.Errorf("Legacy storage migration incomplete: %v", err)
		}
	}

	app, err := config.NewApp(ctx, store)
	if err != nil {
		log.Fatalf("Failed to build app: %v", err)
	}

	scheduler, err := notification.NewScheduler(utils.GetConfig("DIGEST_CRON"), app.Digest)
	if err != nil {
		log.Fatalf("Failed to schedule digest: %v", err)
	}
	scheduler.Start()

	go func() {
		if err := app.Fiber.Listen(":" + utils.GetConfig("APP_PORT")); err != nil {
			log.Errorf("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	if err := app.Fiber.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorf("Server shutdown: %v", err)
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Errorf("Store close: %v", err)
	}
	app.Close()
}

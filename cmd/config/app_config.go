package config

import (
	"PantryPal/internal/api/handlers"
	"PantryPal/internal/api/routes"
	"PantryPal/internal/metrics"
	"PantryPal/internal/middleware"
	"PantryPal/internal/utils"
	"PantryPal/internal/utils/gemini"
	"PantryPal/internal/utils/mailing"
	"PantryPal/internal/utils/storage"
	"PantryPal/pkg/barcode"
	"PantryPal/pkg/inventory"
	"PantryPal/pkg/jwt"
	"PantryPal/pkg/notification"
	"PantryPal/pkg/receipt"
	"PantryPal/pkg/recipe"
	"PantryPal/pkg/user"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// App bundles the HTTP app with the resources main has to release on shutdown.
type App struct {
	Fiber  *fiber.App
	Digest notification.DigestService

	closers []io.Closer
}

func NewApp(ctx context.Context, store *Store) (*App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		BodyLimit:         12 * 1024 * 1024,
	})
	validator := utils.Validate
	res := &App{Fiber: app}

	// setting up logging and limiter
	logDir := utils.GetConfig("LOG_DIR")
	err := os.MkdirAll(logDir, os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		filepath.Join(logDir, "app.log"),
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	res.closers = append(res.closers, file)

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/metrics" || c.Path() == "/api/ping"
		},
	}))
	app.Use(metrics.Middleware())

	// utils
	var s3 storage.AwsS3
	if s3Config := storage.LoadS3Config(); s3Config.Bucket != "" {
		s3, err = storage.NewAwsS3(ctx, s3Config)
		if err != nil {
			return nil, err
		}
	} else {
		log.Warn("AWS_S3_BUCKET is not set, item image upload is disabled")
	}

	var cache barcode.Cache
	if redisURL := utils.GetConfig("REDIS_URL"); redisURL != "" {
		client, err := barcode.NewRedisClient(ctx, redisURL)
		if err != nil {
			log.Warnw("redis unavailable, barcode cache disabled", "error", err)
		} else {
			cache = barcode.NewRedisCache(client)
			res.closers = append(res.closers, client)
		}
	}

	llm := gemini.NewClient(gemini.Config{
		APIKey: utils.GetConfig("GEMINI_API_KEY"),
		Model:  utils.GetConfig("GEMINI_MODEL"),
	})

	var mailer mailing.Mailer
	if mailConfig := mailing.LoadMailConfig(); mailConfig.Enabled() {
		mailer = mailing.NewMailer(mailConfig)
	} else {
		log.Warn("SMTP is not configured, digest emails are disabled")
	}

	sessionTTL, err := time.ParseDuration(utils.GetConfig("SESSION_TTL"))
	if err != nil {
		return nil, err
	}

	// Repository
	userRepository := store.Users

	// Service
	jwtService := jwt.NewJWTService(utils.GetConfig("JWT_SECRET"), sessionTTL)
	userService := user.NewUserService(userRepository, user.NewGoogleVerifier(utils.GetConfig("GOOGLE_USERINFO_URL")), jwtService)
	inventoryService := inventory.NewInventoryService(userRepository, s3)
	recipeService := recipe.NewRecipeService(inventoryService, llm)
	receiptService := receipt.NewReceiptService(llm)
	barcodeService := barcode.NewBarcodeService(utils.GetConfig("BARCODE_API_URL"), cache)
	pushService := notification.NewPushService(utils.GetConfig("PUSH_API_URL"))
	res.Digest = notification.NewDigestService(userRepository, mailer, pushService, utils.GetConfig("APP_URL"))

	// Handler
	appURL := utils.GetConfig("APP_URL")
	userHandler := handlers.NewUserHandler(userService, validator, handlers.SessionConfig{
		CookieName: utils.GetConfig("SESSION_COOKIE_NAME"),
		TTL:        sessionTTL,
		Secure:     strings.HasPrefix(appURL, "https://"),
	})
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	receiptHandler := handlers.NewReceiptHandler(receiptService, validator)
	barcodeHandler := handlers.NewBarcodeHandler(barcodeService)
	notificationHandler := handlers.NewNotificationHandler(pushService, validator)

	// routes
	routesConfig := routes.Config{
		App:                 app,
		UserHandler:         userHandler,
		InventoryHandler:    inventoryHandler,
		RecipeHandler:       recipeHandler,
		ReceiptHandler:      receiptHandler,
		BarcodeHandler:      barcodeHandler,
		NotificationHandler: notificationHandler,
		Middleware:          middleware.NewMiddleware(userRepository, utils.GetConfig("SESSION_COOKIE_NAME"), appURL),
		JWTService:          jwtService,
	}
	routesConfig.Setup()
	return res, nil
}

// Close releases the log file and the redis client.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			log.Warnw("close failed", "error", err)
		}
	}
}

package routes

import (
	"PantryPal/internal/api/handlers"
	"PantryPal/internal/metrics"
	"PantryPal/internal/middleware"
	"PantryPal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

type Config struct {
	App                 *fiber.App
	UserHandler         handlers.UserHandler
	InventoryHandler    handlers.InventoryHandler
	RecipeHandler       handlers.RecipeHandler
	ReceiptHandler      handlers.ReceiptHandler
	BarcodeHandler      handlers.BarcodeHandler
	NotificationHandler handlers.NotificationHandler
	Middleware          middleware.Middleware
	JWTService          jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Auth()
	c.User()
	c.Locations()
	c.Items()
	c.Assistants()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
}

func (c *Config) Auth() {
	auth := c.App.Group("/api/v1/auth")
	{
		auth.Post("/google", c.UserHandler.SignInWithGoogle)
		auth.Post("/logout", c.UserHandler.Logout)
	}
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users", c.Middleware.AuthMiddleware(c.JWTService))
	{
		user.Get("/me", c.UserHandler.Me)
		user.Patch("/me", c.UserHandler.UpdateUser)
		user.Post("/me/push-tokens", c.UserHandler.RegisterPushToken)
	}
}

func (c *Config) Locations() {
	locations := c.App.Group("/api/v1/locations", c.Middleware.AuthMiddleware(c.JWTService))
	locations.Get("", c.InventoryHandler.GetLocations)
	locations.Post("", c.InventoryHandler.CreateLocation)
	locations.Get("/:locationId", c.InventoryHandler.GetLocation)
	locations.Put("/:locationId", c.InventoryHandler.RenameLocation)
	locations.Delete("/:locationId", c.InventoryHandler.DeleteLocation)

	containers := locations.Group("/:locationId/containers")
	containers.Get("", c.InventoryHandler.GetContainers)
	containers.Post("", c.InventoryHandler.CreateContainer)
	containers.Put("/:containerId", c.InventoryHandler.RenameContainer)
	containers.Delete("/:containerId", c.InventoryHandler.DeleteContainer)

	items := containers.Group("/:containerId/items")
	items.Post("", c.InventoryHandler.CreateItem)
	items.Post("/bulk", c.InventoryHandler.CreateItems)
	items.Patch("/:itemId", c.InventoryHandler.UpdateItem)
	items.Delete("/:itemId", c.InventoryHandler.DeleteItem)
	items.Post("/:itemId/image", c.InventoryHandler.UploadItemImage)
}

func (c *Config) Items() {
	items := c.App.Group("/api/v1/items", c.Middleware.AuthMiddleware(c.JWTService))
	items.Get("", c.InventoryHandler.GetItems)
	items.Get("/expiring", c.InventoryHandler.GetExpiringItems)
}

func (c *Config) Assistants() {
	guard := c.Middleware.AuthMiddleware(c.JWTService)
	c.App.Post("/api/v1/recipes/suggestions", guard, c.RecipeHandler.SuggestRecipes)
	c.App.Post("/api/v1/receipts/scan", guard, c.ReceiptHandler.ScanReceipt)
	c.App.Get("/api/v1/barcodes/:code", guard, c.BarcodeHandler.Lookup)
	c.App.Post("/api/v1/notifications/send", guard, c.NotificationHandler.Send)
}

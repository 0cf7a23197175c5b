package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"smartbar/internal/handlers"
	"smartbar/internal/middleware"
	"smartbar/internal/models"
	"smartbar/internal/repositories"
	"smartbar/internal/services"
	"smartbar/pkg/ollama"
	"smartbar/pkg/rabbitmq"
)

// NewApp builds the configured Fiber application with all collaborators
// wired: database, vision model client and (optionally) the event broker.
// The returned cleanup function releases broker resources.
func NewApp() (*fiber.App, func(), error) {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_DSN", "smartbar.db")
	viper.SetDefault("JWT_SECRET", "change-me-in-production")
	viper.SetDefault("OLLAMA_HOST", "http://localhost:11434")
	viper.SetDefault("OLLAMA_MODEL", "llama3.2-vision")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables event publishing
	viper.SetDefault("FRONTEND_URL", "http://localhost:3000")
	viper.AutomaticEnv() // Load environment variables

	// --- Initialize Database (GORM) ---
	db, err := openDatabase(viper.GetString("DATABASE_DRIVER"), viper.GetString("DATABASE_DSN"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.SpiritType{},
		&models.Bottle{},
		&models.Recipe{},
		&models.BarcodeRegistry{},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	// --- Initialize RabbitMQ Client (optional) ---
	var publisher services.EventPublisher
	cleanup := func() {}
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: mqURL})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		publisher = mqClient
		cleanup = func() {
			if err := mqClient.Close(); err != nil {
				log.Printf("Error closing RabbitMQ client: %v", err)
			}
		}

		// Audit consumer: log every bottle event that goes over the queue.
		if err := mqClient.ConsumeBottleEvents(func(msg amqp.Delivery) error {
			log.Printf("Received %s event (Tag: %d): %s", msg.Type, msg.DeliveryTag, string(msg.Body))
			return nil
		}); err != nil {
			log.Printf("Failed to start bottle event consumer: %v", err)
		}
	} else {
		log.Println("RABBITMQ_URL not set; event publishing disabled.")
	}

	// --- Initialize the vision model client ---
	ollamaClient := ollama.NewClient(ollama.Config{Host: viper.GetString("OLLAMA_HOST")})

	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	spiritRepo := repositories.NewGORMSpiritTypeRepository(db)
	bottleRepo := repositories.NewGORMBottleRepository(db)
	recipeRepo := repositories.NewGORMRecipeRepository(db)
	barcodeRepo := repositories.NewGORMBarcodeRepository(db)

	// --- Initialize Services ---
	authService := services.NewAuthService(userRepo, viper.GetString("JWT_SECRET"))
	spiritService := services.NewSpiritTypeService(spiritRepo)
	bottleService := services.NewBottleService(bottleRepo, spiritRepo, publisher)
	recipeService := services.NewRecipeService(recipeRepo, spiritRepo)
	barcodeService := services.NewBarcodeService(barcodeRepo)
	seedService := services.NewSeedService(spiritRepo, recipeRepo)
	importService := services.NewBottleImportService(ollamaClient, viper.GetString("OLLAMA_MODEL"), publisher)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService, seedService)
	spiritHandler := handlers.NewSpiritTypeHandler(spiritService)
	bottleHandler := handlers.NewBottleHandler(bottleService, importService)
	recipeHandler := handlers.NewRecipeHandler(recipeService)
	barcodeHandler := handlers.NewBarcodeHandler(barcodeService)
	seedHandler := handlers.NewSeedHandler(seedService)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New()) // Request logger
	app.Use(cors.New(cors.Config{
		AllowOrigins: viper.GetString("FRONTEND_URL"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")

	// Authentication routes (public)
	authHandler.RegisterRoutes(apiV1)

	// Protected routes (require a valid access token)
	protected := apiV1.Group("", middleware.AuthRequired(authService, userRepo))
	spiritHandler.RegisterRoutes(protected)
	bottleHandler.RegisterRoutes(protected)
	recipeHandler.RegisterRoutes(protected)
	barcodeHandler.RegisterRoutes(protected)
	seedHandler.RegisterRoutes(protected)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app, cleanup, nil
}

// openDatabase opens the configured GORM backend.
func openDatabase(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	case "postgres":
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", driver)
	}
}

func main() {
	app, cleanup, err := NewApp()
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}
	defer cleanup()

	appPort := viper.GetString("APP_PORT")
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"hansei-os/handlers"
	"hansei-os/middleware"
	"hansei-os/models"
	"hansei-os/services"
	"hansei-os/utils"
	"hansei-os/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024, // 50MB for evidence uploads
	})

	// 🔐 GLOBAL: only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	tokenSecret := os.Getenv("MASTERY_TOKEN_SECRET")
	if tokenSecret == "" {
		log.Fatal("MASTERY_TOKEN_SECRET environment variable not set")
	}

	if utils.EvidenceStoreConfigured() {
		if err := utils.InitEvidenceStore(); err != nil {
			log.Fatal("failed to initialize evidence store:", err)
		}
		log.Println("✅ Evidence object store configured")
	} else {
		log.Println("⚠️  Evidence object store not configured, falling back to local uploads/")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.BeltProgress{},
		&models.DailyLog{},
		&models.Horizon{},
		&models.GoalProof{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	aggregator := services.NewActivityAggregator(db)
	progressService := services.NewProgressService(db, aggregator)
	logService := services.NewDailyLogService(db, progressService)
	horizonService := services.NewHorizonService(db)
	proofService := services.NewGoalProofService(db, progressService)
	tokenService := services.NewMasteryTokenService(progressService, []byte(tokenSecret))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rolloverWorker := workers.NewRolloverWorker(db, progressService)
	go rolloverWorker.Start(ctx)

	handlers.SetupProgressionRoutes(app, progressService)
	handlers.SetupDailyLogRoutes(app, logService)
	handlers.SetupHorizonRoutes(app, horizonService)
	handlers.SetupGoalProofRoutes(app, proofService)
	handlers.SetupVerificationRoutes(app, tokenService)

	app.Static("/uploads", "./uploads")

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Daily streak rollover worker running")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

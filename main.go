package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"team-pairing-system/handlers"
	"team-pairing-system/models"
	"team-pairing-system/services"
	"team-pairing-system/utils"
	"team-pairing-system/workers"

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
		AppName: "team-pairing-system",
	})

	// CORS — the frontend may live on another origin
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
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Player{},
		&models.Match{},
		&models.Session{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	teamName := os.Getenv("TEAM_NAME")
	if teamName == "" {
		teamName = "Team"
	}
	teamPassword := os.Getenv("TEAM_PASSWORD")
	if teamPassword == "" {
		log.Fatal("TEAM_PASSWORD environment variable not set")
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	if err := utils.EnsureDataDir(dataDir); err != nil {
		log.Fatal("failed to ensure data dir:", err)
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	authService := services.NewAuthService(db, teamName, teamPassword)
	playerService := services.NewPlayerService(db)
	matchService := services.NewMatchService(db)
	optimizerService := services.NewOptimizerService(db)
	pairingService := services.NewPairingService(db)
	reportService := services.NewReportService(db)
	layoutService := services.NewLayoutService(dataDir)

	backupHours := 24
	if v := os.Getenv("BACKUP_INTERVAL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			backupHours = n
		}
	}
	snapshotWorker := workers.NewSnapshotWorker(db, dataDir, teamName)
	services.StartSnapshotScheduler(snapshotWorker, time.Duration(backupHours)*time.Hour)

	handlers.SetupAuthRoutes(app, authService)
	handlers.SetupPlayerRoutes(app, playerService)
	handlers.SetupMatchRoutes(app, matchService, optimizerService, pairingService, layoutService)
	handlers.SetupReportRoutes(app, reportService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5100"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ Team: %s", teamName)
	log.Printf("✅ Snapshots every %dh (R2 upload: %t)", backupHours, utils.R2Enabled())
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

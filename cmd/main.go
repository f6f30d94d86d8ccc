package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/btrkeks/innovation-coach-backend/internal/db"
	"github.com/btrkeks/innovation-coach-backend/internal/handlers"
	"github.com/btrkeks/innovation-coach-backend/internal/logger"
	"github.com/btrkeks/innovation-coach-backend/internal/middleware"
	"github.com/btrkeks/innovation-coach-backend/internal/repos"
	"github.com/btrkeks/innovation-coach-backend/internal/server"
	"github.com/btrkeks/innovation-coach-backend/internal/services"
	"github.com/btrkeks/innovation-coach-backend/internal/utils"
)

func main() {
	// .env is optional; real deployments configure the environment directly.
	_ = godotenv.Load()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	questionThreshold := utils.GetEnvAsInt("CHAT_QUESTION_THRESHOLD", 0, log)
	aiProvider := utils.GetEnv("AI_PROVIDER", "gemini", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	chatMessageRepo := repos.NewChatMessageRepo(thePG, log)
	personRepo := repos.NewPersonRepo(thePG, log)
	eventRepo := repos.NewEventRepo(thePG, log)
	foerderungRepo := repos.NewFoerderungRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	var gen services.TextGenerator
	switch aiProvider {
	case "openai":
		gen, err = services.NewOpenAIClient(log)
	default:
		gen, err = services.NewGeminiClient(log)
	}
	if err != nil {
		log.Error("Could not init text generator", "provider", aiProvider, "error", err)
		os.Exit(1)
	}

	matchingService := services.NewMatchingService(log, gen, userRepo, chatMessageRepo, personRepo, eventRepo, foerderungRepo)
	chatService := services.NewChatService(thePG, log, userRepo, chatMessageRepo, gen, matchingService, questionThreshold)
	webpageService := services.NewWebpageService(log, gen, userRepo)
	companyInfoService := services.NewCompanyInfoService(log, userRepo)
	authService := services.NewAuthService(thePG, log, userRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second)
	userService := services.NewUserService(log, userRepo, chatMessageRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	chatHandler := handlers.NewChatHandler(log, chatService)
	webpageHandler := handlers.NewWebpageHandler(log, webpageService)
	companyInfoHandler := handlers.NewCompanyInfoHandler(log, companyInfoService)
	twilioHandler := handlers.NewTwilioHandler(log, chatService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:        authHandler,
		AuthMiddleware:     authMiddleware,
		UserHandler:        userHandler,
		ChatHandler:        chatHandler,
		WebpageHandler:     webpageHandler,
		CompanyInfoHandler: companyInfoHandler,
		TwilioHandler:      twilioHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}

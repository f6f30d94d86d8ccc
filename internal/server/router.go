package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/btrkeks/innovation-coach-backend/internal/handlers"
	"github.com/btrkeks/innovation-coach-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	UserHandler        *handlers.UserHandler
	ChatHandler        *handlers.ChatHandler
	WebpageHandler     *handlers.WebpageHandler
	CompanyInfoHandler *handlers.CompanyInfoHandler
	TwilioHandler      *handlers.TwilioHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.POST("/chat", cfg.ChatHandler.Chat)
	router.GET("/process-webpage", cfg.WebpageHandler.ProcessWebpage)
	router.POST("/update-company-info", cfg.CompanyInfoHandler.UpdateCompanyInfo)
	router.GET("/chat-history", cfg.UserHandler.GetChatHistory)
	router.POST("/twilio/call", cfg.TwilioHandler.HandleIncomingCall)
	router.POST("/twilio/process-input", cfg.TwilioHandler.ProcessCallInput)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	protected.GET("/user", cfg.UserHandler.GetMe)

	return router
}

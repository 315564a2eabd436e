package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/vincenteouswilliam/azure-ai-day-demo/ai"
	"github.com/vincenteouswilliam/azure-ai-day-demo/auth"
	"github.com/vincenteouswilliam/azure-ai-day-demo/config"
	_ "github.com/vincenteouswilliam/azure-ai-day-demo/docs" // Swagger docs
	"github.com/vincenteouswilliam/azure-ai-day-demo/handlers"
	"github.com/vincenteouswilliam/azure-ai-day-demo/search"
	"github.com/vincenteouswilliam/azure-ai-day-demo/service"
)

func main() {
	cfg := config.GetConfig()

	// Initialize OpenAI client (required)
	aiClient, err := ai.New(cfg.OpenAI)
	if err != nil {
		log.Fatalf("Failed to initialize OpenAI client: %v", err)
	}

	// Initialize search client (required for document mode)
	var searchClient service.DocumentSearcher
	if sc, err := search.NewClient(cfg.Search); err != nil {
		log.Printf("Warning: failed to initialize search client: %v", err)
		log.Println("Document mode will be unavailable")
	} else {
		searchClient = sc
	}

	// Initialize PostgreSQL ticket store (required for database mode)
	var ticketService *service.PostgresTicketService
	if ticketService, err = service.NewPostgresTicketService(cfg.Postgres); err != nil {
		log.Printf("Warning: failed to initialize ticket store: %v", err)
		log.Println("Database mode will be unavailable")
		ticketService = nil
	} else {
		defer ticketService.Close()
	}

	// Optional collaborators for image-grounded answering
	var vision service.VisionVectorizer
	if vc, err := ai.NewVisionClient(cfg.Vision); err == nil {
		vision = vc
		log.Println("Computer vision client initialized, image retrieval enabled")
	}
	var tokens service.TokenProvider
	if tp, err := auth.NewClientCredentialsProvider(cfg.Auth); err == nil {
		tokens = tp
	}

	notifier := service.NewMailNotifier(cfg.Mail)

	var tickets service.TicketStore
	if ticketService != nil {
		tickets = ticketService
	}

	chatService := service.NewChatService(aiClient, aiClient, searchClient, tickets, notifier, service.ChatOptions{
		Vision:          vision,
		Tokens:          tokens,
		CitationBaseURL: cfg.CitationBaseURL,
		StorageScope:    cfg.Auth.StorageScope,
		ExpectedTable:   "customer_support_tickets",
	})

	var pinger handlers.DBPinger
	if ticketService != nil {
		pinger = ticketService
	}
	h := handlers.New(chatService, pinger, notifier, cfg.Mail)

	// Setup Gin router
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "Cache-Control", "X-Requested-With"}
	r.Use(cors.New(corsConfig))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Routes
	r.GET("/health", h.HealthHandler)
	r.POST("/api/chat", h.ChatHandler)
	r.GET("/api/db", h.DBCheckHandler)
	r.GET("/api/mail", h.MailCheckHandler)
	r.GET("/api/enableLogout", h.EnableLogoutHandler)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

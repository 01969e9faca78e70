package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cookideas/server/internal/auth"
	"github.com/cookideas/server/internal/authz"
	"github.com/cookideas/server/internal/config"
	"github.com/cookideas/server/internal/database"
	"github.com/cookideas/server/internal/handlers"
	"github.com/cookideas/server/internal/middleware"
	"github.com/cookideas/server/internal/services"
	"github.com/cookideas/server/internal/storage"
	"github.com/gin-gonic/gin"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Config file path (YAML, optional)")
	dbPath := flag.String("db-path", "", "Database file path (overrides config)")
	port := flag.String("port", "", "Server port (overrides config)")
	corsOrigin := flag.String("cors-origin", "", "Allowed CORS origin (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *corsOrigin != "" {
		cfg.Server.CORSOrigin = *corsOrigin
	}

	// Initialize database
	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Document storage (disabled when no endpoint is configured)
	objects, err := storage.NewClient(storage.Config{
		Endpoint:        cfg.Storage.Endpoint,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		UseSSL:          cfg.Storage.UseSSL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}
	if !objects.Enabled() {
		log.Println("Object storage disabled; document uploads will be rejected")
	}

	// Initialize services
	authService := auth.NewAuth(db.DB)
	profileService := services.NewProfileService(db.DB)
	ideaService := services.NewIdeaService(db.DB)
	membershipService := services.NewMembershipService(db.DB)
	debtService := services.NewDebtService(db.DB, profileService)
	roleService := services.NewRoleService(db.DB, profileService, membershipService, debtService)
	financeService := services.NewFinanceService(db.DB)
	ndaService := services.NewNDAService(db.DB, membershipService)
	documentService := services.NewDocumentService(db.DB, objects)

	enforcer, err := authz.NewEnforcer(membershipService)
	if err != nil {
		log.Fatalf("Failed to initialize enforcer: %v", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.Server.CookieSecure)
	profileHandler := handlers.NewProfileHandler(profileService)
	ideaHandler := handlers.NewIdeaHandler(ideaService, membershipService, ndaService, enforcer)
	memberHandler := handlers.NewMemberHandler(membershipService, roleService)
	ndaHandler := handlers.NewNDAHandler(ideaService, membershipService, ndaService)
	financeHandler := handlers.NewFinanceHandler(financeService, debtService, membershipService, enforcer)
	documentHandler := handlers.NewDocumentHandler(documentService, membershipService, enforcer)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigin))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api")

	// Auth routes
	authRoutes := api.Group("/auth")
	authRoutes.Use(middleware.AuthRateLimitMiddleware())
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authProtected := authRoutes.Group("")
	authProtected.Use(middleware.AuthMiddleware(authService))
	authProtected.POST("/logout", authHandler.Logout)
	authProtected.GET("/me", authHandler.Me)

	// Profile routes (protected)
	profilesAPI := api.Group("/profiles")
	profilesAPI.Use(middleware.AuthMiddleware(authService))
	profilesAPI.GET("/:username", profileHandler.GetByUsername)
	profilesAPI.PUT("/me", profileHandler.Update)

	// Idea routes (protected)
	ideasAPI := api.Group("/ideas")
	ideasAPI.Use(middleware.AuthMiddleware(authService))
	ideasAPI.GET("", ideaHandler.List)
	ideasAPI.POST("", ideaHandler.Create)
	ideasAPI.GET("/public", ideaHandler.ListPublic)
	ideasAPI.GET("/:id", ideaHandler.Get)
	ideasAPI.PUT("/:id", ideaHandler.Update)
	ideasAPI.PATCH("/:id", ideaHandler.Update)
	ideasAPI.GET("/:id/permissions", ideaHandler.Permissions)

	// NDA routes (never gated; contractors must be able to read and accept)
	ideasAPI.GET("/:id/nda", ndaHandler.Get)
	ideasAPI.PUT("/:id/nda", ndaHandler.Update)
	ideasAPI.POST("/:id/nda/accept", ndaHandler.Accept)

	// Idea sub-resources, gated for contractors pending NDA acceptance
	ndaGate := middleware.NDAGateMiddleware(ndaService)

	// Member routes
	ideasAPI.GET("/:id/members", ndaGate, memberHandler.List)
	ideasAPI.POST("/:id/members", ndaGate, memberHandler.AssignRole)
	ideasAPI.DELETE("/:id/members/:membershipId", ndaGate, memberHandler.Remove)

	// Finance routes
	ideasAPI.GET("/:id/transactions", ndaGate, financeHandler.ListTransactions)
	ideasAPI.POST("/:id/transactions", ndaGate, financeHandler.AddTransaction)
	ideasAPI.GET("/:id/finance/summary", ndaGate, financeHandler.Summary)
	ideasAPI.GET("/:id/debts", ndaGate, financeHandler.ListDebts)

	// Document routes
	ideasAPI.GET("/:id/documents", ndaGate, documentHandler.List)
	ideasAPI.POST("/:id/documents", ndaGate, documentHandler.Upload)
	ideasAPI.GET("/:id/documents/:docId", ndaGate, documentHandler.Download)
	ideasAPI.DELETE("/:id/documents/:docId", ndaGate, documentHandler.Delete)

	// Start cleanup goroutine for expired sessions
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := authService.CleanupExpiredSessions(context.Background()); err != nil {
				log.Printf("Failed to cleanup expired sessions: %v", err)
			}
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Printf("Cook.ideas API server starting on %s", addr)
		if err := router.Run(addr); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	log.Println("Server stopped")
}

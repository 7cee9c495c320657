package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"roomstay/internal/auth"
	"roomstay/internal/cache"
	"roomstay/internal/config"
	"roomstay/internal/counters"
	"roomstay/internal/csrf"
	"roomstay/internal/database"
	"roomstay/internal/handlers"
	"roomstay/internal/ratelimit"
	"roomstay/internal/scheduler"
	"roomstay/internal/search"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	configPath := getEnvDefault("CONFIG_PATH", "/app/config/roomstay.yaml")
	appConfig, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config from %s: %v. Using defaults.", configPath, err)
		appConfig = config.DefaultConfig()
	} else {
		log.Printf("Loaded configuration from %s", configPath)
	}

	if appConfig.Auth.JWTSecret == "" || appConfig.Auth.CSRFSecret == "" {
		log.Fatal("JWT_SECRET and CSRF_SECRET must be configured")
	}

	// Initialize database
	db, err := database.NewGormDB(appConfig.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	// Elevated connection for the counter fallback path
	serviceDB, err := database.NewServiceRoleDB(appConfig.Database)
	if err != nil {
		log.Fatalf("Failed to open service-role connection: %v", err)
	}
	defer serviceDB.Close()

	// Initialize Meilisearch
	var searchClient *search.Client
	if appConfig.Search.Enabled {
		searchClient = search.NewClient(appConfig.Search.Host, appConfig.Search.APIKey)
		if err := searchClient.InitIndex(); err != nil {
			log.Printf("Warning: Failed to initialize search index: %v", err)
		}
	}

	// Core services
	cacheStore := cache.NewStore()
	limiter := ratelimit.NewLimiter(appConfig.RateLimit.Window(), map[ratelimit.RouteClass]int{
		ratelimit.ClassRead:  appConfig.RateLimit.ReadBudget,
		ratelimit.ClassWrite: appConfig.RateLimit.WriteBudget,
		ratelimit.ClassAdmin: appConfig.RateLimit.AdminBudget,
	}, appConfig.RateLimit.Enabled)
	log.Printf("Rate limiter initialized: window=%s read=%d write=%d admin=%d (enabled: %v)",
		appConfig.RateLimit.Window(),
		appConfig.RateLimit.ReadBudget,
		appConfig.RateLimit.WriteBudget,
		appConfig.RateLimit.AdminBudget,
		appConfig.RateLimit.Enabled,
	)

	csrfService := csrf.NewService(appConfig.Auth.CSRFSecret, appConfig.Auth.CSRFTTL())
	verifier := auth.NewVerifier(appConfig.Auth.JWTSecret)
	reconciler := counters.NewReconciler(db, serviceDB, appConfig.Server.RequestTimeoutDuration())

	// Scheduler for nightly reindex + cleanup
	appScheduler := scheduler.NewScheduler(db, searchClient, appConfig)
	if err := appScheduler.Start(); err != nil {
		log.Printf("Warning: Failed to start scheduler: %v", err)
	}
	defer appScheduler.Stop()

	h := handlers.NewHandler(db, cacheStore, searchClient, csrfService, reconciler, appConfig)
	adminHandler := handlers.NewAdminHandler(db, appScheduler,
		appConfig.Cleanup.RetentionDays, appConfig.Cleanup.MaxDeletionRun)

	// Setup Gin router
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     appConfig.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-CSRF-Token"},
		AllowCredentials: true,
	}))

	r.GET("/health", healthCheck)

	readLimit := handlers.RateLimitMiddleware(limiter, ratelimit.ClassRead)
	writeLimit := handlers.RateLimitMiddleware(limiter, ratelimit.ClassWrite)
	adminLimit := handlers.RateLimitMiddleware(limiter, ratelimit.ClassAdmin)
	authRequired := handlers.AuthMiddleware(verifier)
	csrfRequired := handlers.CSRFMiddleware(csrfService)

	// Catalog reads
	r.GET("/api/products", readLimit, h.ListProducts)
	r.GET("/api/products/:handle", readLimit, h.GetProduct)
	r.GET("/api/collections/:handle", readLimit, h.GetCollection)
	r.GET("/api/search", readLimit, h.SearchListings)

	// Counters: publicly triggerable, structured outcome
	r.POST("/api/properties/:id/view", readLimit, h.IncrementView)
	r.POST("/api/properties/:id/lead", readLimit, h.IncrementLead)

	// Authenticated owner routes
	r.GET("/api/csrf", readLimit, authRequired, h.IssueCSRFToken)
	r.GET("/api/my/properties", readLimit, authRequired, h.MyListings)
	r.POST("/api/properties", writeLimit, authRequired, csrfRequired, h.CreateListing)
	r.PUT("/api/properties/:id", writeLimit, authRequired, csrfRequired, h.UpdateListing)
	r.DELETE("/api/properties/:id", writeLimit, authRequired, csrfRequired, h.DeleteListing)

	// Admin tier: static secret header, no per-user CSRF
	admin := r.Group("/api/admin", adminLimit, handlers.AdminSecretMiddleware(appConfig.Auth.AdminSecret))
	{
		admin.GET("/stats", adminHandler.GetStats)
		admin.GET("/ratelimit/stats", func(c *gin.Context) {
			c.JSON(http.StatusOK, limiter.GetStats())
		})
		admin.GET("/properties", adminHandler.ListProperties)
		admin.POST("/properties/:id/approve", adminHandler.ApproveProperty)
		admin.POST("/properties/:id/deactivate", adminHandler.DeactivateProperty)
		admin.GET("/settings", adminHandler.GetSettings)
		admin.PUT("/settings", adminHandler.PutSetting)
		admin.POST("/search/reindex", adminHandler.TriggerReindex)
		admin.POST("/cleanup/run", adminHandler.RunCleanup)
	}

	port := appConfig.Server.Port
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now(),
	})
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

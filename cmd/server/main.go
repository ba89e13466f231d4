package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging
	"time"    // Token lifetime

	"vaultbank/internal/api"        // Custom package for API handlers
	"vaultbank/internal/config"     // Custom package for configuration
	"vaultbank/internal/deduction"  // Deduction sweeper
	"vaultbank/internal/middleware" // Custom package for middleware
	"vaultbank/internal/store"      // Record-store adapter
	"vaultbank/internal/vault"      // Vault engine
	"vaultbank/internal/wallet"     // Wallet engine

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database.
	// TranslateError lets the store map duplicate-phone inserts cleanly.
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Wire the store and the engines
	st := store.NewGorm(db)                                                   // Record-store adapter over MySQL
	names := wallet.NewMockNames(cfg.Wallet.FirstNames, cfg.Wallet.LastNames) // Mock banking name provider
	walletEngine := wallet.NewEngine(st, cfg.Wallet, names)                   // Wallet balance engine
	vaultEngine := vault.NewEngine(st)                                        // Vault engine
	sweeper := deduction.NewSweeper(st)                                       // Deduction sweeper
	tokenTTL := time.Duration(cfg.JWTTTL) * time.Hour                         // Session token lifetime

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	authRequired := middleware.JWTAuthMiddleware(cfg.JWTSecret) // Identity gate

	apiGroup := r.Group("/api")

	// User routes
	userGroup := apiGroup.Group("/users")
	userGroup.POST("/register", api.RegisterHandler(st))                    // Registration endpoint
	userGroup.POST("/login", api.LoginHandler(st, cfg.JWTSecret, tokenTTL)) // Login endpoint
	userGroup.GET("/profile", authRequired, api.ProfileHandler(st))         // Own profile endpoint
	userGroup.GET("/:id", authRequired, api.GetUserHandler(st))             // User lookup endpoint

	// Vault routes (protected by JWT)
	vaultGroup := apiGroup.Group("/vaults")
	vaultGroup.Use(authRequired)
	vaultGroup.POST("/create", api.CreateVaultHandler(vaultEngine))        // Create vault endpoint
	vaultGroup.PATCH("/:id/deposit", api.DepositVaultHandler(vaultEngine)) // Vault deposit endpoint

	// Wallet routes (protected by JWT)
	walletGroup := apiGroup.Group("/wallets")
	walletGroup.Use(authRequired)
	walletGroup.GET("/balance", api.GetBalanceHandler(walletEngine, redisClient))           // Balance endpoint
	walletGroup.GET("/banks", api.GetBanksHandler(walletEngine))                            // Supported banks endpoint
	walletGroup.POST("/fund", api.FundHandler(walletEngine, redisClient))                   // Funding endpoint
	walletGroup.POST("/withdraw", api.WithdrawHandler(walletEngine, redisClient))           // Withdrawal endpoint
	walletGroup.GET("/transactions", api.GetTransactionsHandler(walletEngine, redisClient)) // Transaction history endpoint

	// Deduction sweep (cron-facing, no bearer token)
	apiGroup.POST("/deductions/simulate", api.SimulateDeductionsHandler(sweeper, redisClient))

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}

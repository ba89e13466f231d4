package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort    string // Application port
	DBUser     string // Database user
	DBPassword string // Database password
	DBHost     string // Database host
	DBPort     string // Database port
	DBName     string // Database name
	JWTSecret  string // JWT secret key
	JWTTTL     int    // JWT lifetime in hours
	RedisAddr  string // Redis server address
	RedisPass  string // Redis password
	RedisDB    int    // Redis database number
	IsProd     bool   // Is production environment

	Wallet WalletConfig // Immutable wallet settings
}

// WalletConfig is the fixed wallet configuration: the supported withdrawal
// banks and the name pools backing the mock account-holder generator. Built
// once at startup and passed by reference into the wallet engine; never
// mutated afterwards.
type WalletConfig struct {
	Banks      []string // Supported withdrawal banks
	FirstNames []string // Mock holder first names
	LastNames  []string // Mock holder last names
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	jwtTTL, err := strconv.Atoi(os.Getenv("JWT_TTL_HOURS"))
	if err != nil || jwtTTL <= 0 {
		jwtTTL = 24 // Default token lifetime
	}
	return &Config{
		AppPort:    os.Getenv("APP_PORT"),          // Application port
		DBUser:     os.Getenv("DB_USER"),           // Database user
		DBPassword: os.Getenv("DB_PASSWORD"),       // Database password
		DBHost:     os.Getenv("DB_HOST"),           // Database host
		DBPort:     os.Getenv("DB_PORT"),           // Database port
		DBName:     os.Getenv("DB_NAME"),           // Database name
		JWTSecret:  os.Getenv("JWT_SECRET"),        // JWT secret key
		JWTTTL:     jwtTTL,                         // JWT lifetime in hours
		RedisAddr:  os.Getenv("REDIS_ADDR"),        // Redis server address
		RedisPass:  os.Getenv("REDIS_PASS"),        // Redis password
		RedisDB:    redisDB,                        // Redis database number
		IsProd:     os.Getenv("IS_PROD") == "true", // Is production environment
		Wallet:     DefaultWalletConfig(),          // Fixed wallet settings
	}
}

// DefaultWalletConfig returns the built-in bank list and name pools
func DefaultWalletConfig() WalletConfig {
	return WalletConfig{
		Banks: []string{
			"First National Bank",
			"City Trust Bank",
			"Metropolitan Savings",
			"Union Credit Bank",
			"Heritage Financial",
			"Central Trust Co",
			"Premier Banking",
			"Community Bank",
		},
		FirstNames: []string{"John", "Sarah", "Michael", "Emma", "David", "Lisa", "Robert", "Anna", "James", "Maria"},
		LastNames:  []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Wilson", "Taylor"},
	}
}

package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort       string // HTTP listen port
	SecretKey     string // Session token signing secret
	MySQLUser     string // Database user
	MySQLPassword string // Database password
	MySQLHost     string // Database host
	MySQLPort     string // Database port
	MySQLDB       string // Database name
	RedisAddr     string // Redis server address
	RedisPass     string // Redis password
	RedisDB       int    // Redis database number
	IsProd        bool   // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	cfg := &Config{
		AppPort:       os.Getenv("APP_PORT"),
		SecretKey:     os.Getenv("SECRET_KEY"),
		MySQLUser:     os.Getenv("MYSQL_USER"),
		MySQLPassword: os.Getenv("MYSQL_PASSWORD"),
		MySQLHost:     os.Getenv("MYSQL_HOST"),
		MySQLPort:     os.Getenv("MYSQL_PORT"),
		MySQLDB:       os.Getenv("MYSQL_DB"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPass:     os.Getenv("REDIS_PASS"),
		RedisDB:       redisDB,
		IsProd:        os.Getenv("IS_PROD") == "true",
	}
	// Local development defaults
	if cfg.AppPort == "" {
		cfg.AppPort = "8080"
	}
	if cfg.SecretKey == "" {
		cfg.SecretKey = "dev-secret-change"
	}
	if cfg.MySQLUser == "" {
		cfg.MySQLUser = "root"
	}
	if cfg.MySQLHost == "" {
		cfg.MySQLHost = "127.0.0.1"
	}
	if cfg.MySQLPort == "" {
		cfg.MySQLPort = "3306"
	}
	if cfg.MySQLDB == "" {
		cfg.MySQLDB = "tourism_management"
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = "127.0.0.1:6379"
	}
	return cfg
}

// DSN builds the MySQL connection string for GORM
func (c *Config) DSN() string {
	return c.MySQLUser + ":" + c.MySQLPassword + "@tcp(" + c.MySQLHost + ":" + c.MySQLPort + ")/" + c.MySQLDB + "?parseTime=true"
}

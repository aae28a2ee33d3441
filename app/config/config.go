package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type Config struct {
	DB         *sql.DB
	Addr       string
	JWTSecret  string
	SyncAPIKey string
}

var AppConfig *Config

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// InitDB loads environment configuration and opens the database pool.
// A .env file is honoured when present so local development does not need
// exported variables.
func InitDB() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	host := getenv("DB_HOST", "localhost")
	port, err := strconv.Atoi(getenv("DB_PORT", "5432"))
	if err != nil {
		log.Fatal("Invalid DB_PORT:", err)
	}
	user := getenv("DB_USER", "postgres")
	password := os.Getenv("DB_PASS")
	dbname := getenv("DB_NAME", "vyaparforge")

	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s connect_timeout=10",
		host, port, user, dbname, getenv("DB_SSLMODE", "disable"))
	if password != "" {
		psqlInfo += " password=" + password
	}

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if err = db.Ping(); err != nil {
		log.Fatalf("Cannot establish database connection to %s:%d/%s: %v", host, port, dbname, err)
	}

	AppConfig = &Config{
		DB:         db,
		Addr:       getenv("ADDR", ":8080"),
		JWTSecret:  getenv("JWT_SECRET", "vyaparforge-dev-secret"),
		SyncAPIKey: os.Getenv("SYNC_API_KEY"),
	}
	if AppConfig.SyncAPIKey == "" {
		log.Println("Warning: SYNC_API_KEY not set, payment feed endpoint will reject all requests")
	}
	log.Println("Database connected successfully")
}

func GetDB() *sql.DB {
	return AppConfig.DB
}

// GetSyncAPIKey returns the shared secret expected in the x-api-key header
// of the payment feed endpoint.
func GetSyncAPIKey() string {
	return AppConfig.SyncAPIKey
}

// GetJWTSecret returns the key used to sign session tokens.
func GetJWTSecret() string {
	return AppConfig.JWTSecret
}

package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/laboissim/laboissim/db"
	"github.com/laboissim/laboissim/internal/auth"
	"github.com/laboissim/laboissim/internal/handlers"
	"github.com/laboissim/laboissim/internal/oauth"
	"github.com/laboissim/laboissim/internal/router"
	"github.com/laboissim/laboissim/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on the environment")
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if err := db.ConnectDatabase(dsn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	store, err := storage.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	handlers.InitStorage(store)
	handlers.InitOAuth(oauth.NewClientFromEnv())

	r := router.NewRouter()

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "8080"
		log.Println("PORT not set, defaulting to 8080")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

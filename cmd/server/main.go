package main

import (
	"context"
	"log"

	"gouq/adapters/postgres"
	"gouq/internal/config"
	"gouq/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}
	env := config.LoadEnv()

	if env.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required for the study server")
	}
	db, err := sqlx.Connect("postgres", env.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewStudyRepository(db)
	if err := repo.Migrate(context.Background()); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	log.Printf("Starting study server on http://localhost:%s", env.ServerPort)
	log.Fatal(ui.NewServer(repo).Start(env.ServerPort))
}

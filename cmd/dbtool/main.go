package main

import (
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"delivery-dispatch-service/internal/adapters/persistence"
	"delivery-dispatch-service/internal/config"
	"delivery-dispatch-service/internal/platform/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.OpenPostgres(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	store := persistence.NewPostgresStore(conn)

	log.Println("Initializing database schema...")
	if err := persistence.InitSchema(conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	// The seed file gets first claim on an empty database; built-in defaults
	// fill anything it leaves out.
	seedPath := config.Get("SEED_PATH", "")
	if seedPath == "" {
		if _, err := persistence.Bootstrap(store); err != nil {
			log.Fatalf("default seeding failed: %v", err)
		}
		return
	}

	log.Println("Seeding database...")
	if err := persistence.SeedFromJSON(store, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}

package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"delivery-dispatch-service/internal/adapters/persistence"
	"delivery-dispatch-service/internal/adapters/pricing"
	"delivery-dispatch-service/internal/api"
	"delivery-dispatch-service/internal/config"
	"delivery-dispatch-service/internal/dispatch"
	"delivery-dispatch-service/internal/platform/db"
)

// main is the application composition root. It wires the snapshot store and
// pricing calculator behind ports, restores the dispatch state, and starts
// the HTTP server plus the batching scheduler.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")
	tickSeconds, err := strconv.Atoi(config.Get("TICK_SECONDS", "30"))
	if err != nil || tickSeconds < 1 {
		log.Fatal("TICK_SECONDS must be a positive integer")
	}

	conn, store, err := openStore()
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	snap, err := persistence.Bootstrap(store)
	if err != nil {
		log.Fatal(err)
	}

	engine := dispatch.New(snap, nil, store)
	calc := pricing.NewCalculator(snap.PricingBands, snap.PricingZones, engine)
	engine.SetPricing(calc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go engine.RunTickLoop(ctx, time.Duration(tickSeconds)*time.Second)

	router := api.NewRouter(engine)

	log.Printf("Server listening addr=:%s orders=%d couriers=%d routes=%d",
		port, len(snap.Orders), len(snap.Couriers), len(snap.Routes))
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openStore picks Postgres when DATABASE_URL is set, file-backed SQLite
// otherwise.
func openStore() (*sql.DB, *persistence.Store, error) {
	if databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); databaseURL != "" {
		conn, err := db.OpenPostgres(databaseURL)
		if err != nil {
			return nil, nil, err
		}
		return conn, persistence.NewPostgresStore(conn), nil
	}

	dbPath := config.Get("DB_PATH", "data/dispatch.db")
	conn, err := db.OpenSqlite(dbPath)
	if err != nil {
		return nil, nil, err
	}
	return conn, persistence.NewSqliteStore(conn), nil
}

package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"tour-route-service/internal/adapters/cache"
	"tour-route-service/internal/adapters/repositories"
	"tour-route-service/internal/api"
	"tour-route-service/internal/config"
	"tour-route-service/internal/metrics"
	"tour-route-service/internal/platform/db"
	"tour-route-service/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (postgres or sqlite, redis) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")
	seedPath := config.Get("SEED_PATH", "data/seeds/tour.json")

	conn, local, err := openDB()
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	// Local sqlite runs get schema and demo data on startup; postgres
	// deployments use dbtool instead.
	if local {
		if err := initAndSeed(conn, seedPath); err != nil {
			log.Fatal(err)
		}
	}

	store := repositories.NewStore(conn)

	var resultCache ports.ResultCache
	if addr := strings.TrimSpace(os.Getenv("REDIS_ADDR")); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		resultCache = cache.NewRedisResultCache(client, cacheTTL())
		log.Printf("Result cache enabled addr=%s", addr)
	}

	metrics.Register()

	router := api.NewRouter(api.Deps{
		Tours:           store,
		Venues:          store,
		Cache:           resultCache,
		OptimizeTimeout: optimizeTimeout(),
	})

	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openDB prefers DATABASE_URL (postgres) and falls back to a local sqlite
// file. The second return reports whether the fallback was taken.
func openDB() (*sql.DB, bool, error) {
	if databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); databaseURL != "" {
		conn, err := db.Open(databaseURL)
		return conn, false, err
	}

	conn, err := db.OpenSQLite(config.Get("DB_PATH", "data/app.db"))
	return conn, true, err
}

func optimizeTimeout() time.Duration {
	d, err := time.ParseDuration(config.Get("OPTIMIZE_TIMEOUT", "10s"))
	if err != nil {
		log.Printf("invalid OPTIMIZE_TIMEOUT, using default: %v", err)
		return 0
	}
	return d
}

func cacheTTL() time.Duration {
	d, err := time.ParseDuration(config.Get("RESULT_CACHE_TTL", "10m"))
	if err != nil {
		log.Printf("invalid RESULT_CACHE_TTL, using default: %v", err)
		return 0
	}
	return d
}

func initAndSeed(conn *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(conn, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

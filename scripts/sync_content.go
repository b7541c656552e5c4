// Sync curriculum content from a YAML file into the database.
//
// The same upsert also runs behind POST /api/admin/content; this script is
// for local development and CI seeding where no server is running.
//
// Usage: go run scripts/sync_content.go content/alphabet.yaml

package main

import (
	"log"
	"os"

	"alifbe_backend/internal/config"
	"alifbe_backend/internal/repository"
	"alifbe_backend/internal/service"
	"alifbe_backend/pkg/database"
	"alifbe_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: go run scripts/sync_content.go <content.yaml>")
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger.InitLogger(cfg)

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("failed to read content file: %v", err)
	}

	var payload service.ContentPayload
	if err := yaml.Unmarshal(data, &payload); err != nil {
		log.Fatalf("failed to parse content file: %v", err)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	store := repository.NewStore(db)
	stats, err := service.NewContentService(store).Sync(payload)
	if err != nil {
		log.Fatalf("content sync failed: %v", err)
	}

	log.Printf("synced %d paths, %d modules, %d lessons, %d skills",
		stats.Paths, stats.Modules, stats.Lessons, stats.Skills)
}

// cmd/server/main.go
package main

import (
	"fmt"
	"os"

	"github.com/Annany2002/bookreader-backend/api"
	"github.com/Annany2002/bookreader-backend/config"
	"github.com/Annany2002/bookreader-backend/internal/logger"
	"github.com/Annany2002/bookreader-backend/internal/storage"
)

var (
	customLog = logger.NewLogger()
)

func main() {
	customLog.Println("Starting Book Reader backend...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		customLog.Fatalf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	// 2. Initialize Metadata Database Connection
	metaDB, err := storage.ConnectMetadataDB(cfg)
	if err != nil {
		customLog.Fatalf("Failed to initialize metadata database: %v", err)
		os.Exit(1)
	}
	defer func() {
		customLog.Println("Closing metadata database connection...")
		if err := metaDB.Close(); err != nil {
			customLog.Printf("Error closing metadata database: %v", err)
		}
	}()

	// 3. Optional Redis for shared rate limits and the translation cache
	rdb := config.NewRedisClient(cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	// 4. Setup Router (passing dependencies)
	router, err := api.SetupRouter(metaDB, cfg, rdb)
	if err != nil {
		customLog.Fatalf("Failed to set up router: %v", err)
	}

	// 5. Start Server
	customLog.Printf("Server listening on port %s", cfg.ServerPort)
	if err := router.Run(fmt.Sprintf(":%s", cfg.ServerPort)); err != nil {
		customLog.Fatalf("Failed to start server: %v", err)
	}
}

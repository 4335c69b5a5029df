package main

import (
	"log"

	"monkeybets/internal/config"
	"monkeybets/internal/database"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Database.Driver != "postgres" {
		db, err := database.Connect(cfg.Database.Driver, cfg.GetDSN())
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to migrate: %v", err)
		}
		return
	}

	log.Println("Applying embedded migrations")
	if err := database.Migrate(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	log.Println("✅ Migrations applied successfully!")
}

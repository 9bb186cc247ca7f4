package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"stataid/adapters/postgres/migrations"
	"stataid/internal/config"
	"stataid/internal/container"
)

func main() {
	if len(os.Args) < 2 || (os.Args[1] != "up" && os.Args[1] != "status") {
		log.Fatal("Usage: migrate <up|status>")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := container.OpenDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if db == nil {
		log.Fatal("DATABASE_URL is required")
	}
	defer db.Close()

	logger, _ := zap.NewDevelopment()
	migrator := migrations.NewMigrator(db, logger)
	ctx := context.Background()

	if os.Args[1] == "up" {
		if err := migrator.Up(ctx); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations applied")
		return
	}

	statuses, err := migrator.Status(ctx)
	if err != nil {
		log.Fatalf("Failed to read migration status: %v", err)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED")
	for _, s := range statuses {
		fmt.Fprintf(w, "%s\t%s\t%v\n", s.Version, s.Name, s.Applied)
	}
	w.Flush()
}

package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/simp-lee/folio/internal/app"
	"github.com/simp-lee/folio/internal/config"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	envFile := flag.String("env", ".env", "optional dotenv file with APP__ overrides")
	migrate := flag.Bool("migrate", false, "create or update database tables on startup")
	flag.Parse()

	// A missing .env is normal outside development.
	_ = godotenv.Load(*envFile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}
	if *migrate {
		cfg.Database.AutoMigrate = true
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatal("failed to create app: ", err)
	}

	if err := a.Run(); err != nil {
		log.Fatal("server error: ", err)
	}
}

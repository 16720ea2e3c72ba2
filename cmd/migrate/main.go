package main

import (
	"log"

	"authapi/cmd/config"
	"authapi/cmd/database"
	"authapi/model"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	if err := db.AutoMigrate(&model.User{}, &model.Otp{}, &model.Product{}); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	log.Println("migration complete")
}

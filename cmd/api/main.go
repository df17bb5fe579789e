package main

import (
	"context"
	"log"

	"github.com/recipehub/backend/config"
	"github.com/recipehub/backend/internal/database"
	"github.com/recipehub/backend/internal/mail"
	"github.com/recipehub/backend/internal/router"
	"github.com/recipehub/backend/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := database.SeedCategories(db); err != nil {
		log.Fatalf("category seeding failed: %v", err)
	}

	opts := router.Options{}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("redis unavailable, rate limiting disabled: %v", err)
	} else {
		opts.Redis = redisClient
	}

	s3Config, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		log.Printf("S3 unavailable, image uploads disabled: %v", err)
	} else {
		opts.S3 = s3Config
	}

	if cfg.SMTPHost != "" {
		opts.Mailer = mail.NewMailer(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	} else {
		log.Println("SMTP not configured, notification email disabled")
	}

	engine := router.Setup(db, cfg.JWTSecret, opts)

	srv := server.New(engine)
	if err := srv.Start(cfg.ServerPort); err != nil {
		log.Fatalf("server shutdown error: %v", err)
	}
	log.Println("server stopped")
}

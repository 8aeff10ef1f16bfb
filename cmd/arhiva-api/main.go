package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/nemanja/arhiva-api/internal/config"
	"github.com/nemanja/arhiva-api/internal/database"
	"github.com/nemanja/arhiva-api/internal/handlers"
	authmw "github.com/nemanja/arhiva-api/internal/middleware"
	"github.com/nemanja/arhiva-api/internal/services"
	"github.com/nemanja/arhiva-api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry)
	userService := services.NewUserService(db)
	documentService := services.NewDocumentService(db)
	storageFactory := storage.NewFactory(cfg.Storage)

	authHandler := handlers.NewAuthHandler(userService, jwtService)
	documentHandler := handlers.NewDocumentHandler(documentService, userService, storageFactory, cfg.Storage.MaxUploadSize)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	api.Post("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/auth/grant-permission", authHandler.GrantPermission)

	protected.Get("/documents", documentHandler.List)
	protected.Post("/documents/upload", documentHandler.Upload)
	protected.Get("/documents/:id/download", documentHandler.Download)
	protected.Delete("/documents/:id", documentHandler.Delete)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Printf("Server starting on %s", addr)
		if err := app.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
}

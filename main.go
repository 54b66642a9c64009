package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finpal/finpal-be/internal/api"
	"github.com/finpal/finpal-be/internal/auth"
	"github.com/finpal/finpal-be/internal/config"
	"github.com/finpal/finpal-be/internal/database"
	"github.com/finpal/finpal-be/internal/logger"
	"github.com/finpal/finpal-be/internal/ocr"
	"github.com/finpal/finpal-be/internal/services"
	"github.com/finpal/finpal-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Ensure the directory for temporary receipt uploads exists
	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create upload directory")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub for live dashboard updates
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	tokens := auth.NewTokenManager(cfg.JWTSecret)
	userService := services.NewUserService(db)
	expenseService := services.NewExpenseService(db, hub)
	ocrClient := ocr.NewClient(cfg.OCRServiceURL, cfg.OCRTimeout)

	// Set up router
	router := api.NewRouter(api.RouterDeps{
		Tokens:         tokens,
		UserService:    userService,
		ExpenseService: expenseService,
		ReceiptParser:  ocrClient,
		Hub:            hub,
		AllowedOrigin:  cfg.AllowedOrigin,
		UploadDir:      cfg.UploadDir,
		MaxUploadSize:  cfg.MaxUploadSize,
	})

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}

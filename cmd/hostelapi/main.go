package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"hostel-admin/config"
	"hostel-admin/internal/api"
	"hostel-admin/internal/auth"
	"hostel-admin/internal/db"
	"hostel-admin/internal/notification"
	"hostel-admin/internal/stockwatch"
	"hostel-admin/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "hostel-api ", log.LstdFlags)

	if err := config.LoadDotEnv(); err != nil {
		logger.Printf("ignoring .env: %v", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	cfg.ApplyEnv()
	logger.Printf("configuration loaded from %s", configPath)

	if cfg.Auth.JWTSecret == "" {
		logger.Fatalf("auth.jwt_secret (or JWT_SECRET) must be set")
	}

	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)

	var dispatcher stockwatch.Dispatcher
	if cfg.Push.Enabled() {
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, &webpushOptions)
		pool.Start(ctx)
		dispatcher = pool
	} else {
		logger.Println("VAPID keys not configured; low-stock alerts will only be logged")
	}

	watcher := stockwatch.NewService(cfg.StockWatch, appStore, dispatcher)
	go watcher.Run(ctx)

	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	router := api.NewRouter(appStore, issuer, &webpushOptions, cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}

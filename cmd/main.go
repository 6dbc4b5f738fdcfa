package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"channel-stats-service/config"
	"channel-stats-service/fetcher"
	"channel-stats-service/handler"
	"channel-stats-service/metrics"
	"channel-stats-service/router"
	"channel-stats-service/worker"
	"channel-stats-service/youtube"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.MongoURI == "" {
		log.Fatal("MONGO_URI is not set")
	}

	metrics.Init("channel-stats-service", "1.0", getEnv("ENVIRONMENT", "development"))

	// Connect to MongoDB
	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(context.Background())

	if err := mongoClient.Ping(context.Background(), nil); err != nil {
		log.Fatal("MongoDB ping error:", err)
	}
	log.Println("Connected to MongoDB successfully")

	db := mongoClient.Database("channelstatsdb")

	// Create YouTube client authenticated as the service account
	ytClient, err := youtube.NewClient(context.Background(), cfg)
	if err != nil {
		log.Fatal("Failed to create YouTube client:", err)
	}

	// Create fetcher and worker
	statsFetcher := fetcher.NewFetcher(ytClient, db)

	statsWorker, err := worker.NewWorker(cfg, statsFetcher)
	if err != nil {
		log.Fatal("Failed to create worker:", err)
	}

	// Start worker in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := statsWorker.Start(ctx); err != nil {
		log.Fatal("Failed to start worker:", err)
	}

	// Setup router
	statsHandler := handler.NewStatsHandler(cfg, ytClient, statsFetcher, statsWorker.Conn())
	r := router.Setup(statsHandler)

	// Setup HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Start server in background
	go func() {
		log.Printf("Channel stats service starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down channel stats service...")

	// Graceful shutdown
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	statsWorker.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Channel stats service stopped")
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

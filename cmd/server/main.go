package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playpool/kolkhoz/internal/api"
	"github.com/playpool/kolkhoz/internal/config"
	"github.com/playpool/kolkhoz/internal/redis"
	"github.com/playpool/kolkhoz/internal/store"
	"github.com/playpool/kolkhoz/internal/ws"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize configuration
	cfg := config.Load()
	log.Printf("[CONFIG] env=%s penalty_scope=%s table_limit=%d", cfg.Environment, cfg.PenaltyScope, cfg.TableLimit)

	// Websocket hub for table watchers
	hub := ws.NewHub(cfg.WSSendBuffer)
	go hub.Run(ctx)

	// With Redis, updates go through the table_events channel so every
	// instance's watchers see them; without it they go to the local hub.
	var publisher store.Publisher = hub
	if cfg.RedisURL != "" {
		rdb, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()

		publisher = ws.NewRedisPublisher(rdb)
		ws.StartTableEventSubscriber(ctx, rdb, hub)
	} else {
		log.Println("[REDIS] REDIS_URL not set; table updates stay on this instance")
	}

	lifecycle := store.NewLifecycle(cfg.PenaltyScope, nil)
	registry := store.NewRegistry(lifecycle, publisher, cfg.TableLimit)
	store.StartIdleReaper(ctx, registry,
		time.Duration(cfg.TableIdleMinutes)*time.Minute,
		time.Duration(cfg.ReaperIntervalSeconds)*time.Second)

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	api.SetupRoutes(router, registry, hub, cfg)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting Kolkhoz scoreboard on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

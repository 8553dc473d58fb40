package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"barhop-server/config"
	"barhop-server/handlers"
	"barhop-server/services"
	"barhop-server/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Configuration error: %v", err)
	}
	cfg.InitLogger()
	log := logrus.WithField("component", "main")

	userStore, barStore, redisClient, err := buildStores(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	userService := services.NewUserService(userStore, barStore, redisClient, cfg.JWTSecret)
	barService := services.NewBarService(barStore, userStore)
	teamService := services.NewTeamService(cfg.TeamAPIURL, redisClient)

	router := handlers.NewRouter(
		handlers.NewAuthHandler(userService),
		handlers.NewUserHandler(userService, teamService),
		handlers.NewBarHandler(barService),
		userService, barService,
		cfg.JWTSecret, cfg.AllowedOrigins,
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	} else {
		log.Info("Server shutdown complete")
	}
}

func buildStores(cfg *config.Config, log *logrus.Entry) (store.UserStore, store.BarStore, *redis.Client, error) {
	if cfg.StoreDriver == config.DriverMemory {
		log.Info("Using in-memory store")
		return store.NewMemoryUserStore(), store.NewMemoryBarStore(), nil, nil
	}

	client, err := connectMongo(cfg.MongoURI)
	if err != nil {
		return nil, nil, nil, err
	}
	log.Info("Connected to MongoDB")

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		return nil, nil, nil, err
	}
	log.Info("Connected to Redis")

	db := client.Database(cfg.MongoDatabase)
	userStore, err := store.NewMongoUserStore(db.Collection("users"))
	if err != nil {
		return nil, nil, nil, err
	}
	barStore, err := store.NewMongoBarStore(db.Collection("bars"), redisClient)
	if err != nil {
		return nil, nil, nil, err
	}
	return userStore, barStore, redisClient, nil
}

func connectMongo(uri string) (*mongo.Client, error) {
	const maxRetries = 5
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err == nil {
			err = client.Ping(ctx, nil)
		}
		cancel()
		if err == nil {
			return client, nil
		}
		lastErr = err
		time.Sleep(time.Duration(i+1) * time.Second)
	}
	return nil, lastErr
}

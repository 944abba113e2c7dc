package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/config"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/handler"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/infrastructure/messaging"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/processor"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/repository"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/service"
	"github.com/AniqMurad/Giftunwrapbackend/internal/app/giftunwrap/util"
	"github.com/AniqMurad/Giftunwrapbackend/pkg/logger"
)

// statusMetricsSchedule - расписание пересчета метрик заказов
const statusMetricsSchedule = "@every 1m"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init("giftunwrap-backend", logLevel)

	mongoClient, err := connectMongoDB(cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()
	logger.Info().
		Str("database", cfg.MongoDB.Database).
		Msg("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Redis не обязателен: без кеша каталог читается напрямую из MongoDB
	var catalogCache util.CatalogCache
	redisClient, err := util.NewRedisClient(cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to connect to Redis, catalog caching disabled")
	} else {
		catalogCache = redisClient
		defer redisClient.Close()
		logger.Info().Str("address", cfg.Redis.Address()).Msg("Connected to Redis")
	}

	kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().
		Str("topic", cfg.Kafka.Topic).
		Msg("Initialized Kafka producer")

	fileStore, err := util.NewLocalFileStore(cfg.Upload.Dir, cfg.Upload.BaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize file store")
	}

	jwtManager := util.NewJWTManager(cfg.JWT.Secret, time.Hour, 15*time.Minute)

	catalogRepo := repository.NewCatalogRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	orderService := service.NewOrderService(orderRepo, catalogRepo, kafkaProducer)
	catalogService := service.NewCatalogService(catalogRepo, catalogCache, fileStore, kafkaProducer)
	reviewService := service.NewReviewService(catalogRepo, reviewRepo, userRepo, kafkaProducer)
	authService := service.NewAuthService(userRepo, jwtManager)
	messageService := service.NewMessageService(messageRepo)

	scheduler := processor.NewCronScheduler(orderService)
	if err := scheduler.Start(context.Background(), statusMetricsSchedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start cron scheduler")
	}
	defer scheduler.Stop()

	authMiddleware := handler.NewAuthMiddleware(jwtManager)
	handlers := &handler.Handlers{
		Order:   handler.NewOrderHandler(orderService),
		Product: handler.NewProductHandler(catalogService, reviewService),
		Review:  handler.NewReviewHandler(reviewService),
		Auth:    handler.NewAuthHandler(authService),
		User:    handler.NewUserHandler(authService),
		Message: handler.NewMessageHandler(messageService),
	}
	router := handler.SetupRoutes(handlers, authMiddleware, fileStore.Dir())

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Giftunwrap Backend")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Giftunwrap Backend...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Giftunwrap Backend stopped gracefully")
}

func connectMongoDB(cfg config.MongoDBConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	var client *mongo.Client
	var err error

	for i := 0; i < 10; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err = mongo.Connect(ctx, clientOptions)
		if err == nil {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer pingCancel()

			if err = client.Ping(pingCtx, nil); err == nil {
				return client, nil
			}
		}

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to MongoDB, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"servebook/config"
	"servebook/cron"
	"servebook/database"
	bookingRepo "servebook/database/repository/booking"
	notificationRepo "servebook/database/repository/notification"
	"servebook/handlers"
	"servebook/middleware"
	"servebook/routes"
	"servebook/services/booking"
	"servebook/services/notification"
	"servebook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.FirebaseInit()

	bookingTZ, err := time.LoadLocation(config.AppConfig.BookingTimezone)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid booking timezone %q: %v", config.AppConfig.BookingTimezone, err)
	}

	// Repositories.
	bkRepo := bookingRepo.NewMongoBookingRepo()
	if mongoRepo, ok := bkRepo.(*bookingRepo.MongoBookingRepo); ok {
		if err := mongoRepo.EnsureIndexes(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
		}
	}
	notifRepo := notificationRepo.NewMongoNotificationRepo()

	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Notification queue client and background delivery worker.
	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisNotifyQueueDB,
	})
	defer queueClient.Close()
	cron.InitNotifyWorker()

	// Services.
	notificationService := notification.NewDefaultNotificationService(notifRepo, queueClient)
	conflictDetector := &booking.ConflictDetector{
		Repo:     bkRepo,
		Cache:    utils.GetCacheClient(),
		Location: bookingTZ,
	}
	bookingService := &booking.DefaultBookingService{
		Repo:            bkRepo,
		Detector:        conflictDetector,
		NotificationSvc: notificationService,
		Location:        bookingTZ,
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.Default())

	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	notificationHandler := handlers.NewNotificationHandler(notifRepo)
	routes.RegisterRoutes(router, bookingHandler, notificationHandler)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

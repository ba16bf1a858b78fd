// File: directory101/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"directory101/config"
	"directory101/cron"
	"directory101/database"
	listingRepoPkg "directory101/database/repository/listing"
	userRepoPkg "directory101/database/repository/user"
	"directory101/handlers"
	"directory101/middleware"
	"directory101/models"
	"directory101/routes"
	"directory101/services/billing"
	listingSvc "directory101/services/listing"
	"directory101/services/notification"
	userSvc "directory101/services/user"
	"directory101/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	mongoClient := database.InitMongo()
	utils.InitCache()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories. The listing store is selected at startup; the calling
	// contract is identical across backends. The health probe set follows the
	// selection so the active store is always monitored.
	var listRepo listingRepoPkg.ListingRepository
	probes := []utils.Probe{
		utils.MongoProbe("users-db", mongoClient),
		utils.RedisProbe("cache", utils.GetCacheClient()),
	}
	switch config.AppConfig.ListingBackend {
	case "postgres":
		db := database.InitPostgres()
		listRepo = listingRepoPkg.NewGormListingRepo(db)
		probes = append(probes, utils.GormProbe("listings-postgres", db))
	case "redis":
		utils.InitRecordsStore()
		listRepo = listingRepoPkg.NewRedisListingRepo(utils.GetRecordsClient())
		probes = append(probes, utils.RedisProbe("listings-redis", utils.GetRecordsClient()))
	default:
		listRepo = listingRepoPkg.NewMongoListingRepo(mongoClient)
		probes = append(probes, utils.MongoProbe("listings-mongo", mongoClient))
	}
	userRepo := userRepoPkg.NewMongoUserRepo(mongoClient)

	// Transactional email rides the Redis-backed job queue so request
	// paths never block on SMTP.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()

	var emailProvider notification.EmailProvider
	if config.AppConfig.SMTPHost != "" {
		emailProvider = notification.NewSMTPEmailProvider(
			config.AppConfig.SMTPHost,
			config.AppConfig.SMTPPort,
			config.AppConfig.SMTPUsername,
			config.AppConfig.SMTPPassword,
			config.AppConfig.EmailFrom,
		)
	} else {
		emailProvider = notification.LogEmailProvider{}
	}
	cron.InitEmailWorker(emailProvider)

	// services.
	listingService := &listingSvc.DefaultListingService{
		Repo:  listRepo,
		Cache: listingSvc.NewPageCache(utils.GetCacheClient(), 5*time.Minute),
		Mail:  notification.NewAsynqEmailQueue(asynqClient),
	}
	userService := &userSvc.DefaultUserService{Repo: userRepo}
	billingService := &billing.DefaultBillingService{
		Listings: listingService,
		PriceIDs: map[models.PlanTier]string{
			models.PlanBasic: config.AppConfig.StripePriceBasic,
			models.PlanPro:   config.AppConfig.StripePricePro,
		},
		SuccessURL: config.AppConfig.CheckoutSuccessURL,
		CancelURL:  config.AppConfig.CheckoutCancelURL,
	}

	listingHandler := handlers.NewListingHandler(listingService)
	userHandler := handlers.NewUserHandler(userService)
	billingHandler := handlers.NewBillingHandler(billingService)
	adminHandler := handlers.NewAdminHandler(listingService)

	uploadPhotoHandler := func(c *gin.Context) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Photo uploads are not configured"})
	}
	if storageService, err := utils.Cloudinary(); err != nil {
		logger.Sugar().Warnf("main: photo storage disabled: %v", err)
	} else {
		uploadPhotoHandler = handlers.NewStorageHandler(storageService, listingService).UploadListingPhotoHandler
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo: userRepo,

		// Listing endpoints.
		BrowseListingsHandler:     listingHandler.BrowseListingsHandler,
		GetListingBySlugHandler:   listingHandler.GetListingBySlugHandler,
		GetListingByIDHandler:     listingHandler.GetListingByIDHandler,
		SubmitListingHandler:      listingHandler.SubmitListingHandler,
		UpdateListingHandler:      listingHandler.UpdateListingHandler,
		ClaimListingHandler:       listingHandler.ClaimListingHandler,
		ContactClickHandler:       listingHandler.ContactClickHandler,
		UploadListingPhotoHandler: uploadPhotoHandler,

		// User endpoints.
		RegisterUserHandler:     userHandler.RegisterUserHandler,
		AuthenticateUserHandler: userHandler.AuthenticateUserHandler,
		GetCurrentUserHandler:   userHandler.GetCurrentUserHandler,
		RevokeTokenHandler:      userHandler.RevokeTokenHandler,

		// Billing endpoints.
		CreateCheckoutHandler: billingHandler.CreateCheckoutHandler,
		StripeWebhookHandler:  billingHandler.StripeWebhookHandler,

		// Admin endpoints.
		AdminHandler: adminHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)
	utils.StartHealthMonitor(probes...)

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

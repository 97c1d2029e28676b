package main

import (
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/edupay/enrollment-backend/config"
	"github.com/edupay/enrollment-backend/gateway"
	"github.com/edupay/enrollment-backend/handlers"
	"github.com/edupay/enrollment-backend/notify"
	"github.com/edupay/enrollment-backend/repository"
	"github.com/edupay/enrollment-backend/routes"
	"github.com/edupay/enrollment-backend/services"
	"github.com/edupay/enrollment-backend/utils"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	// Initialize New Relic
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.NewRelic.AppName),
		newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
		newrelic.ConfigDistributedTracerEnabled(true),
	)
	if err != nil {
		logger.Warn("failed to initialize New Relic", zap.Error(err))
	}

	// Initialize database and the single shared store
	db, err := repository.Open(cfg.Database)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer db.Close()
	store := repository.NewStore(db)

	// External collaborators
	gatewayClient := gateway.NewClient(cfg.Gateway)
	notifyClient := notify.NewClient(cfg.Notify)
	verifier := utils.NewSignatureVerifier(cfg.Webhook.Secrets)

	// Services
	enrollmentService := services.NewEnrollmentService(store)
	splitService := services.NewSplitService(store)
	chargeService := services.NewChargeService(store, gatewayClient, cfg.Gateway.Name, cfg.Gateway.NotificationURL, logger)
	webhookService := services.NewWebhookService(store, verifier, logger)
	overdueService := services.NewOverdueService(store, notifyClient, logger)
	reportService := services.NewReportService(store)

	// Set up Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	if app != nil {
		router.Use(nrgin.Middleware(app))
	}

	// Configure CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.Server.CORSAllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "x-api-key"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(router, routes.Handlers{
		Enrollment: handlers.NewEnrollmentHandler(enrollmentService),
		Payment:    handlers.NewPaymentHandler(splitService, chargeService, store),
		Webhook:    handlers.NewWebhookHandler(webhookService, logger),
		Report:     handlers.NewReportHandler(reportService),
		Cron:       handlers.NewCronHandler(overdueService, cfg.Cron.APIKey, logger),
	})

	logger.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := config.Build()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	return logger
}

// requestLogger returns a zap-based request logging middleware.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		logger.Info("request",
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("method", method),
			zap.String("path", path),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

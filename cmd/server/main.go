// Package main runs the graduation ceremony registration HTTP server with
// graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nova-graduation/backend/config"
	"github.com/nova-graduation/backend/internal/admins"
	"github.com/nova-graduation/backend/internal/attendees"
	"github.com/nova-graduation/backend/internal/auth"
	"github.com/nova-graduation/backend/internal/emaillogs"
	"github.com/nova-graduation/backend/internal/graduates"
	"github.com/nova-graduation/backend/internal/invitations"
	"github.com/nova-graduation/backend/internal/middleware"
	"github.com/nova-graduation/backend/internal/notify"
	"github.com/nova-graduation/backend/internal/registration"
	"github.com/nova-graduation/backend/pkg/database"
	"github.com/nova-graduation/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	issuer := registration.NewIssuer(cfg.Tokens)
	links := notify.NewLinks(cfg.Server.PublicBaseURL)
	mailer := notify.NewMailer(cfg.Email, logger)
	if mailer.Simulated() {
		logger.Info("no SMTP host configured, email dispatch is simulated")
	}

	// Repositories
	graduateRepo := graduates.NewRepository(pool)
	attendeeRepo := attendees.NewRepository(pool)
	adminRepo := admins.NewRepository(pool)
	emailLogRepo := emaillogs.NewRepository(pool)

	notifier := notify.NewNotifier(mailer, links, emailLogRepo, logger)

	// Public registration flow
	registrationSvc := registration.NewService(graduateRepo, attendeeRepo, issuer, notifier)
	registrationHandler := registration.NewHandler(registrationSvc, logger)

	// Invitations
	invitationSvc := invitations.NewService(graduateRepo, issuer, notifier, links, logger)
	invitationHandler := invitations.NewHandler(invitationSvc)

	// Admin accounts and review
	adminHandler := admins.NewHandler(adminRepo, jwtService, logger)
	graduateHandler := graduates.NewHandler(graduateRepo, attendeeRepo, logger)
	emailLogHandler := emaillogs.NewHandler(emailLogRepo, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Public: token-gated registration flow
	reg := router.Group("/registration")
	{
		reg.POST("/level1", registrationHandler.SubmitLevel1)
		reg.POST("/level2/:token", registrationHandler.SubmitLevel2)
		reg.GET("/level3/:token", registrationHandler.GetLevel3)
		reg.PUT("/level3/:token", registrationHandler.UpdateLevel3)
	}

	// Admin
	admin := router.Group("/admin")
	{
		admin.POST("/create", adminHandler.Create)
		admin.POST("/login", adminHandler.Login)

		protected := admin.Group("")
		protected.Use(middleware.JWT(jwtService))
		{
			protected.GET("/registrations", graduateHandler.List)
			protected.GET("/registrations/:id", graduateHandler.GetByID)
			protected.GET("/stats", graduateHandler.Stats)
			protected.GET("/email-logs", emailLogHandler.List)
			protected.POST("/generate-invitations", invitationHandler.Generate)
			protected.POST("/send-invitations", invitationHandler.Send)
			protected.POST("/users", middleware.RequireRole("admin"), adminHandler.Upsert)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}

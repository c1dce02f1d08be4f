package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/worklane/backend/internal/application/access"
	appescrow "github.com/worklane/backend/internal/application/escrow"
	appidentity "github.com/worklane/backend/internal/application/identity"
	appmarketplace "github.com/worklane/backend/internal/application/marketplace"
	appnotification "github.com/worklane/backend/internal/application/notification"
	"github.com/worklane/backend/internal/infrastructure/auth"
	"github.com/worklane/backend/internal/infrastructure/cache"
	"github.com/worklane/backend/internal/infrastructure/config"
	"github.com/worklane/backend/internal/infrastructure/logger"
	"github.com/worklane/backend/internal/infrastructure/persistence"
	"github.com/worklane/backend/internal/interfaces/http/handler"
	"github.com/worklane/backend/internal/interfaces/http/middleware"
	"github.com/worklane/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	proposalRepo := persistence.NewGormProposalRepository(db.DB)
	milestoneRepo := persistence.NewGormMilestoneRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)

	// Infrastructure services
	jwtService := auth.NewJWTService(cfg.JWT)
	unreadCache := cache.NewRedisUnreadCache(cfg.Redis, log)
	defer func() { _ = unreadCache.Close() }()

	// Application services
	guard := access.NewGuard()
	dispatcher := appnotification.NewDispatcher(notificationRepo, log, cfg.Notification.QueueSize)
	authService := appidentity.NewAuthService(userRepo, jwtService, log)
	projectService := appmarketplace.NewProjectService(projectRepo, userRepo, dispatcher, guard, log)
	proposalService := appmarketplace.NewProposalService(proposalRepo, projectRepo, dispatcher, guard, log)
	escrowService := appescrow.NewService(milestoneRepo, projectRepo, dispatcher, guard, log)
	financeService := appescrow.NewFinanceService(transactionRepo, guard, log)
	notificationService := appnotification.NewService(notificationRepo, unreadCache, guard, log)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.CORS(cfg.HTTP.CORSAllowOrigins))
	engine.Use(middleware.Authenticate(jwtService))

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	engine.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r := router.NewRouter(engine)
	r.Register(handler.NewAuthHandler(authService))
	r.Register(handler.NewProjectHandler(projectService))
	r.Register(handler.NewProposalHandler(proposalService))
	r.Register(handler.NewMilestoneHandler(escrowService))
	r.Register(handler.NewNotificationHandler(notificationService))
	r.Register(handler.NewFinanceHandler(financeService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Env),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}

	// Drain pending notifications before the process exits
	dispatcher.Close()

	log.Info("server stopped")
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/subhvivah/matrimony/internal/adminstats"
	"github.com/subhvivah/matrimony/internal/audit"
	"github.com/subhvivah/matrimony/internal/authz"
	"github.com/subhvivah/matrimony/internal/contributions"
	"github.com/subhvivah/matrimony/internal/hope"
	"github.com/subhvivah/matrimony/internal/interests"
	"github.com/subhvivah/matrimony/internal/moderation"
	"github.com/subhvivah/matrimony/internal/premium"
	"github.com/subhvivah/matrimony/internal/profiles"
	"github.com/subhvivah/matrimony/internal/referrals"
	"github.com/subhvivah/matrimony/internal/risk"
	"github.com/subhvivah/matrimony/internal/successes"
	"github.com/subhvivah/matrimony/internal/trust"
	"github.com/subhvivah/matrimony/internal/verification"
	"github.com/subhvivah/matrimony/pkg/common"
	"github.com/subhvivah/matrimony/pkg/config"
	"github.com/subhvivah/matrimony/pkg/database"
	"github.com/subhvivah/matrimony/pkg/logger"
	"github.com/subhvivah/matrimony/pkg/middleware"
	"github.com/subhvivah/matrimony/pkg/ratelimit"
	"github.com/subhvivah/matrimony/pkg/redis"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load("trust-engine")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	pool, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(pool)

	sqlDB, err := database.NewSQLDB(&cfg.Database)
	if err != nil {
		logger.Fatal("failed to open sql database", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := runMigrations(sqlDB, cfg.Database.DBName); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	auditor := audit.NewRecorder(cfg.Audit)

	// Repositories
	profileRepo := profiles.NewRepository(pool)
	verificationRepo := verification.NewRepository(pool)
	riskRepo := risk.NewRepository(pool)
	trustRepo := trust.NewRepository(pool)
	moderationRepo := moderation.NewRepository(sqlDB)
	interestRepo := interests.NewRepository(pool)
	premiumRepo := premium.NewRepository(pool)
	hopeRepo := hope.NewRepository(pool)
	referralRepo := referrals.NewRepository(pool)
	contributionRepo := contributions.NewRepository(pool)
	successRepo := successes.NewRepository(pool)
	statsRepo := adminstats.NewRepository(pool)
	adminDirectory := authz.NewRepository(pool)

	// Services, in dependency order
	moderationSvc := moderation.NewService(moderationRepo)
	riskSvc := risk.NewService(riskRepo, moderationSvc)
	trustSvc := trust.NewService(trustRepo)
	profileSvc := profiles.NewService(profileRepo, riskSvc, moderationSvc)
	verificationSvc := verification.NewService(verificationRepo, riskSvc, trustSvc,
		verification.NewSender(cfg.Security), auditor, cfg.Security)
	interestSvc := interests.NewService(interestRepo, riskSvc)
	premiumSvc := premium.NewService(premiumRepo, trustSvc, auditor)
	hopeSvc := hope.NewService(hopeRepo, premiumSvc)
	referralSvc := referrals.NewService(referralRepo, premiumSvc, trustSvc)
	contributionSvc := contributions.NewService(contributionRepo, hopeSvc, premiumSvc, trustSvc, auditor)
	successSvc := successes.NewService(successRepo, premiumSvc, hopeSvc, trustSvc, auditor)
	statsSvc := adminstats.NewService(statsRepo)

	gate := authz.NewGate(adminDirectory, authz.Config{
		RolePermissions: authz.DefaultRolePermissions,
		AdminEmails:     cfg.Security.AdminEmails,
		TwoFATestCode:   cfg.Security.TwoFATestCode,
	})

	// Handlers
	profileHandler := profiles.NewHandler(profileSvc)
	verificationHandler := verification.NewHandler(verificationSvc)
	riskHandler := risk.NewHandler(riskSvc)
	moderationHandler := moderation.NewHandler(moderationSvc, profileSvc)
	interestHandler := interests.NewHandler(interestSvc, profileSvc)
	premiumHandler := premium.NewHandler(premiumSvc, profileSvc)
	hopeHandler := hope.NewHandler(hopeSvc, profileSvc)
	referralHandler := referrals.NewHandler(referralSvc, profileSvc)
	contributionHandler := contributions.NewHandler(contributionSvc, profileSvc)
	successHandler := successes.NewHandler(successSvc, profileSvc)
	statsHandler := adminstats.NewHandler(statsSvc)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.Server.CORSOrigins, ",")
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", authz.StepUpHeader}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics(cfg.Server.ServiceName))
	router.Use(middleware.Recovery())
	if cfg.RateLimit.Enabled {
		router.Use(ratelimit.NewLimiter(redisClient.Client, cfg.RateLimit).Middleware())
	}

	router.GET("/healthz", common.HealthCheckWithDeps(cfg.Server.ServiceName, version, map[string]func() error{
		"postgres": func() error { return pool.Ping(context.Background()) },
		"redis":    func() error { return redisClient.Ping(context.Background()).Err() },
	}))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1", middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		profileHandler.RegisterRoutes(api)
		verificationHandler.RegisterRoutes(api)
		interestHandler.RegisterRoutes(api)
		moderationHandler.RegisterRoutes(api)
		premiumHandler.RegisterRoutes(api)
		hopeHandler.RegisterRoutes(api)
		referralHandler.RegisterRoutes(api)
		contributionHandler.RegisterRoutes(api)
		successHandler.RegisterRoutes(api)
	}

	admin := api.Group("/admin")
	{
		moderationHandler.RegisterAdminRoutes(admin.Group("", authz.RequirePermission(gate, "moderation:review", false)))
		riskHandler.RegisterAdminRoutes(admin.Group("", authz.RequirePermission(gate, "risk:reset", true)))
		premiumHandler.RegisterAdminRoutes(admin.Group("", authz.RequirePermission(gate, "premium:revoke", true)))
		hopeHandler.RegisterAdminRoutes(admin.Group("", authz.RequirePermission(gate, "hope:award", false)))
		referralHandler.RegisterAdminRoutes(admin.Group("", authz.RequirePermission(gate, "referrals:verify", false)))
		contributionHandler.RegisterAdminRoutes(admin.Group("", authz.RequirePermission(gate, "contributions:review", false)))
		successHandler.RegisterAdminRoutes(admin.Group("", authz.RequirePermission(gate, "successes:review", false)))
		statsHandler.RegisterAdminRoutes(admin.Group("", authz.RequirePermission(gate, "stats:view", false)))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}

func runMigrations(db *sql.DB, dbName string) error {
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", dbName, driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

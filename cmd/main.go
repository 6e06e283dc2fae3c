package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ipede/negocio-verification-service/internal/application"
	"github.com/ipede/negocio-verification-service/internal/infrastructure/config"
	"github.com/ipede/negocio-verification-service/internal/infrastructure/database"
	"github.com/ipede/negocio-verification-service/internal/infrastructure/email"
	"github.com/ipede/negocio-verification-service/internal/infrastructure/jwt"
	"github.com/ipede/negocio-verification-service/internal/infrastructure/metrics"
	"github.com/ipede/negocio-verification-service/internal/infrastructure/otp"
	"github.com/ipede/negocio-verification-service/internal/infrastructure/password"
	"github.com/ipede/negocio-verification-service/internal/infrastructure/repository"
	httprouter "github.com/ipede/negocio-verification-service/internal/interfaces/http"
	"github.com/ipede/negocio-verification-service/internal/interfaces/http/middleware/auth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// @title Negocio Verification Service API
// @version 1.0
// @description One-time code verification for password reset and signup
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	var tokenValidator auth.JWTValidator
	if cfg.JWTSecret != "" {
		jwtService, err := jwt.New(cfg.JWTSecret)
		if err != nil {
			logger.Fatal("Failed to initialize JWT service", zap.Error(err))
		}
		tokenValidator = jwtService
	} else {
		logger.Warn("JWT_SECRET not set, admin routes disabled")
	}

	otpHasher, err := password.NewHasher(cfg.OTP.HashCost)
	if err != nil {
		logger.Fatal("Invalid OTP hash cost", zap.Error(err))
	}
	credentialHasher, err := password.NewHasher(cfg.PasswordHashCost)
	if err != nil {
		logger.Fatal("Invalid password hash cost", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	verificationMetrics := metrics.NewVerification(registry)

	// Repositories
	store := repository.NewVerificationStore(db, logger)
	accounts := repository.NewAccountRepository(db, logger)
	plans := repository.NewPlanRepository(db, logger)

	// Services
	notifier := email.NewEmailTemplate(cfg, logger)
	engine := application.NewVerificationService(store, otp.NewGenerator(logger), otpHasher,
		application.VerificationConfig{CodeTTL: cfg.OTP.TTL(), MaxAttempts: cfg.OTP.MaxAttempts},
		verificationMetrics, logger)
	credentials := application.NewCredentialService(accounts, credentialHasher, logger)
	resetService := application.NewPasswordResetService(engine, accounts, credentials, notifier,
		application.PasswordResetConfig{ExpiresMinutes: cfg.OTP.ExpiresMinutes, FrontendURL: cfg.FrontendURL},
		logger)
	registrationService := application.NewRegistrationService(engine, accounts, plans, notifier, cfg.OTP.ExpiresMinutes, logger)
	maintenanceService := application.NewMaintenanceService(store, verificationMetrics, logger)

	router := httprouter.NewRouter(httprouter.Services{
		PasswordReset: resetService,
		Registration:  registrationService,
		Maintenance:   maintenanceService,
		JWT:           tokenValidator,
		Health:        db,
		Metrics:       registry,

		AllowedOrigins: cfg.AllowedOrigins(),
	}, logger)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go maintenanceService.Run(sweepCtx, cfg.OTP.CleanupInterval)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			zap.Int("port", cfg.ServerPort),
			zap.String("environment", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited properly")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

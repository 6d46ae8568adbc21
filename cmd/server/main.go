// @title Conference Registration API
// @version 1.0
// @description Ticket checkout, registration and coupon endpoints for the conference site.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"conferenceregistration/config"
	_ "conferenceregistration/docs"
	"conferenceregistration/internal/adapters/auth"
	"conferenceregistration/internal/adapters/email"
	"conferenceregistration/internal/adapters/stripe"
	httpdelivery "conferenceregistration/internal/delivery/http"
	"conferenceregistration/internal/delivery/http/controllers"
	"conferenceregistration/internal/delivery/http/middleware"
	"conferenceregistration/internal/domain"
	"conferenceregistration/internal/repository/postgres"
	redisrepo "conferenceregistration/internal/repository/redis"
	"conferenceregistration/internal/services"
)

const tokenIssuer = "conference-registration"

func main() {
	logger := config.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		logger.Error("migrate database", "err", err)
		os.Exit(1)
	}

	var (
		sessionCache domain.CheckoutSessionCache = services.NewMemoryCheckoutCache()
		rateCounter  middleware.HitCounter
	)
	if cfg.RedisURL != "" {
		rdb, err := redisrepo.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("connect redis", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		sessionCache = redisrepo.NewCheckoutSessionCache(rdb)
		rateCounter = redisrepo.NewRateCounter(rdb, "ratelimit:")
		logger.Info("redis connected")
	} else {
		logger.Warn("REDIS_URL not set; using in-process checkout cache and no rate limiting")
	}

	provider, err := stripe.NewProvider(stripe.Config{
		SecretKey: cfg.StripeSecretKey,
		Currency:  cfg.StripeCurrency,
	})
	if err != nil {
		logger.Error("init payment provider", "err", err)
		os.Exit(1)
	}
	if cfg.StripeWebhookSecret == "" {
		logger.Warn("STRIPE_WEBHOOK_SECRET not set; webhook events will be rejected")
	}
	webhookParser := stripe.NewWebhookParser(cfg.StripeWebhookSecret)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
		Logger: logger,
	})
	if err != nil {
		logger.Error("init mailer", "err", err)
		os.Exit(1)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		logger.Error("load email templates", "err", err)
		os.Exit(1)
	}

	tokens := auth.NewJWT(cfg.JWTSecret, tokenIssuer)
	hasher := auth.NewBcryptHasher(0)

	registrationRepo := postgres.NewRegistrationRepository(db)
	groupRepo := postgres.NewGroupRepository(db)
	couponRepo := postgres.NewCouponRepository(db)

	couponService := services.NewCouponService(couponRepo, cfg.UnlimitedSchoolCodes)
	checkoutService := services.NewCheckoutService(services.CheckoutDeps{
		Provider: provider,
		Coupons:  couponService,
		Cache:    sessionCache,
		Timeout:  cfg.CheckoutTimeout,
		Logger:   logger,
	})
	emailService := services.NewEmailService(mailer, renderer, logger)
	verificationService := services.NewVerificationService(tokens, tokens, registrationRepo, groupRepo, cfg.PublicBaseURL, cfg.VerificationTokenTTL)
	registrationService := services.NewRegistrationService(services.RegistrationDeps{
		Registrations: registrationRepo,
		Groups:        groupRepo,
		Coupons:       couponService,
		Checkout:      checkoutService,
		Emails:        emailService,
		Verification:  verificationService,
		Logger:        logger,
	})
	adminService := services.NewAdminAuthService(cfg.AdminEmail, cfg.AdminPasswordHash, hasher, tokens, cfg.AdminTokenTTL)

	router := httpdelivery.NewRouter(httpdelivery.RouterDeps{
		Logger:         logger,
		Checkout:       controllers.NewCheckoutController(logger, checkoutService),
		Registrations:  controllers.NewRegistrationController(logger, registrationService),
		Coupons:        controllers.NewCouponController(logger, couponService),
		Verification:   controllers.NewVerificationController(logger, verificationService),
		Webhooks:       controllers.NewWebhookController(logger, webhookParser, registrationService),
		Admin:          controllers.NewAdminController(logger, adminService, registrationService),
		Health:         controllers.NewHealthController(logger, db),
		TokenVerifier:  tokens,
		RateCounter:    rateCounter,
		RateLimit:      cfg.RateLimitPerMinute,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Longer than the checkout timeout so a slow provider still gets a 503 body.
		WriteTimeout: cfg.CheckoutTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "err", err)
	}
	logger.Info("server stopped")
}

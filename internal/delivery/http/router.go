package http

import (
	"log/slog"
	"net/http"
	"time"

	"conferenceregistration/internal/delivery/http/controllers"
	"conferenceregistration/internal/delivery/http/middleware"
	"conferenceregistration/internal/domain"
	"conferenceregistration/internal/monitoring"

	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterDeps are the controllers and cross-cutting collaborators of the HTTP API.
// RateCounter may be nil, which disables rate limiting.
type RouterDeps struct {
	Logger         *slog.Logger
	Checkout       *controllers.CheckoutController
	Registrations  *controllers.RegistrationController
	Coupons        *controllers.CouponController
	Verification   *controllers.VerificationController
	Webhooks       *controllers.WebhookController
	Admin          *controllers.AdminController
	Health         *controllers.HealthController
	TokenVerifier  domain.TokenVerifier
	RateCounter    middleware.HitCounter
	RateLimit      int
	AllowedOrigins []string
}

// NewRouter initializes the HTTP router with all application routes and wraps it
// in the middleware chain: request id, logging, CORS, metrics.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()
	limited := middleware.RateLimit(deps.RateCounter, deps.RateLimit, time.Minute, deps.Logger)
	admin := middleware.RequireAdmin(deps.TokenVerifier, deps.Logger)

	// Public registration flow
	mux.HandleFunc("POST /checkout-sessions", limited(deps.Checkout.CreateCheckoutSession))
	mux.HandleFunc("POST /registrations", limited(deps.Registrations.FinalizeRegistration))
	mux.HandleFunc("POST /coupons/validate", limited(deps.Coupons.ValidateCoupon))
	mux.HandleFunc("GET /verify-email", deps.Verification.VerifyEmail)

	// Payment provider callbacks
	mux.HandleFunc("POST /webhooks/stripe", deps.Webhooks.StripeWebhook)

	// Admin
	mux.HandleFunc("POST /admin/login", limited(deps.Admin.Login))
	mux.HandleFunc("GET /admin/registrations", admin(deps.Admin.ListRegistrations))
	mux.HandleFunc("GET /admin/registrations/{email}", admin(deps.Admin.GetRegistration))
	mux.HandleFunc("GET /admin/coupons", admin(deps.Coupons.ListCoupons))
	mux.HandleFunc("POST /admin/coupons", admin(deps.Coupons.CreateCoupon))

	// Ops
	mux.HandleFunc("GET /healthz", deps.Health.Health)
	mux.Handle("GET /metrics", monitoring.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = middleware.Metrics(mux)
	handler = middleware.CORS(deps.AllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(deps.Logger, handler)
	handler = middleware.RequestID(handler)
	return handler
}

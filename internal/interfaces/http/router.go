package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ipede/negocio-verification-service/internal/interfaces/http/handlers"
	"github.com/ipede/negocio-verification-service/internal/interfaces/http/middleware/auth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	Ping() error
}

// Services are the application entry points the routes dispatch to
type Services struct {
	PasswordReset handlers.PasswordResetService
	Registration  handlers.RegistrationService
	Maintenance   handlers.MaintenanceService
	JWT           auth.JWTValidator
	Health        HealthChecker
	Metrics       prometheus.Gatherer

	// AllowedOrigins are the browser origins accepted by CORS
	AllowedOrigins []string
}

type Router struct {
	router *chi.Mux
}

func NewRouter(services Services, logger *zap.Logger) *Router {
	// Initialize handlers
	resetHandler := handlers.NewPasswordResetHandler(services.PasswordReset, logger)
	registrationHandler := handlers.NewRegistrationHandler(services.Registration, logger)
	maintenanceHandler := handlers.NewMaintenanceHandler(services.Maintenance, logger)

	router := createRouter(services.AllowedOrigins)

	// Health check endpoints
	router.Group(func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})

		r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
			if err := services.Health.Ping(); err != nil {
				logger.Error("Database health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("Database connection failed"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Ready"))
		})

		r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Alive"))
		})
	})

	router.Handle("/metrics", promhttp.HandlerFor(services.Metrics, promhttp.HandlerOpts{}))

	// Swagger UI configuration
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
		httpSwagger.DeepLinking(true),
		httpSwagger.PersistAuthorization(true),
	))

	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "docs/swagger.json")
	})

	router.Route("/api", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Post("/auth/forgot-password", resetHandler.ForgotPasswordHandler)
			r.Post("/auth/verify-reset-code", resetHandler.VerifyResetCodeHandler)
			r.Post("/auth/reset-password", resetHandler.ResetPasswordHandler)
			r.Post("/auth/registration/send-code", registrationHandler.SendCodeHandler)
			r.Post("/auth/registration/verify-code", registrationHandler.VerifyCodeHandler)
		})

		// Admin routes, only with a token validator
		if services.JWT != nil {
			authMiddleware := auth.NewAuthMiddleware(services.JWT, logger)
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticator, authMiddleware.RequireRole("admin"))
				r.Delete("/admin/verification-codes/expired", maintenanceHandler.PurgeExpiredHandler)
			})
		}
	})

	return &Router{router: router}
}

func createRouter(allowedOrigins []string) *chi.Mux {
	router := chi.NewRouter()

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         int((10 * time.Minute).Seconds()),
	}))

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Timeout(60 * time.Second))

	return router
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

package http

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/application/auth"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/application/credential"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/application/otp"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/domain"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/transport/http/handler"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/transport/http/middleware"
)

// NewRouter assembles services from Deps and mounts the route table.
func NewRouter(deps Deps) chi.Router {
	cfg := deps.Config

	otpService := otp.NewService(otp.ServiceDeps{
		OTPRepo:      deps.OTPRepo,
		EmployeeRepo: deps.EmployeeRepo,
		Mailer:       deps.Mailer,
		TTL:          cfg.OTPTTL,
		ResetWindow:  cfg.ResetWindowTTL,
	})
	credentialService := credential.NewService(credential.ServiceDeps{
		EmployeeRepo:       deps.EmployeeRepo,
		OTPRepo:            deps.OTPRepo,
		SessionRepo:        deps.SessionRepo,
		Mailer:             deps.Mailer,
		SMSSender:          deps.SMSSender,
		TempPasswordLength: cfg.TempPasswordLength,
	})
	authService := auth.NewService(auth.ServiceDeps{
		EmployeeRepo: deps.EmployeeRepo,
		AdminRepo:    deps.AdminRepo,
		SessionRepo:  deps.SessionRepo,
		JWTProvider:  deps.JWTProvider,
		SessionTTL:   cfg.SessionTTL,
	})

	healthHandler := handler.NewHealthHandler()
	sessionHandler := handler.NewSessionHandler(authService, credentialService)
	recoveryHandler := handler.NewPasswordRecoveryHandler(otpService, credentialService)
	employeeHandler := handler.NewEmployeeHandler(credentialService, deps.EmployeeRepo)

	// 5 req/s with a burst of 10 per client IP on the credential-sensitive
	// endpoints. This is transport hygiene, not an OTP attempt counter.
	sensitive := middleware.NewRateLimiter(rate.Limit(5), 10)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthHandler.Ping)

		r.Group(func(r chi.Router) {
			r.Use(sensitive.Middleware)
			r.Post("/sessions/login", sessionHandler.Login)
			r.Post("/sessions/admin-login", sessionHandler.AdminLogin)
			r.Post("/sessions/change-password", sessionHandler.ChangePassword)
			r.Post("/password-recovery/{action}", recoveryHandler.Handle)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(deps.JWTProvider))
			r.Post("/sessions/logout", sessionHandler.Logout)
			r.Get("/employees/{id}", employeeHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleAdmin))
				r.Post("/employees", employeeHandler.Create)
				r.Post("/employees/{id}/credentials/reset", employeeHandler.ResetCredentials)
			})
		})
	})

	return r
}

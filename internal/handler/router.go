package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"hospital-management-api/internal/config"
	"hospital-management-api/internal/middleware"
)

// Routes builds the REST router. authLimiter guards /auth/*.
func (h *Handler) Routes(cfg *config.Config, authLimiter *middleware.RateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(h.log))
	r.Use(middleware.Recoverer(h.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(httprate.LimitByIP(cfg.Limits.GlobalRPS, time.Second))

	r.Get("/health", h.Health)

	r.Route("/auth", func(r chi.Router) {
		r.Use(middleware.RateLimit(authLimiter, h.log))
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(h.auth, h.log))

		r.Route("/patients", func(r chi.Router) {
			r.Post("/", h.CreatePatient)
			r.Get("/", h.ListPatients)
			r.Get("/{id}", h.GetPatient)
		})
		r.Route("/professionals", func(r chi.Router) {
			r.Post("/", h.CreateProfessional)
			r.Get("/", h.ListProfessionals)
		})
		r.Route("/appointments", func(r chi.Router) {
			r.Post("/", h.CreateAppointment)
			r.Get("/", h.ListAppointments)
		})
	})

	return r
}

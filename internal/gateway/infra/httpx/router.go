package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"ecommerce-platform/internal/gateway/infra/httpx/middlewares"
	"ecommerce-platform/internal/pkg/auth"
)

func NewRouter(handler *Handler, verifier *auth.Verifier) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middlewares.Authenticate(verifier))

	r.Get("/health", handler.Health)
	r.Get("/health/live", handler.Live)
	r.Get("/health/ready", handler.Ready)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", handler.Register)
		r.Post("/login", handler.Login)
		r.Get("/me", handler.Me)
	})

	r.Post("/graphql", handler.GraphQL)
	return r
}

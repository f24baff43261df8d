package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/erazemk/mithai/internal/shop"
)

// Config configures the HTTP surface.
type Config struct {
	// Secret signs and verifies session tokens.
	Secret string
	// SecureCookie marks the session cookie Secure (production).
	SecureCookie bool
	// CORSOrigins are the browser origins allowed to call the API with
	// credentials.
	CORSOrigins []string
	Logger      *zap.Logger
}

// NewRouter creates the HTTP handler with all endpoints registered.
func NewRouter(svc *shop.Service, cfg Config) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	authHandler := &AuthHandler{Shop: svc, SecureCookie: cfg.SecureCookie, Log: log}
	sweetsHandler := &SweetsHandler{Shop: svc, Log: log}
	inventoryHandler := &InventoryHandler{Shop: svc, Log: log}
	healthHandler := &HealthHandler{Shop: svc}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", healthHandler.Check)

	r.Route("/api", func(r chi.Router) {
		// Public.
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/auth/logout", authHandler.Logout)

		// Session required.
		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware(cfg.Secret))

			r.Get("/purchases", inventoryHandler.ListPurchases)

			r.Get("/sweets", sweetsHandler.List)
			r.Post("/sweets", sweetsHandler.Create)
			r.Get("/sweets/search", sweetsHandler.Search)
			r.Get("/sweets/mine", sweetsHandler.Mine)
			r.Put("/sweets/{id}", sweetsHandler.Update)
			r.Delete("/sweets/{id}", sweetsHandler.Delete)
			r.Post("/sweets/{id}/purchase", inventoryHandler.Purchase)
			r.Post("/sweets/{id}/restock", inventoryHandler.Restock)
			r.Put("/sweets/{id}/image", sweetsHandler.UploadImage)
			r.Get("/sweets/{id}/image", sweetsHandler.GetImage)
		})
	})

	return r
}

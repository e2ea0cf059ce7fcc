package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", traceIDHeader},
		ExposedHeaders:   []string{"Authorization", traceIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)

		r.Get("/api/accounts/search", h.searchAccount)
		r.Get("/api/accounts/{id}", h.getAccount)

		r.Get("/api/coins/", h.listCoins)
		r.Get("/api/coins/search", h.searchCoin)
		r.Get("/api/coins/{id}", h.getCoin)

		r.Get("/api/version/", h.getServerVersion)
		r.Get("/ping", h.ping)
	})

	// routes that require a valid bearer token
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/accounts/", h.listAccounts)
		r.Patch("/api/accounts/{id}", h.updateAccount)
		r.Delete("/api/accounts/{id}", h.deleteAccount)
	})

	return router
}

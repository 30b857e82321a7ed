package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/mongo-user-service/internal/logger"
	"github.com/vasiliy-maslov/mongo-user-service/internal/user"
)

// NewRouter wires every route of the service. pinger may be nil.
func NewRouter(userSvc user.Service, pinger Pinger) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logger.RequestLogger(log.Logger))
	router.Use(middleware.Recoverer)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusNotFound, "Route not found", r.Method+" "+r.URL.Path)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed", r.Method+" "+r.URL.Path)
	})

	NewUserHandler(userSvc).RegisterRoutes(router)
	NewProductHandler().RegisterRoutes(router)
	NewHealthHandler(pinger).RegisterRoutes(router)

	return router
}

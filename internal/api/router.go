// internal/api/router.go
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"coupon-manager/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(couponHandler *handler.CouponHandler, authHandler *handler.AuthHandler, allowedOrigins []string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(handler.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/me", authHandler.Me)
		r.Post("/logout", authHandler.Logout)
	})

	r.Route("/coupons", func(r chi.Router) {
		r.Post("/", couponHandler.Create)
		r.Get("/", couponHandler.List)

		// Static views are registered before the {id} pattern.
		r.Get("/active", couponHandler.Active)
		r.Get("/expiring-soon", couponHandler.ExpiringSoon)
		r.Get("/expired", couponHandler.Expired)
		r.Get("/used", couponHandler.Used)
		r.Get("/unused", couponHandler.Unused)
		r.Get("/search", couponHandler.Search)
		r.Get("/store/{store}", couponHandler.ByStore)
		r.Get("/category/{category}", couponHandler.ByCategory)
		r.Get("/code/{code}", couponHandler.GetByCode)

		r.Route("/{id:[0-9]+}", func(r chi.Router) {
			r.Get("/", couponHandler.GetByID)
			r.Put("/", couponHandler.Update)
			r.Delete("/", couponHandler.Delete)
			r.Patch("/mark-used", couponHandler.MarkUsed)
		})
	})

	return r
}

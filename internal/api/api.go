// Package api sets up and starts the API server with routing and middleware.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/danzh-dev/mealdex/internal/api/middleware"
	"github.com/danzh-dev/mealdex/internal/api/routes/ping"
	"github.com/danzh-dev/mealdex/internal/api/routes/recipes"
	"github.com/danzh-dev/mealdex/internal/api/routes/users"
	"github.com/danzh-dev/mealdex/internal/env"
)

const (
	credentialRateLimit = rate.Limit(1) // per second, per IP
	credentialRateBurst = 5
)

func addRoutes(router *chi.Mux) {
	limiter := middleware.NewRateLimiter(credentialRateLimit, credentialRateBurst)

	router.Route("/api", func(r chi.Router) {
		r.Get("/ping", ping.HandlePing)

		r.Route("/user", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(limiter.Limit)
				r.Post("/register", users.HandleRegister)
				r.Post("/login", users.HandleLogin)
			})
			r.Post("/logout", users.HandleLogout)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(true))
				r.Get("/me", users.HandleGetMe)
				r.Get("/favorite-recipes", users.HandleGetFavoriteRecipes)
				r.Patch("/favorite-recipes", users.HandleSetFavoriteRecipe)
			})
		})

		r.Route("/recipes", func(r chi.Router) {
			r.With(middleware.Authenticate(false)).Get("/", recipes.HandleGetRecipes)
			r.Get("/category", recipes.HandleGetCategories)
		})
	})
}

func Start(env *env.Env) error {
	router := chi.NewRouter()
	router.Use(middleware.AddRequestID)
	router.Use(middleware.LogRequest(env.Logger))
	router.Use(middleware.InjectEnv(env))
	router.Use(middleware.AddCors)

	addRoutes(router)

	addr := fmt.Sprintf(":%d", env.Config.Port)
	env.Logger.Info(fmt.Sprintf("Listening at 0.0.0.0%s", addr))
	return http.ListenAndServe(addr, router)
}

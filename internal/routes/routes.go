package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/tastella/tastella-backend/internal/handlers"
	"github.com/tastella/tastella-backend/internal/middleware"
	"github.com/tastella/tastella-backend/internal/services"
)

// SetupRoutes wires the route table. Identity-requiring routes sit behind
// the auth guard; browse routes stay public.
func SetupRoutes(r *chi.Mux, verifier services.TokenVerifier) {
	requireAuth := middleware.RequireAuth(verifier)

	// Auth / profile routes
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", handlers.Register)
		r.Post("/login", handlers.Login)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/profile", handlers.GetProfile)
			r.Put("/update-profile", handlers.UpdateProfile)
			r.Get("/all-users", handlers.GetAllUsers)
			r.Post("/follow/{userID}", handlers.Follow)
			r.Delete("/follow/{userID}", handlers.Unfollow)
		})
	})

	// Recipe routes
	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", handlers.GetRecipes)
		r.Get("/user-recipes/{userID}", handlers.GetUserRecipes)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/create-recipe", handlers.CreateRecipe)
			r.Get("/my-recipes", handlers.GetMyRecipes)
			r.Put("/update-recipe/{recipeID}", handlers.UpdateRecipe)
			r.Delete("/delete-recipe/{recipeID}", handlers.DeleteRecipe)
			r.Post("/favorite-toggle", handlers.ToggleFavorite)
			r.Get("/my-favorites", handlers.GetMyFavorites)
		})
	})

	// Note routes
	r.Route("/notes", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/add", handlers.AddNote)
		r.Get("/my-notes", handlers.GetMyNotes)
		r.Put("/update/{noteID}", handlers.UpdateNote)
		r.Delete("/delete/{noteID}", handlers.DeleteNote)
	})

	// File upload route
	r.With(requireAuth).Post("/api/upload", handlers.UploadFile)
}

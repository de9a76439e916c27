package main

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/joho/godotenv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/tastella/tastella-backend/internal/config"
	"github.com/tastella/tastella-backend/internal/database"
	"github.com/tastella/tastella-backend/internal/handlers"
	"github.com/tastella/tastella-backend/internal/middleware"
	"github.com/tastella/tastella-backend/internal/routes"
)

func main() {
	// Load env
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}
	// Load configuration
	cfg := config.Load()

	if cfg.JWTSecret == "your-secret-key-change-in-production" {
		log.Println("⚠️  WARNING: JWT_SECRET not set. Using the development default.")
		log.Println("   To generate a secret, run: openssl rand -base64 32")
	}

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Initialize Cloudinary service
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		if err := handlers.InitCloudinaryService(cfg); err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			log.Println("Image uploads will not be available")
		} else {
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. Image uploads will not be available")
	}

	// Log connection attempt (without showing password)
	log.Printf("Connecting to MongoDB...")
	if cfg.MongoURI != "" {
		// Mask password in log for security
		maskedURI := cfg.MongoURI
		if strings.Contains(maskedURI, "@") {
			parts := strings.Split(maskedURI, "@")
			if len(parts) > 0 && strings.Contains(parts[0], ":") {
				userPass := strings.Split(parts[0], ":")
				if len(userPass) >= 3 {
					maskedURI = strings.Replace(maskedURI, userPass[2], "***", 1)
				}
			}
		}
		log.Printf("MongoDB URI: %s", maskedURI)
	}

	// Connect to MongoDB
	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect()

	// Ensure MongoDB indexes (unique username/email, owner lookups)
	if err := database.EnsureIndexes(context.Background()); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB indexes: %v", err)
	} else {
		log.Println("✅ MongoDB indexes ensured")
	}

	// Token issuer/verifier, configured once from the signing secret
	handlers.InitTokenService(cfg)

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Production: SecurityHeaders → per-IP rate limit → login rate limit
	// Non-production: Redis-based rate limit only
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity() {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, per-IP + login rate limiting)")
	} else {
		r.Use(middleware.RateLimitMiddleware)
	}

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("API is running... Welcome to Tastella! 🍳"))
	})

	// Setup routes
	routes.SetupRoutes(r, handlers.TokenService())

	log.Println("📋 Registered routes:")
	log.Println("  GET    /health")
	log.Println("  POST   /auth/register")
	log.Println("  POST   /auth/login")
	log.Println("  GET    /auth/profile")
	log.Println("  PUT    /auth/update-profile")
	log.Println("  GET    /auth/all-users")
	log.Println("  POST   /auth/follow/{userID}")
	log.Println("  DELETE /auth/follow/{userID}")
	log.Println("  GET    /recipes")
	log.Println("  POST   /recipes/create-recipe")
	log.Println("  GET    /recipes/my-recipes")
	log.Println("  GET    /recipes/user-recipes/{userID}")
	log.Println("  PUT    /recipes/update-recipe/{recipeID}")
	log.Println("  DELETE /recipes/delete-recipe/{recipeID}")
	log.Println("  POST   /recipes/favorite-toggle")
	log.Println("  GET    /recipes/my-favorites")
	log.Println("  POST   /notes/add")
	log.Println("  GET    /notes/my-notes")
	log.Println("  PUT    /notes/update/{noteID}")
	log.Println("  DELETE /notes/delete/{noteID}")
	log.Println("  POST   /api/upload")

	log.Printf("🚀 Tastella backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

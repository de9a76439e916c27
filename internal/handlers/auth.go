package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tastella/tastella-backend/internal/config"
	"github.com/tastella/tastella-backend/internal/database"
	"github.com/tastella/tastella-backend/internal/middleware"
	"github.com/tastella/tastella-backend/internal/models"
	"github.com/tastella/tastella-backend/internal/services"
	"github.com/tastella/tastella-backend/pkg/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var tokenService *services.TokenService

// InitTokenService wires the process-wide signing secret into the token
// service. Called once at startup.
func InitTokenService(cfg *config.Config) {
	tokenService = services.NewTokenService(cfg.JWTSecret, cfg.TokenMaxAge)
}

// TokenService exposes the configured service for route wiring.
func TokenService() *services.TokenService {
	return tokenService
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is the envelope for register/login results.
type AuthResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Token     string `json:"token,omitempty"`
	UserID    string `json:"userID,omitempty"`
	UserImage string `json:"userImage,omitempty"`
}

// Register handles user registration
func Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username, email, and password are required")
		return
	}
	if err := utils.ValidateUsername(req.Username); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := services.RegisterUser(ctx, req.Username, req.Email, req.Password)
	switch err {
	case nil:
	case services.ErrUsernameTaken:
		writeError(w, http.StatusConflict, "Username already exists!")
		return
	case services.ErrEmailTaken:
		writeError(w, http.StatusConflict, "Email already exists!")
		return
	default:
		log.Printf("ERROR: failed to register user: %v", err)
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "User registered successfully! ✅",
		UserID:  user.ID.Hex(),
	})
}

// Login handles user login and issues a fresh token. No session state is
// recorded; the token alone proves identity on later requests.
func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := services.AuthenticateUser(ctx, req.Username, req.Password)
	switch err {
	case nil:
	case services.ErrUserNotFound:
		writeError(w, http.StatusNotFound, "User doesn't exist!")
		return
	case services.ErrBadCredentials:
		writeError(w, http.StatusUnauthorized, "Username or Password is incorrect!")
		return
	default:
		log.Printf("ERROR: failed to authenticate user: %v", err)
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	token, err := tokenService.Issue(user.ID.Hex())
	if err != nil {
		log.Printf("ERROR: failed to issue token: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success:   true,
		Message:   "Login Successful! 🔓",
		Token:     token,
		UserID:    user.ID.Hex(),
		UserImage: user.UserImage,
	})
}

// GetProfile returns the authenticated user's profile (password omitted).
func GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := services.GetUserByID(ctx, middleware.UserID(r))
	if err == services.ErrUserNotFound {
		writeError(w, http.StatusNotFound, "User not found")
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile updates username/email/bio and optionally the profile image.
func UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10MB
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	userID, err := primitive.ObjectIDFromHex(middleware.UserID(r))
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	update := bson.M{"updated_at": time.Now()}
	if username := strings.TrimSpace(r.FormValue("username")); username != "" {
		if err := utils.ValidateUsername(username); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		update["username"] = username
	}
	if email := strings.TrimSpace(r.FormValue("email")); email != "" {
		update["email"] = email
	}
	if bio := r.FormValue("bio"); bio != "" {
		if len(bio) > models.MaxBioLength {
			writeError(w, http.StatusBadRequest, "Bio must be at most 200 characters")
			return
		}
		update["bio"] = bio
	}

	if files := r.MultipartForm.File["image"]; len(files) > 0 {
		if cloudinaryService == nil {
			writeError(w, http.StatusInternalServerError, "File upload service not available")
			return
		}
		url, err := cloudinaryService.UploadFileFromHeader(r.Context(), files[0], "tastella_profiles")
		if err != nil {
			log.Printf("ERROR: profile image upload failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to upload profile image")
			return
		}
		update["user_image"] = url
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err = database.DB.Collection("users").FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		// The unique indexes catch username/email collisions here; report
		// them the same way Register does.
		switch services.DuplicateKeyConflict(err) {
		case services.ErrUsernameTaken:
			writeError(w, http.StatusConflict, "Username already exists!")
		case services.ErrEmailTaken:
			writeError(w, http.StatusConflict, "Email already exists!")
		default:
			writeError(w, http.StatusInternalServerError, "Error updating profile")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Profile Updated Successfully! ✨",
		"user":    user,
	})
}

// GetAllUsers lists every other user (username and image only).
func GetAllUsers(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(middleware.UserID(r))
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	findOptions := options.Find().SetProjection(bson.M{"username": 1, "user_image": 1})
	cursor, err := database.DB.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$ne": userID}}, findOptions)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching users")
		return
	}
	defer cursor.Close(ctx)

	users := []map[string]interface{}{}
	for cursor.Next(ctx) {
		var u models.User
		if err := cursor.Decode(&u); err != nil {
			writeError(w, http.StatusInternalServerError, "Error fetching users")
			return
		}
		users = append(users, map[string]interface{}{
			"id":         u.ID.Hex(),
			"username":   u.Username,
			"user_image": u.UserImage,
		})
	}

	writeJSON(w, http.StatusOK, users)
}

// Follow makes the authenticated user follow the user in the URL.
func Follow(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "userID")
	userID := middleware.UserID(r)
	if targetID == userID {
		writeError(w, http.StatusBadRequest, "You cannot follow yourself")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := services.FollowUser(ctx, userID, targetID)
	if err == services.ErrUserNotFound {
		writeError(w, http.StatusNotFound, "User not found")
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Followed successfully",
	})
}

// Unfollow removes a follow relation. No-op when none exists.
func Unfollow(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "userID")
	userID := middleware.UserID(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := services.UnfollowUser(ctx, userID, targetID)
	if err == services.ErrUserNotFound {
		writeError(w, http.StatusNotFound, "User not found")
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Unfollowed successfully",
	})
}

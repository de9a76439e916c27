package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tastella/tastella-backend/internal/database"
	"github.com/tastella/tastella-backend/internal/middleware"
	"github.com/tastella/tastella-backend/internal/models"
	"github.com/tastella/tastella-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const maxRecipeImages = 5

type RecipeResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Recipe  *models.Recipe `json:"recipe,omitempty"`
}

type ToggleFavoriteRequest struct {
	RecipeID string `json:"recipeId"`
}

type ToggleFavoriteResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	IsFavorite bool   `json:"isFavorite"`
}

// parseIngredients accepts repeated form values ("ingredients" or
// "ingredients[]") the way the frontend submits them.
func parseIngredients(r *http.Request) []string {
	values := r.MultipartForm.Value["ingredients[]"]
	if len(values) == 0 {
		values = r.MultipartForm.Value["ingredients"]
	}
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// CreateRecipe creates a recipe owned by the authenticated user, uploading
// up to 5 images to Cloudinary.
func CreateRecipe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(20 << 20); err != nil { // 20MB
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	owner, err := primitive.ObjectIDFromHex(middleware.UserID(r))
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	cookingTime, _ := strconv.Atoi(r.FormValue("cookingTime"))

	imageURLs := []string{}
	if files := r.MultipartForm.File["images"]; len(files) > 0 {
		if cloudinaryService == nil {
			writeError(w, http.StatusInternalServerError, "File upload service not available")
			return
		}
		if len(files) > maxRecipeImages {
			files = files[:maxRecipeImages]
		}
		for _, fh := range files {
			url, err := cloudinaryService.UploadFileFromHeader(r.Context(), fh, "tastella_recipes")
			if err != nil {
				log.Printf("ERROR: recipe image upload failed: %v", err)
				writeError(w, http.StatusInternalServerError, "Failed to upload recipe image")
				return
			}
			imageURLs = append(imageURLs, url)
		}
	}

	now := time.Now()
	recipe := models.Recipe{
		ID:           primitive.NewObjectID(),
		CreatedAt:    now,
		UpdatedAt:    now,
		Name:         strings.TrimSpace(r.FormValue("name")),
		Ingredients:  parseIngredients(r),
		Instructions: r.FormValue("instructions"),
		ImageURLs:    imageURLs,
		CookingTime:  cookingTime,
		Category:     r.FormValue("category"),
		Difficulty:   r.FormValue("difficulty"),
		UserOwner:    owner,
	}
	if err := recipe.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := database.DB.Collection("recipes").InsertOne(ctx, recipe); err != nil {
		log.Printf("ERROR: failed to insert recipe: %v", err)
		writeError(w, http.StatusInternalServerError, "Error creating recipe")
		return
	}

	services.Cache.Delete(ctx, services.RecipeListKey)

	writeJSON(w, http.StatusCreated, RecipeResponse{
		Success: true,
		Message: "Recipe Created Successfully! 🎉",
		Recipe:  &recipe,
	})
}

// GetRecipes returns the public browse feed, newest first, served from the
// Redis cache when warm.
func GetRecipes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var recipes []models.Recipe
	if hit, _ := services.Cache.Get(ctx, services.RecipeListKey, &recipes); hit {
		writeJSON(w, http.StatusOK, recipes)
		return
	}

	findOptions := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := database.DB.Collection("recipes").Find(ctx, bson.M{}, findOptions)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching recipes")
		return
	}
	defer cursor.Close(ctx)

	recipes = []models.Recipe{}
	if err := cursor.All(ctx, &recipes); err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching recipes")
		return
	}

	if err := services.Cache.Set(ctx, services.RecipeListKey, recipes); err != nil {
		log.Printf("WARNING: failed to cache recipe list: %v", err)
	}

	writeJSON(w, http.StatusOK, recipes)
}

func findRecipesByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Recipe, error) {
	cursor, err := database.DB.Collection("recipes").Find(ctx, bson.M{"user_owner": owner})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	recipes := []models.Recipe{}
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// GetMyRecipes returns the authenticated user's own recipes.
func GetMyRecipes(w http.ResponseWriter, r *http.Request) {
	owner, err := primitive.ObjectIDFromHex(middleware.UserID(r))
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	recipes, err := findRecipesByOwner(ctx, owner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching user recipes")
		return
	}

	writeJSON(w, http.StatusOK, recipes)
}

// GetUserRecipes returns a given user's recipes. Public route.
func GetUserRecipes(w http.ResponseWriter, r *http.Request) {
	owner, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	recipes, err := findRecipesByOwner(ctx, owner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching recipes")
		return
	}

	writeJSON(w, http.StatusOK, recipes)
}

type UpdateRecipeRequest struct {
	Name         string      `json:"name"`
	Instructions string      `json:"instructions"`
	CookingTime  int         `json:"cookingTime"`
	Category     string      `json:"category"`
	Difficulty   string      `json:"difficulty"`
	Ingredients  interface{} `json:"ingredients"` // []string, or one newline-separated string
}

func (req *UpdateRecipeRequest) ingredientList() []string {
	switch v := req.Ingredients.(type) {
	case string:
		var out []string
		for _, line := range strings.Split(v, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				out = append(out, line)
			}
		}
		return out
	case []interface{}:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	}
	return nil
}

// UpdateRecipe updates a recipe. The filter includes the owner id, so only
// the owner's documents can ever match.
func UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	recipeID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "recipeID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid recipe id")
		return
	}
	owner, err := primitive.ObjectIDFromHex(middleware.UserID(r))
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	var req UpdateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	update := bson.M{"updated_at": time.Now()}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.Instructions != "" {
		update["instructions"] = req.Instructions
	}
	if req.CookingTime > 0 {
		update["cooking_time"] = req.CookingTime
	}
	if req.Category != "" {
		if !models.ValidCategory(req.Category) {
			writeError(w, http.StatusBadRequest, "invalid category")
			return
		}
		update["category"] = req.Category
	}
	if req.Difficulty != "" {
		if !models.ValidDifficulty(req.Difficulty) {
			writeError(w, http.StatusBadRequest, "invalid difficulty")
			return
		}
		update["difficulty"] = req.Difficulty
	}
	if ingredients := req.ingredientList(); len(ingredients) > 0 {
		update["ingredients"] = ingredients
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var recipe models.Recipe
	err = database.DB.Collection("recipes").FindOneAndUpdate(ctx,
		bson.M{"_id": recipeID, "user_owner": owner},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&recipe)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Recipe not found or unauthorized")
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, "Error updating recipe")
		return
	}

	services.Cache.Delete(ctx, services.RecipeListKey)

	writeJSON(w, http.StatusOK, RecipeResponse{
		Success: true,
		Message: "Recipe Updated! ✨",
		Recipe:  &recipe,
	})
}

// DeleteRecipe deletes an owned recipe and sweeps its id out of every
// user's favorites before acknowledging. A failed sweep is reported as an
// error; rerunning the deletion request repairs it (the sweep is
// idempotent and the recipe is already gone).
func DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	recipeID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "recipeID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid recipe id")
		return
	}
	owner, err := primitive.ObjectIDFromHex(middleware.UserID(r))
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var recipe models.Recipe
	err = database.DB.Collection("recipes").FindOneAndDelete(ctx,
		bson.M{"_id": recipeID, "user_owner": owner}).Decode(&recipe)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Recipe not found or unauthorized")
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, "Error deleting recipe")
		return
	}

	if err := services.RemoveFromAllFavorites(ctx, recipe.ID); err != nil {
		log.Printf("ERROR: favorites sweep failed for recipe %s: %v", recipe.ID.Hex(), err)
		writeError(w, http.StatusInternalServerError, "Recipe deleted but favorites cleanup failed")
		return
	}

	services.Cache.Delete(ctx, services.RecipeListKey)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Recipe Deleted Successfully 🗑️ (and removed from all favorites)",
	})
}

// ToggleFavorite flips the recipe's membership in the authenticated user's
// favorites and reports the new state.
func ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var req ToggleFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.RecipeID == "" {
		writeError(w, http.StatusBadRequest, "recipeId is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	isFavorite, err := services.ToggleFavorite(ctx, middleware.UserID(r), req.RecipeID)
	switch err {
	case nil:
	case services.ErrUserNotFound:
		writeError(w, http.StatusNotFound, "User not found")
		return
	case services.ErrRecipeNotFound:
		writeError(w, http.StatusBadRequest, "Invalid recipe id")
		return
	default:
		log.Printf("ERROR: favorite toggle failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	message := "Recipe removed from favorites 💔"
	if isFavorite {
		message = "Recipe added to favorites ❤️"
	}

	writeJSON(w, http.StatusOK, ToggleFavoriteResponse{
		Success:    true,
		Message:    message,
		IsFavorite: isFavorite,
	})
}

// GetMyFavorites returns the authenticated user's favorite recipes in the
// order they were saved.
func GetMyFavorites(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	recipes, err := services.GetFavoriteRecipes(ctx, middleware.UserID(r))
	if err == services.ErrUserNotFound {
		writeError(w, http.StatusNotFound, "User not found")
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching favorites")
		return
	}

	writeJSON(w, http.StatusOK, recipes)
}

package services

import (
	"context"
	"time"

	"github.com/tastella/tastella-backend/internal/database"
	"github.com/tastella/tastella-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// toggleRecipeID flips membership of id in ids: appended when absent,
// removed when present. Returns the new list and whether id is now a member.
// Calling it twice with the same id restores the original list.
func toggleRecipeID(ids []primitive.ObjectID, id primitive.ObjectID) ([]primitive.ObjectID, bool) {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...), false
		}
	}
	return append(ids, id), true
}

// ToggleFavorite flips recipeID in the user's saved recipes and reports the
// new membership. The recipe id is not validated against the recipes
// collection: favoriting a just-deleted id is tolerated and cleaned up
// reactively by RemoveFromAllFavorites.
//
// This is a read-modify-write on a single user document. Concurrent toggles
// from the same account race with last write wins; the returned bool
// reflects this caller's write and is advisory under such races.
func ToggleFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, ErrUserNotFound
	}
	rid, err := primitive.ObjectIDFromHex(recipeID)
	if err != nil {
		return false, ErrRecipeNotFound
	}

	users := database.DB.Collection("users")

	var user models.User
	err = users.FindOne(ctx, bson.M{"_id": uid}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		// Valid tokens can still miss here if the account vanished between
		// verification and this read.
		return false, ErrUserNotFound
	} else if err != nil {
		return false, err
	}

	saved, isFavorite := toggleRecipeID(user.SavedRecipes, rid)

	res, err := users.UpdateOne(ctx, bson.M{"_id": uid},
		bson.M{"$set": bson.M{"saved_recipes": saved, "updated_at": time.Now()}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, ErrUserNotFound
	}

	return isFavorite, nil
}

// RemoveFromAllFavorites removes recipeID from every user's saved recipes.
// Called synchronously from the recipe deletion path before the deletion is
// acknowledged. The $pull fan-out is a no-op for users that never favorited
// the recipe, and rerunning it after a crash repairs a partial sweep.
func RemoveFromAllFavorites(ctx context.Context, recipeID primitive.ObjectID) error {
	_, err := database.DB.Collection("users").UpdateMany(ctx,
		bson.M{},
		bson.M{"$pull": bson.M{"saved_recipes": recipeID}})
	return err
}

// GetFavoriteRecipes resolves the user's saved recipe ids to documents,
// preserving the saved order.
func GetFavoriteRecipes(ctx context.Context, userID string) ([]models.Recipe, error) {
	user, err := GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.SavedRecipes) == 0 {
		return []models.Recipe{}, nil
	}

	cursor, err := database.DB.Collection("recipes").Find(ctx,
		bson.M{"_id": bson.M{"$in": user.SavedRecipes}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var found []models.Recipe
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}

	// $in does not preserve order; reorder to match saved_recipes.
	byID := make(map[primitive.ObjectID]models.Recipe, len(found))
	for _, r := range found {
		byID[r.ID] = r
	}
	recipes := make([]models.Recipe, 0, len(found))
	for _, id := range user.SavedRecipes {
		if r, ok := byID[id]; ok {
			recipes = append(recipes, r)
		}
	}
	return recipes, nil
}

package services

import (
	"context"
	"time"

	"github.com/tastella/tastella-backend/internal/database"
	"github.com/tastella/tastella-backend/internal/models"
	"github.com/tastella/tastella-backend/pkg/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RegisterUser creates a new user with a hashed password. Username and email
// uniqueness are both checked here (exact match, as stored); the unique
// indexes on the users collection back this up against concurrent writes.
func RegisterUser(ctx context.Context, username, email, password string) (*models.User, error) {
	users := database.DB.Collection("users")

	err := users.FindOne(ctx, bson.M{"username": username}).Err()
	if err == nil {
		return nil, ErrUsernameTaken
	} else if err != mongo.ErrNoDocuments {
		return nil, err
	}

	err = users.FindOne(ctx, bson.M{"email": email}).Err()
	if err == nil {
		return nil, ErrEmailTaken
	} else if err != mongo.ErrNoDocuments {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:           primitive.NewObjectID(),
		CreatedAt:    now,
		UpdatedAt:    now,
		Username:     username,
		Email:        email,
		Password:     hashedPassword,
		UserImage:    models.DefaultUserImage,
		Followers:    []primitive.ObjectID{},
		Following:    []primitive.ObjectID{},
		SavedRecipes: []primitive.ObjectID{},
	}

	if _, err := users.InsertOne(ctx, user); err != nil {
		// A concurrent register can slip past the pre-checks; the unique
		// index reports which field collided.
		if conflict := DuplicateKeyConflict(err); conflict != nil {
			return nil, conflict
		}
		return nil, err
	}

	return user, nil
}

// AuthenticateUser checks the password for a username. An unknown username
// returns ErrUserNotFound, a failed hash verification ErrBadCredentials.
func AuthenticateUser(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := database.DB.Collection("users").FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}

	valid, err := utils.VerifyPassword(password, user.Password)
	if err != nil || !valid {
		return nil, ErrBadCredentials
	}

	return &user, nil
}

// GetUserByID resolves a hex user ID to its document.
func GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	var user models.User
	err = database.DB.Collection("users").FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}

	return &user, nil
}

// FollowUser adds targetID to the follower's following set and the follower
// to the target's followers set. $addToSet keeps repeated follows a no-op.
func FollowUser(ctx context.Context, followerID, targetID string) error {
	follower, err := primitive.ObjectIDFromHex(followerID)
	if err != nil {
		return ErrUserNotFound
	}
	target, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return ErrUserNotFound
	}

	users := database.DB.Collection("users")

	res, err := users.UpdateOne(ctx, bson.M{"_id": target},
		bson.M{"$addToSet": bson.M{"followers": follower}, "$set": bson.M{"updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}

	_, err = users.UpdateOne(ctx, bson.M{"_id": follower},
		bson.M{"$addToSet": bson.M{"following": target}, "$set": bson.M{"updated_at": time.Now()}})
	return err
}

// UnfollowUser removes the relation created by FollowUser. Safe to call when
// no relation exists.
func UnfollowUser(ctx context.Context, followerID, targetID string) error {
	follower, err := primitive.ObjectIDFromHex(followerID)
	if err != nil {
		return ErrUserNotFound
	}
	target, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return ErrUserNotFound
	}

	users := database.DB.Collection("users")

	if _, err := users.UpdateOne(ctx, bson.M{"_id": target},
		bson.M{"$pull": bson.M{"followers": follower}, "$set": bson.M{"updated_at": time.Now()}}); err != nil {
		return err
	}

	_, err = users.UpdateOne(ctx, bson.M{"_id": follower},
		bson.M{"$pull": bson.M{"following": target}, "$set": bson.M{"updated_at": time.Now()}})
	return err
}

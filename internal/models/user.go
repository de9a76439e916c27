package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultUserImage is shown until the user uploads a profile picture.
const DefaultUserImage = "https://cdn-icons-png.flaticon.com/512/149/149071.png"

const MaxBioLength = 200

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Username string `bson:"username" json:"username"`
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password" json:"-"` // Don't return password in JSON

	UserImage string `bson:"user_image" json:"user_image"`
	Bio       string `bson:"bio" json:"bio"`

	// Followers/following are asymmetric: A following B does not imply B
	// following A.
	Followers []primitive.ObjectID `bson:"followers" json:"followers"`
	Following []primitive.ObjectID `bson:"following" json:"following"`

	// SavedRecipes keeps insertion order; duplicates are forbidden.
	SavedRecipes []primitive.ObjectID `bson:"saved_recipes" json:"saved_recipes"`
}

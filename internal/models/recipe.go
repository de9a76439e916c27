package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recipe categories selectable from the frontend.
const (
	CategoryBreakfast = "Breakfast"
	CategoryLunch     = "Lunch"
	CategoryDinner    = "Dinner"
	CategoryDessert   = "Dessert"
	CategorySnack     = "Snack"
)

const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"

	DefaultDifficulty = DifficultyMedium
)

var Categories = []string{CategoryBreakfast, CategoryLunch, CategoryDinner, CategoryDessert, CategorySnack}
var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

type Recipe struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Name         string   `bson:"name" json:"name"`
	Ingredients  []string `bson:"ingredients" json:"ingredients"`
	Instructions string   `bson:"instructions" json:"instructions"`
	ImageURLs    []string `bson:"image_urls" json:"image_urls"`
	CookingTime  int      `bson:"cooking_time" json:"cooking_time"`
	Category     string   `bson:"category" json:"category"`
	Difficulty   string   `bson:"difficulty" json:"difficulty"`

	// UserOwner never changes after creation; every mutation and deletion
	// query filters on it.
	UserOwner primitive.ObjectID `bson:"user_owner" json:"user_owner"`
}

// Validate checks required fields and enum membership. An empty difficulty
// is filled with the default rather than rejected.
func (r *Recipe) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if len(r.Ingredients) == 0 {
		return errors.New("at least one ingredient is required")
	}
	if r.Instructions == "" {
		return errors.New("instructions are required")
	}
	if r.CookingTime <= 0 {
		return errors.New("cooking time must be positive")
	}
	if !ValidCategory(r.Category) {
		return errors.New("invalid category")
	}
	if r.Difficulty == "" {
		r.Difficulty = DefaultDifficulty
	}
	if !ValidDifficulty(r.Difficulty) {
		return errors.New("invalid difficulty")
	}
	return nil
}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

func ValidDifficulty(d string) bool {
	for _, v := range Difficulties {
		if v == d {
			return true
		}
	}
	return false
}

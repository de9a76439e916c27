package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultNoteColor = "#FFF"

type Note struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Title   string `bson:"title" json:"title"`
	Content string `bson:"content" json:"content"`
	Color   string `bson:"color" json:"color"`
	Image   string `bson:"image,omitempty" json:"image,omitempty"`

	UserOwner primitive.ObjectID `bson:"user_owner" json:"user_owner"`
}

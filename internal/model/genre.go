// Package model holds the documents stored in the catalog database and the
// views derived from them.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Genre is a document of the `genres` collection. Slug is unique and is the
// key public clients look genres up by.
type Genre struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string        `bson:"name" json:"name"`
	Slug        string        `bson:"slug" json:"slug"`
	Description string        `bson:"description" json:"description"`
	Icon        string        `bson:"icon" json:"icon"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt,omitempty" json:"updatedAt,omitzero"`
}

// GenreInput carries the editable genre fields. It is used both for the empty
// defaults written by Create and for admin updates.
type GenreInput struct {
	Name        string `bson:"name" json:"name" validate:"max=100"`
	Slug        string `bson:"slug" json:"slug" validate:"omitempty,max=100,slug"`
	Description string `bson:"description" json:"description" validate:"max=2000"`
	Icon        string `bson:"icon" json:"icon" validate:"max=200"`
}

// Collection pairs a genre with a representative image taken from one of its
// movies. It is computed on demand and never stored.
type Collection struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Image string `json:"image"`
}

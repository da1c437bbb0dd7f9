package model

import "go.mongodb.org/mongo-driver/v2/bson"

// Actor is a document of the `actors` collection. The catalog only reads
// actors to resolve Movie.Actors.
type Actor struct {
	ID    bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name  string        `bson:"name" json:"name"`
	Slug  string        `bson:"slug" json:"slug"`
	Photo string        `bson:"photo" json:"photo"`
}

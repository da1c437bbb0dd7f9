package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Parameters are optional descriptive attributes of a movie.
type Parameters struct {
	Year     int    `bson:"year" json:"year"`
	Duration int    `bson:"duration" json:"duration"` // minutes
	Country  string `bson:"country" json:"country"`
}

// Movie is a document of the `movies` collection. Actors and Genres hold ids
// of documents in the `actors` and `genres` collections.
type Movie struct {
	ID             bson.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Title          string          `bson:"title" json:"title"`
	Slug           string          `bson:"slug" json:"slug"`
	Poster         string          `bson:"poster" json:"poster"`
	BigPoster      string          `bson:"bigPoster" json:"bigPoster"`
	VideoURL       string          `bson:"videoUrl" json:"videoUrl"`
	Parameters     *Parameters     `bson:"parameters,omitempty" json:"parameters,omitempty"`
	Actors         []bson.ObjectID `bson:"actors" json:"actors"`
	Genres         []bson.ObjectID `bson:"genres" json:"genres"`
	CountOpened    int             `bson:"countOpened" json:"countOpened"`
	Rating         float64         `bson:"rating" json:"rating"`
	IsSendTelegram bool            `bson:"isSendTelegram" json:"isSendTelegram"`
	CreatedAt      time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time       `bson:"updatedAt,omitempty" json:"updatedAt,omitzero"`
}

// MovieDetail is a movie with its actor and genre references resolved.
type MovieDetail struct {
	ID             bson.ObjectID `bson:"_id" json:"_id"`
	Title          string        `bson:"title" json:"title"`
	Slug           string        `bson:"slug" json:"slug"`
	Poster         string        `bson:"poster" json:"poster"`
	BigPoster      string        `bson:"bigPoster" json:"bigPoster"`
	VideoURL       string        `bson:"videoUrl" json:"videoUrl"`
	Parameters     *Parameters   `bson:"parameters,omitempty" json:"parameters,omitempty"`
	Actors         []Actor       `bson:"actors,omitempty" json:"actors,omitempty"`
	Genres         []Genre       `bson:"genres" json:"genres"`
	CountOpened    int           `bson:"countOpened" json:"countOpened"`
	Rating         float64       `bson:"rating" json:"rating"`
	IsSendTelegram bool          `bson:"isSendTelegram" json:"isSendTelegram"`
	CreatedAt      time.Time     `bson:"createdAt" json:"createdAt"`
}

// MovieInput carries the editable movie fields. The announcement flag is not
// part of it: only the server flips isSendTelegram.
type MovieInput struct {
	Title      string          `bson:"title" json:"title" validate:"max=300"`
	Slug       string          `bson:"slug" json:"slug" validate:"omitempty,max=300,slug"`
	Poster     string          `bson:"poster" json:"poster"`
	BigPoster  string          `bson:"bigPoster" json:"bigPoster"`
	VideoURL   string          `bson:"videoUrl" json:"videoUrl"`
	Parameters *Parameters     `bson:"parameters,omitempty" json:"parameters,omitempty"`
	Actors     []bson.ObjectID `bson:"actors" json:"actors"`
	Genres     []bson.ObjectID `bson:"genres" json:"genres"`
}

// Package queue publishes and consumes catalog change events over RabbitMQ.
package queue

import "time"

// CatalogQueue is the durable queue catalog events are routed to.
const CatalogQueue = "catalog.events"

// Event types.
const (
	GenreCreated  = "genre.created"
	GenreUpdated  = "genre.updated"
	GenreDeleted  = "genre.deleted"
	MovieCreated  = "movie.created"
	MovieUpdated  = "movie.updated"
	MovieDeleted  = "movie.deleted"
	MovieRated    = "movie.rated"
	MovieAnnounce = "movie.announced"
)

// CatalogEvent is published after a successful admin write. It carries enough
// for consumers to log or reindex without querying the catalog.
type CatalogEvent struct {
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	Slug       string    `json:"slug,omitempty"`
	Title      string    `json:"title,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Package service holds the catalog business rules: genre and movie CRUD,
// search, the collections view and movie announcements. Storage, messaging
// and event publishing are reached through the small interfaces declared
// next to each service.
package service

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

var (
	// ErrNotFound is returned whenever an id or slug keyed lookup or write
	// matches nothing.
	ErrNotFound = repository.ErrNotFound
	// ErrConflict is returned when a write would duplicate a slug.
	ErrConflict = repository.ErrConflict
	// ErrInvalidID is returned for ids that are not ObjectID hex strings.
	ErrInvalidID = errors.New("invalid id")
)

// EventPublisher delivers catalog events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.CatalogEvent) error
}

// ParseID converts a hex id from a request into an ObjectID.
func ParseID(hex string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(hex)
	if err != nil {
		return bson.ObjectID{}, errors.Wrapf(ErrInvalidID, "%q", hex)
	}
	return id, nil
}

// ParseIDs converts a list of hex ids.
func ParseIDs(hexes []string) ([]bson.ObjectID, error) {
	ids := make([]bson.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := ParseID(h)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// publish sends ev and only logs failures; events never fail a request.
func publish(ctx context.Context, p EventPublisher, ev queue.CatalogEvent) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, ev); err != nil {
		log.WithError(err).WithField("type", ev.Type).Warn("failed to publish catalog event")
	}
}

// Package storage provides the document store behind the resource API.
//
// Every model type is stored in its own collection. Collections expose the
// small set of operations the orchestrator needs: list, lookup by one or many
// identifiers, insert returning a store-generated identifier, merge update and
// removal. Absence is always reported as ErrNotFound, never as a generic
// failure.
//
// Two drivers are available:
//   - mongodb: go.mongodb.org/mongo-driver, one collection per model type
//   - memory: process-local maps, used for tests and ephemeral runs
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"evalgo.org/modelapi/internal/config"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Record is a stored document: its opaque identifier plus one value per
// stored field.
type Record struct {
	ID     string
	Values map[string]interface{}
}

// Page restricts a listing. A zero Limit means no limit.
type Page struct {
	Limit  int64
	Offset int64
}

// Collection is the per-type document collection.
type Collection interface {
	// Find returns the records of the collection in store order.
	Find(ctx context.Context, page *Page) ([]Record, error)

	// FindByID returns one record or ErrNotFound.
	FindByID(ctx context.Context, id string) (Record, error)

	// FindByIDs returns the records whose identifiers are in ids. Unknown
	// identifiers are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]Record, error)

	// Insert stores values and returns the generated identifier.
	Insert(ctx context.Context, values map[string]interface{}) (string, error)

	// Update merges values into an existing record. Fields not present in
	// values are left untouched.
	Update(ctx context.Context, id string, values map[string]interface{}) error

	// Remove deletes a record or returns ErrNotFound.
	Remove(ctx context.Context, id string) error
}

// Store hands out collections by model type.
type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// New opens the store selected by cfg.Storage.Driver and instruments it
// with Prometheus metrics.
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (Store, error) {
	var (
		store Store
		err   error
	)

	switch cfg.Storage.Driver {
	case "memory":
		store = NewMemoryStore()
		log.WithField("driver", "memory").Info("Using in-memory document store")
	case "mongodb":
		store, err = NewMongoStore(ctx, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
		}
		log.WithFields(logrus.Fields{
			"driver":   "mongodb",
			"database": cfg.MongoDB.Database,
		}).Info("Successful database connection")
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}

	return Instrument(store), nil
}

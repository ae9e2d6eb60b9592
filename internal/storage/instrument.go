package storage

import (
	"context"
	"errors"
	"time"

	"evalgo.org/modelapi/internal/metrics"
)

// Instrument wraps store so every collection call is recorded in metrics.
func Instrument(store Store) Store {
	return &instrumentedStore{Store: store}
}

type instrumentedStore struct {
	Store
}

func (s *instrumentedStore) Collection(name string) Collection {
	return &instrumentedCollection{name: name, next: s.Store.Collection(name)}
}

type instrumentedCollection struct {
	name string
	next Collection
}

func (c *instrumentedCollection) observe(op string, start time.Time, err error) {
	result := metrics.ResultOK
	switch {
	case errors.Is(err, ErrNotFound):
		result = metrics.ResultNotFound
	case err != nil:
		result = metrics.ResultError
	}
	metrics.ObserveStoreOperation(c.name, op, result, time.Since(start))
}

func (c *instrumentedCollection) Find(ctx context.Context, page *Page) ([]Record, error) {
	start := time.Now()
	records, err := c.next.Find(ctx, page)
	c.observe("find", start, err)
	return records, err
}

func (c *instrumentedCollection) FindByID(ctx context.Context, id string) (Record, error) {
	start := time.Now()
	rec, err := c.next.FindByID(ctx, id)
	c.observe("find_by_id", start, err)
	return rec, err
}

func (c *instrumentedCollection) FindByIDs(ctx context.Context, ids []string) ([]Record, error) {
	start := time.Now()
	records, err := c.next.FindByIDs(ctx, ids)
	c.observe("find_by_ids", start, err)
	return records, err
}

func (c *instrumentedCollection) Insert(ctx context.Context, values map[string]interface{}) (string, error) {
	start := time.Now()
	id, err := c.next.Insert(ctx, values)
	c.observe("insert", start, err)
	return id, err
}

func (c *instrumentedCollection) Update(ctx context.Context, id string, values map[string]interface{}) error {
	start := time.Now()
	err := c.next.Update(ctx, id, values)
	c.observe("update", start, err)
	return err
}

func (c *instrumentedCollection) Remove(ctx context.Context, id string) error {
	start := time.Now()
	err := c.next.Remove(ctx, id)
	c.observe("remove", start, err)
	return err
}

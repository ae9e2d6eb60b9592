package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Compile-time contract assertions.
var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*MongoStore)(nil)
)

// MemoryStore is a process-local Store. Records are copied on the way in and
// out, so callers never share state with the store.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

// Collection returns the named collection, creating it on first use.
func (s *MemoryStore) Collection(name string) Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[name]
	if !ok {
		coll = &memoryCollection{docs: make(map[string]map[string]interface{})}
		s.collections[name] = coll
	}
	return coll
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

type memoryCollection struct {
	mu    sync.RWMutex
	order []string
	docs  map[string]map[string]interface{}
}

func (c *memoryCollection) Find(ctx context.Context, page *Page) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := c.order
	if page != nil {
		if page.Offset >= int64(len(ids)) {
			ids = nil
		} else if page.Offset > 0 {
			ids = ids[page.Offset:]
		}
		if page.Limit > 0 && page.Limit < int64(len(ids)) {
			ids = ids[:page.Limit]
		}
	}

	records := make([]Record, 0, len(ids))
	for _, id := range ids {
		records = append(records, Record{ID: id, Values: copyMap(c.docs[id])})
	}
	return records, nil
}

func (c *memoryCollection) FindByID(ctx context.Context, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	doc, ok := c.docs[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return Record{ID: id, Values: copyMap(doc)}, nil
}

func (c *memoryCollection) FindByIDs(ctx context.Context, ids []string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	// Store order, like a $in query without sort.
	records := make([]Record, 0, len(wanted))
	for _, id := range c.order {
		if wanted[id] {
			records = append(records, Record{ID: id, Values: copyMap(c.docs[id])})
		}
	}
	return records, nil
}

func (c *memoryCollection) Insert(ctx context.Context, values map[string]interface{}) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := uuid.New().String()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.docs[id] = copyMap(values)
	c.order = append(c.order, id)
	return id, nil
}

func (c *memoryCollection) Update(ctx context.Context, id string, values map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.docs[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range values {
		doc[k] = copyValue(v)
	}
	return nil
}

func (c *memoryCollection) Remove(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.docs[id]; !ok {
		return ErrNotFound
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return copyMap(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}

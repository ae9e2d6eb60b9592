package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"evalgo.org/modelapi/internal/config"
)

// MongoStore keeps one MongoDB collection per model type.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg config.MongoDBConfig) (*MongoStore, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.Timeout > 0 {
		opts.SetConnectTimeout(cfg.Timeout)
		opts.SetServerSelectionTimeout(cfg.Timeout)
	}
	if cfg.ReadPreference != "" {
		mode, err := readpref.ModeFromString(cfg.ReadPreference)
		if err != nil {
			return nil, fmt.Errorf("invalid read preference: %w", err)
		}
		rp, err := readpref.New(mode)
		if err != nil {
			return nil, fmt.Errorf("invalid read preference: %w", err)
		}
		opts.SetReadPreference(rp)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping failed: %w", err)
	}

	return &MongoStore{
		client: client,
		db:     client.Database(cfg.Database),
	}, nil
}

// Collection returns the collection for a model type.
func (s *MongoStore) Collection(name string) Collection {
	return &mongoCollection{coll: s.db.Collection(name)}
}

// Ping checks the server connection.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type mongoCollection struct {
	coll *mongo.Collection
}

func (c *mongoCollection) Find(ctx context.Context, page *Page) ([]Record, error) {
	opts := options.Find()
	if page != nil {
		if page.Offset > 0 {
			opts.SetSkip(page.Offset)
		}
		if page.Limit > 0 {
			opts.SetLimit(page.Limit)
		}
	}

	cur, err := c.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cur)
}

func (c *mongoCollection) FindByID(ctx context.Context, id string) (Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Not a valid ObjectID, so it cannot exist.
		return Record{}, ErrNotFound
	}

	var doc bson.M
	if err := c.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return toRecord(doc), nil
}

func (c *mongoCollection) FindByIDs(ctx context.Context, ids []string) ([]Record, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []Record{}, nil
	}

	cur, err := c.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cur)
}

func (c *mongoCollection) Insert(ctx context.Context, values map[string]interface{}) (string, error) {
	res, err := c.coll.InsertOne(ctx, bson.M(values))
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (c *mongoCollection) Update(ctx context.Context, id string, values map[string]interface{}) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	// $set rejects an empty document; an empty merge only checks existence.
	if len(values) == 0 {
		n, err := c.coll.CountDocuments(ctx, bson.M{"_id": oid})
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	}

	res, err := c.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M(values)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *mongoCollection) Remove(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func decodeAll(ctx context.Context, cur *mongo.Cursor) ([]Record, error) {
	defer cur.Close(ctx)

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, toRecord(doc))
	}
	return records, nil
}

// toRecord splits _id from the stored fields and converts driver types into
// plain Go values.
func toRecord(doc bson.M) Record {
	rec := Record{Values: make(map[string]interface{}, len(doc))}
	for k, v := range doc {
		if k == "_id" {
			rec.ID = idString(v)
			continue
		}
		rec.Values[k] = normalize(v)
	}
	return rec
}

func idString(v interface{}) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case primitive.M:
		return normalizeMap(val)
	case map[string]interface{}:
		return normalizeMap(val)
	case primitive.D:
		out := make(map[string]interface{}, len(val))
		for _, e := range val {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case primitive.A:
		return normalizeSlice(val)
	case []interface{}:
		return normalizeSlice(val)
	case primitive.ObjectID:
		return val.Hex()
	case primitive.DateTime:
		return val.Time().UTC().Format(time.RFC3339Nano)
	default:
		return v
	}
}

func normalizeMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}

func normalizeSlice(s []interface{}) []interface{} {
	out := make([]interface{}, len(s))
	for i, v := range s {
		out[i] = normalize(v)
	}
	return out
}

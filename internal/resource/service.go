// Package resource implements the generic CRUD orchestrator that serves every
// registered model type.
//
// A Service never contains type-specific code. Each operation looks the type
// up in the model registry, translates the wire envelope with the jsonapi
// adapter, normalizes relationships and issues at most one store call per
// step. Failures are returned as *apierr.Error values.
package resource

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"evalgo.org/modelapi/internal/apierr"
	"evalgo.org/modelapi/internal/jsonapi"
	"evalgo.org/modelapi/internal/storage"
	"evalgo.org/modelapi/internal/validation"
	"evalgo.org/modelapi/models"
)

// Service orchestrates resource operations over a store.
type Service struct {
	registry  *models.Registry
	store     storage.Store
	adapter   *jsonapi.Adapter
	publisher Publisher
	log       logrus.FieldLogger
}

// NewService wires a service. A nil publisher disables change events.
func NewService(registry *models.Registry, store storage.Store, adapter *jsonapi.Adapter, publisher Publisher, log logrus.FieldLogger) *Service {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &Service{
		registry:  registry,
		store:     store,
		adapter:   adapter,
		publisher: publisher,
		log:       log,
	}
}

// Registry returns the model registry the service serves.
func (s *Service) Registry() *models.Registry {
	return s.registry
}

// Types maps every registered type to its collection link.
func (s *Service) Types(links jsonapi.LinkBuilder) map[string]string {
	types := s.registry.AllTypes()
	out := make(map[string]string, len(types))
	for _, typ := range types {
		out[typ] = links.Link(typ)
	}
	return out
}

// List returns the records of typ. A nil page returns every record.
func (s *Service) List(ctx context.Context, typ string, page *storage.Page, links jsonapi.LinkBuilder) (*jsonapi.Document, error) {
	ser, err := s.adapter.SerializerFor(typ, links)
	if err != nil {
		return nil, err
	}

	recs, err := s.store.Collection(typ).Find(ctx, page)
	if err != nil {
		return nil, storeError(err, "")
	}
	return ser.Many(recs), nil
}

// Create stores a new record built from body.
func (s *Service) Create(ctx context.Context, typ string, body []byte, links jsonapi.LinkBuilder) (*jsonapi.Document, error) {
	if err := validation.ValidatePayload(body, true); err != nil {
		return nil, err
	}

	def, err := s.registry.MetadataFor(typ)
	if err != nil {
		return nil, err
	}
	input, err := s.deserialize(typ, body)
	if err != nil {
		return nil, err
	}

	values := make(map[string]interface{}, len(def.Attributes))
	for _, attr := range def.Attributes {
		values[attr] = input[attr]
	}

	rels := s.registry.RelationshipsFor(typ)
	for key, empty := range jsonapi.EmptyRelationships(rels) {
		values[key] = empty
	}
	values = jsonapi.ApplyRelationships(rels, input, values)

	id, err := s.store.Collection(typ).Insert(ctx, values)
	if err != nil {
		return nil, storeError(err, "")
	}

	s.log.WithFields(logrus.Fields{"type": typ, "id": id}).Debug("Resource created")
	s.publisher.Publish(newEvent(EventCreated, typ, id))

	ser, err := s.adapter.SerializerFor(typ, links)
	if err != nil {
		return nil, err
	}
	return ser.One(storage.Record{ID: id, Values: values}), nil
}

// Retrieve returns one record.
func (s *Service) Retrieve(ctx context.Context, typ, id string, links jsonapi.LinkBuilder) (*jsonapi.Document, error) {
	ser, err := s.adapter.SerializerFor(typ, links)
	if err != nil {
		return nil, err
	}

	rec, err := s.store.Collection(typ).FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, id)
	}
	return ser.One(rec), nil
}

// Update merges the attributes and relationships present in body into the
// record and returns the stored result.
func (s *Service) Update(ctx context.Context, typ, id string, body []byte, links jsonapi.LinkBuilder) (*jsonapi.Document, error) {
	if err := validation.ValidatePayload(body, false); err != nil {
		return nil, err
	}
	if gjson.GetBytes(body, "data.id").String() != id {
		return nil, apierr.BadRequest("The ID found in the request URI does not match the value of the `id` member.")
	}
	if gjson.GetBytes(body, "data.type").String() != typ {
		return nil, apierr.BadRequest("The type found in the request URI does not match the value of the `type` member.")
	}

	def, err := s.registry.MetadataFor(typ)
	if err != nil {
		return nil, err
	}
	input, err := s.deserialize(typ, body)
	if err != nil {
		return nil, err
	}

	values := make(map[string]interface{}, len(input))
	for _, attr := range def.Attributes {
		if v, ok := input[attr]; ok {
			values[attr] = v
		}
	}
	values = jsonapi.ApplyRelationships(s.registry.RelationshipsFor(typ), input, values)

	coll := s.store.Collection(typ)
	if err := coll.Update(ctx, id, values); err != nil {
		return nil, storeError(err, id)
	}

	rec, err := coll.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, id)
	}

	s.log.WithFields(logrus.Fields{"type": typ, "id": id}).Debug("Resource updated")
	s.publisher.Publish(newEvent(EventUpdated, typ, id))

	ser, err := s.adapter.SerializerFor(typ, links)
	if err != nil {
		return nil, err
	}
	return ser.One(rec), nil
}

// Delete removes one record.
func (s *Service) Delete(ctx context.Context, typ, id string) error {
	if !s.registry.Exists(typ) {
		return apierr.NotFound("No API resource exists for type: %s", typ)
	}

	if err := s.store.Collection(typ).Remove(ctx, id); err != nil {
		return storeError(err, id)
	}

	s.log.WithFields(logrus.Fields{"type": typ, "id": id}).Debug("Resource deleted")
	s.publisher.Publish(newEvent(EventDeleted, typ, id))
	return nil
}

// Related returns the resources referenced by relationship key of a record.
// Empty relationships and dangling references yield the empty representation.
func (s *Service) Related(ctx context.Context, typ, id, key string, links jsonapi.LinkBuilder) (*jsonapi.Document, error) {
	if !s.registry.Exists(typ) {
		return nil, apierr.NotFound("No API resource exists for type: %s", typ)
	}
	if !s.registry.HasRelationship(typ, key) {
		return nil, apierr.BadRequest("The relationship '%s' does not exist on model '%s'", key, typ)
	}
	rel, err := s.registry.RelationshipFor(typ, key)
	if err != nil {
		return nil, err
	}

	ser, err := s.adapter.SerializerFor(rel.Entity, links)
	if err != nil {
		return nil, apierr.Internal(err, "No model exists for related type %s", rel.Entity)
	}

	parent, err := s.store.Collection(typ).FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, id)
	}

	target := s.store.Collection(rel.Entity)
	value := parent.Values[key]

	if rel.Cardinality == models.Many {
		ids := jsonapi.RefIDs(value)
		if len(ids) == 0 {
			return ser.Empty(models.Many), nil
		}
		recs, err := target.FindByIDs(ctx, ids)
		if err != nil {
			return nil, storeError(err, "")
		}
		return ser.Many(recs), nil
	}

	refID, ok := jsonapi.RefID(value)
	if !ok {
		return ser.Empty(models.One), nil
	}
	rec, err := target.FindByID(ctx, refID)
	if errors.Is(err, storage.ErrNotFound) {
		s.log.WithFields(logrus.Fields{"type": typ, "id": id, "relationship": key, "target": refID}).
			Debug("Dangling relationship reference")
		return ser.Empty(models.One), nil
	}
	if err != nil {
		return nil, storeError(err, "")
	}
	return ser.One(rec), nil
}

// MutateRelationship is reserved for write-through relationship updates.
func (s *Service) MutateRelationship(ctx context.Context, typ, id, key string) error {
	return apierr.NotImplemented("Modifying relationships via the `related` link is not yet available.")
}

// Ping checks the store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) deserialize(typ string, body []byte) (map[string]interface{}, error) {
	d, err := s.adapter.DeserializerFor(typ)
	if err != nil {
		return nil, err
	}
	return d.Deserialize(body)
}

// storeError classifies a store failure. id names the missing record.
func storeError(err error, id string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apierr.NotFound("No record found for ID: %s", id)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apierr.Internal(err, "The request was canceled")
	}
	return apierr.Internal(err, "The document store failed to complete the request")
}

func newEvent(action EventAction, typ, id string) Event {
	return Event{Action: action, Type: typ, ID: id, Timestamp: time.Now().UTC()}
}

package jsonapi

import (
	"evalgo.org/modelapi/internal/storage"
	"evalgo.org/modelapi/models"
)

// Serializer renders stored records of one type.
type Serializer struct {
	def     models.Definition
	rels    []models.RelationshipDefinition
	keyCase KeyCase
	links   LinkBuilder
}

// One renders a single-resource document.
func (s *Serializer) One(rec storage.Record) *Document {
	return &Document{
		Links: &Links{Self: s.links.Self()},
		Data:  s.Resource(rec),
	}
}

// Many renders a collection document. An empty input yields "data": [].
func (s *Serializer) Many(recs []storage.Record) *Document {
	data := make([]*Resource, 0, len(recs))
	for _, rec := range recs {
		data = append(data, s.Resource(rec))
	}
	return &Document{
		Links: &Links{Self: s.links.Self()},
		Data:  data,
	}
}

// Empty renders the empty representation for a cardinality: null for one
// and [] for many.
func (s *Serializer) Empty(card models.Cardinality) *Document {
	doc := &Document{Links: &Links{Self: s.links.Self()}}
	if card == models.Many {
		doc.Data = []*Resource{}
	}
	return doc
}

// Resource renders one record. Declared attributes that are missing or
// null are omitted, as are unset one-relationships.
func (s *Serializer) Resource(rec storage.Record) *Resource {
	res := &Resource{
		Type:  s.def.Type,
		ID:    rec.ID,
		Links: &Links{Self: s.links.Resource(s.def.Type, rec.ID)},
	}

	for _, attr := range s.def.Attributes {
		value, ok := rec.Values[attr]
		if !ok || value == nil {
			continue
		}
		if res.Attributes == nil {
			res.Attributes = make(map[string]interface{}, len(s.def.Attributes))
		}
		res.Attributes[s.keyCase.Apply(attr)] = value
	}

	for _, rel := range s.rels {
		value, ok := rec.Values[rel.Key]
		if !ok || value == nil {
			continue
		}

		var data interface{}
		switch rel.Cardinality {
		case models.Many:
			data = identifiers(value, rel.Entity)
		case models.One:
			ident := identifier(value, rel.Entity)
			if ident == nil {
				continue
			}
			data = ident
		}

		if res.Relationships == nil {
			res.Relationships = make(map[string]*Relationship, len(s.rels))
		}
		res.Relationships[s.keyCase.Apply(rel.Key)] = &Relationship{
			Data: data,
			Links: &Links{
				Self:    s.links.RelationshipSelf(s.def.Type, rec.ID, rel.Key),
				Related: s.links.Related(s.def.Type, rec.ID, rel.Key),
			},
		}
	}

	return res
}

func identifier(v interface{}, entity string) *Identifier {
	id, ok := RefID(v)
	if !ok {
		return nil
	}
	typ := entity
	if m, ok := v.(map[string]interface{}); ok {
		if t, ok := m["type"].(string); ok && t != "" {
			typ = t
		}
	}
	return &Identifier{Type: typ, ID: id}
}

func identifiers(v interface{}, entity string) []*Identifier {
	out := []*Identifier{}
	list, ok := v.([]interface{})
	if !ok {
		return out
	}
	for _, item := range list {
		if ident := identifier(item, entity); ident != nil {
			out = append(out, ident)
		}
	}
	return out
}

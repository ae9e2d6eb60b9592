package jsonapi

import (
	"evalgo.org/modelapi/models"
)

// Adapter builds per-type serializers and deserializers from registry
// metadata.
type Adapter struct {
	registry *models.Registry
	keyCase  KeyCase
}

// NewAdapter returns an adapter over registry that renders keys in keyCase.
func NewAdapter(registry *models.Registry, keyCase KeyCase) *Adapter {
	if keyCase == "" {
		keyCase = CamelCase
	}
	return &Adapter{registry: registry, keyCase: keyCase}
}

// KeyCase returns the configured wire casing.
func (a *Adapter) KeyCase() KeyCase {
	return a.keyCase
}

// SerializerFor returns the serializer of typ for one request.
func (a *Adapter) SerializerFor(typ string, links LinkBuilder) (*Serializer, error) {
	def, err := a.registry.MetadataFor(typ)
	if err != nil {
		return nil, err
	}
	return &Serializer{
		def:     def,
		rels:    a.registry.RelationshipsFor(typ),
		keyCase: a.keyCase,
		links:   links,
	}, nil
}

// DeserializerFor returns the deserializer of typ.
func (a *Adapter) DeserializerFor(typ string) (*Deserializer, error) {
	def, err := a.registry.MetadataFor(typ)
	if err != nil {
		return nil, err
	}
	rels := a.registry.RelationshipsFor(typ)

	d := &Deserializer{
		def:   def,
		rels:  make(map[string]models.RelationshipDefinition, len(rels)),
		names: make(map[string]string, len(def.Attributes)+len(rels)),
	}
	for _, attr := range def.Attributes {
		d.names[normalizeKey(attr)] = attr
	}
	for _, rel := range rels {
		d.names[normalizeKey(rel.Key)] = rel.Key
		d.rels[rel.Key] = rel
	}
	return d, nil
}

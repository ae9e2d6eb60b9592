package models

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	"evalgo.org/modelapi/internal/apierr"
)

// Registry is the immutable catalog of model definitions.
type Registry struct {
	defs      map[string]Definition
	rels      map[string][]RelationshipDefinition
	types     []string
	malformed []string
}

// NewRegistry validates and registers the given definitions.
// Malformed relationship definitions do not fail registration; they are
// excluded from the resolved set and reported by Malformed.
func NewRegistry(defs ...Definition) (*Registry, error) {
	validate := validator.New()

	r := &Registry{
		defs: make(map[string]Definition, len(defs)),
		rels: make(map[string][]RelationshipDefinition, len(defs)),
	}

	for _, def := range defs {
		if err := validate.Struct(def); err != nil {
			return nil, fmt.Errorf("invalid model definition %q: %w", def.Type, err)
		}
		if _, exists := r.defs[def.Type]; exists {
			return nil, fmt.Errorf("model type %q registered twice", def.Type)
		}

		def = def.clone()
		r.defs[def.Type] = def
		r.types = append(r.types, def.Type)

		keys := make([]string, 0, len(def.Relationships))
		for key := range def.Relationships {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		resolved := make([]RelationshipDefinition, 0, len(keys))
		for _, key := range keys {
			rel := def.Relationships[key]
			if !rel.wellFormed() {
				r.malformed = append(r.malformed, def.Type+"."+key)
				continue
			}
			rel.Key = key
			resolved = append(resolved, rel)
		}
		r.rels[def.Type] = resolved
	}

	sort.Strings(r.types)
	return r, nil
}

// Exists reports whether typ is registered.
func (r *Registry) Exists(typ string) bool {
	_, ok := r.defs[typ]
	return ok
}

// AllTypes returns the registered type names in sorted order.
func (r *Registry) AllTypes() []string {
	return append([]string(nil), r.types...)
}

// MetadataFor returns the definition of typ.
func (r *Registry) MetadataFor(typ string) (Definition, error) {
	def, ok := r.defs[typ]
	if !ok {
		return Definition{}, apierr.NotFound("No model exists for type %s", typ)
	}
	return def.clone(), nil
}

// RelationshipsFor returns the well-formed relationships of typ, sorted by key.
// Unregistered types have none.
func (r *Registry) RelationshipsFor(typ string) []RelationshipDefinition {
	return append([]RelationshipDefinition(nil), r.rels[typ]...)
}

// HasRelationship reports whether typ declares the relationship key.
func (r *Registry) HasRelationship(typ, key string) bool {
	def, ok := r.defs[typ]
	if !ok {
		return false
	}
	_, ok = def.Relationships[key]
	return ok
}

// RelationshipFor returns the well-formed relationship key of typ.
func (r *Registry) RelationshipFor(typ, key string) (RelationshipDefinition, error) {
	for _, rel := range r.rels[typ] {
		if rel.Key == key {
			return rel, nil
		}
	}
	return RelationshipDefinition{}, apierr.Internal(nil, "No %s relationship assigned on model %s", key, typ)
}

// Malformed lists the dropped relationship definitions as "type.key".
func (r *Registry) Malformed() []string {
	return append([]string(nil), r.malformed...)
}

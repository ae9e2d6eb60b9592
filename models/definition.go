// Package models holds the resource model definitions served by modelapi and
// the registry that answers questions about them.
//
// A model definition is a small static declaration: a type name, the ordered
// list of attribute names that are persisted and serialized, and the
// relationships the type declares to other types.
//
// Example definition:
//
//	models.Definition{
//	    Type:       "organization",
//	    Attributes: []string{"name", "description", "body"},
//	    Relationships: map[string]models.RelationshipDefinition{
//	        "tags": {Cardinality: models.Many, Entity: "tags"},
//	    },
//	}
//
// Definitions are registered once at boot with NewRegistry and never change
// afterwards, so the registry is safe for concurrent reads without locking.
package models

// Cardinality states how many references a relationship holds.
type Cardinality string

const (
	// One relationships hold at most one reference.
	One Cardinality = "one"

	// Many relationships hold an arbitrary list of references.
	Many Cardinality = "many"
)

// Valid reports whether c is a recognized cardinality token.
func (c Cardinality) Valid() bool {
	return c == One || c == Many
}

// RelationshipDefinition declares a relationship key on a model.
type RelationshipDefinition struct {
	// Key is the relationship field name. Filled from the map key on registration.
	Key string `json:"key" yaml:"-"`

	// Cardinality is either "one" or "many"
	Cardinality Cardinality `json:"type" yaml:"type"`

	// Entity is the target model type
	Entity string `json:"entity" yaml:"entity"`
}

// wellFormed reports whether the definition can be resolved.
func (r RelationshipDefinition) wellFormed() bool {
	return r.Entity != "" && r.Cardinality.Valid()
}

// Definition is the static metadata of one resource type.
type Definition struct {
	// Type is the unique type name, also used as the URL segment and collection name
	Type string `json:"type" yaml:"type" validate:"required,excludesall=/?# "`

	// Attributes is the ordered set of persisted attribute names
	Attributes []string `json:"attributes" yaml:"attributes" validate:"unique,dive,required"`

	// Relationships maps relationship keys to their definitions
	Relationships map[string]RelationshipDefinition `json:"relationships,omitempty" yaml:"relationships,omitempty"`
}

// clone returns a deep copy so callers cannot mutate registry state.
func (d Definition) clone() Definition {
	out := Definition{
		Type:       d.Type,
		Attributes: append([]string(nil), d.Attributes...),
	}
	if d.Relationships != nil {
		out.Relationships = make(map[string]RelationshipDefinition, len(d.Relationships))
		for k, v := range d.Relationships {
			out.Relationships[k] = v
		}
	}
	return out
}

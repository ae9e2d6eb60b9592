package jsonapi

import (
	"fmt"
	"math"

	"evalgo.org/modelapi/models"
)

// Ref builds the stored form of a reference to another resource.
func Ref(typ, id string) map[string]interface{} {
	return map[string]interface{}{"id": id, "type": typ}
}

// RefID returns the identifier held by a stored reference.
func RefID(v interface{}) (string, bool) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return "", false
	}
	switch id := m["id"].(type) {
	case string:
		return id, id != ""
	case nil:
		return "", false
	default:
		return fmt.Sprint(id), true
	}
}

// RefIDs returns the identifiers of a stored reference list, skipping
// entries that are not references.
func RefIDs(v interface{}) []string {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(list))
	for _, item := range list {
		if id, ok := RefID(item); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// ApplyRelationships normalizes the relationship values found in input and
// writes them into a copy of target. A key absent from input leaves target
// untouched. Many-relationships always end up as a list without falsy
// entries; one-relationships end up as a single truthy value or nil.
func ApplyRelationships(rels []models.RelationshipDefinition, input, target map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(target)+len(rels))
	for k, v := range target {
		out[k] = v
	}

	for _, rel := range rels {
		value, present := input[rel.Key]
		if !present {
			continue
		}

		switch rel.Cardinality {
		case models.Many:
			out[rel.Key] = resolveMany(value)
		case models.One:
			out[rel.Key] = resolveOne(value)
		}
	}
	return out
}

// EmptyRelationships returns the empty container for every relationship:
// nil for one and an empty list for many.
func EmptyRelationships(rels []models.RelationshipDefinition) map[string]interface{} {
	out := make(map[string]interface{}, len(rels))
	for _, rel := range rels {
		if rel.Cardinality == models.Many {
			out[rel.Key] = []interface{}{}
		} else {
			out[rel.Key] = nil
		}
	}
	return out
}

func resolveMany(value interface{}) []interface{} {
	if list, ok := value.([]interface{}); ok {
		out := make([]interface{}, 0, len(list))
		for _, item := range list {
			if truthy(item) {
				out = append(out, item)
			}
		}
		return out
	}
	if truthy(value) {
		return []interface{}{value}
	}
	return []interface{}{}
}

func resolveOne(value interface{}) interface{} {
	if list, ok := value.([]interface{}); ok {
		for _, item := range list {
			if truthy(item) {
				return item
			}
		}
		return nil
	}
	if truthy(value) {
		return value
	}
	return nil
}

// truthy follows JSON value truthiness: null, false, zero and the empty
// string are falsy. Objects and lists are truthy even when empty.
func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0 && !math.IsNaN(val)
	case float32:
		return val != 0 && !math.IsNaN(float64(val))
	case int:
		return val != 0
	case int32:
		return val != 0
	case int64:
		return val != 0
	case map[string]interface{}:
		return val != nil
	case []interface{}:
		return val != nil
	default:
		return true
	}
}

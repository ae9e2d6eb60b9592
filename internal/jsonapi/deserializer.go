package jsonapi

import (
	"fmt"

	"evalgo.org/modelapi/internal/apierr"
	"evalgo.org/modelapi/models"
)

// Deserializer turns an inbound envelope into a flat map keyed by internal
// attribute and relationship names.
type Deserializer struct {
	def   models.Definition
	rels  map[string]models.RelationshipDefinition
	names map[string]string
}

type inboundDocument struct {
	Data *inboundResource `json:"data"`
}

type inboundResource struct {
	Type          string                 `json:"type"`
	ID            interface{}            `json:"id"`
	Attributes    map[string]interface{} `json:"attributes"`
	Relationships map[string]interface{} `json:"relationships"`
}

// Deserialize decodes body. Relationship linkage is reduced to stored
// references of the form {"id": ..., "type": ...}; a null or incomplete
// identifier becomes nil so the resolver can drop it.
func (d *Deserializer) Deserialize(body []byte) (map[string]interface{}, error) {
	var doc inboundDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, apierr.BadRequest("The request body is not a valid JSON:API document: %v", err)
	}
	if doc.Data == nil {
		return nil, apierr.BadRequest("No data member was found in the request.")
	}

	out := make(map[string]interface{}, len(doc.Data.Attributes)+len(doc.Data.Relationships))
	for key, value := range doc.Data.Attributes {
		out[d.internalName(key)] = value
	}
	for key, value := range doc.Data.Relationships {
		name := d.internalName(key)
		out[name] = d.linkage(name, value)
	}
	return out, nil
}

// internalName maps a wire key in any supported casing to the declared name.
func (d *Deserializer) internalName(key string) string {
	norm := normalizeKey(key)
	if name, ok := d.names[norm]; ok {
		return name
	}
	return norm
}

// linkage accepts both {"data": linkage} and bare linkage.
func (d *Deserializer) linkage(name string, value interface{}) interface{} {
	if obj, ok := value.(map[string]interface{}); ok {
		if data, ok := obj["data"]; ok {
			value = data
		}
	}

	entity := d.rels[name].Entity
	switch v := value.(type) {
	case []interface{}:
		refs := make([]interface{}, len(v))
		for i, item := range v {
			refs[i] = toRef(item, entity)
		}
		return refs
	case map[string]interface{}:
		return toRef(v, entity)
	default:
		return v
	}
}

func toRef(v interface{}, entity string) interface{} {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return v
	}

	var id string
	switch raw := obj["id"].(type) {
	case string:
		id = raw
	case nil:
	default:
		id = fmt.Sprint(raw)
	}
	if id == "" {
		return nil
	}

	typ, _ := obj["type"].(string)
	if typ == "" {
		typ = entity
	}
	return Ref(typ, id)
}

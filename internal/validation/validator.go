// Package validation provides the request gate that runs before any
// resource handler touches the store.
//
// Checks run in order and stop at the first failure:
//
// 1. Type check - the type path segment must name a registered model
// 2. Envelope check (create and update) - the body must carry a data object with a type
// 3. Identity check - create must not carry data.id, update must carry it
//
// The envelope is inspected on the raw body with gjson, before it is
// deserialized, so an invalid request never costs more than one parse.
//
// # Usage Example
//
//	v := validation.New(registry)
//	if err := v.Validate("organization", body, validation.Create); err != nil {
//	    return err // *apierr.Error, rendered by the HTTP error handler
//	}
package validation

import (
	"github.com/tidwall/gjson"

	"evalgo.org/modelapi/internal/apierr"
	"evalgo.org/modelapi/models"
)

// Mode selects which payload checks apply.
type Mode int

const (
	// Read requests only need a registered type.
	Read Mode = iota

	// Create requests must not carry a client identifier.
	Create

	// Update requests must carry the identifier of the record.
	Update
)

// Validator gates requests against the model registry.
type Validator struct {
	registry *models.Registry
}

// New creates a validator backed by registry.
func New(registry *models.Registry) *Validator {
	return &Validator{registry: registry}
}

// Validate runs every check that applies to mode.
func (v *Validator) Validate(typ string, body []byte, mode Mode) error {
	if err := v.ValidateType(typ); err != nil {
		return err
	}
	if mode == Read {
		return nil
	}
	return ValidatePayload(body, mode == Create)
}

// ValidateType fails with NotFound when typ is not registered.
func (v *Validator) ValidateType(typ string) error {
	if !v.registry.Exists(typ) {
		return apierr.NotFound("No API resource exists for type: %s", typ)
	}
	return nil
}

// ValidatePayload checks the envelope shape and the identity rules of a
// create (isNew) or update body.
func ValidatePayload(body []byte, isNew bool) error {
	if len(body) > 0 && !gjson.ValidBytes(body) {
		return apierr.BadRequest("The request body is not valid JSON.")
	}

	data := gjson.GetBytes(body, "data")
	if !truthy(data) {
		return apierr.BadRequest("No data member was found in the request.")
	}
	if !truthy(data.Get("type")) {
		return apierr.BadRequest("All data payloads must contain the `type` member.")
	}

	id := data.Get("id")
	if isNew && truthy(id) {
		return apierr.BadRequest("Client generated identifiers are not supported. Remove the `id` member and try again.")
	}
	if !isNew && !truthy(id) {
		return apierr.BadRequest("All update requests must contain the `id` member.")
	}
	return nil
}

// truthy treats missing, null, false, 0 and "" as absent.
func truthy(r gjson.Result) bool {
	if !r.Exists() {
		return false
	}
	switch r.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	default:
		return true
	}
}

// Package jsonapi translates between stored resource records and the
// JSON:API-shaped wire envelope.
//
// The adapter is driven entirely by model metadata from the registry: the
// declared attributes decide what is read from and written to the envelope,
// and the declared relationships decide how linkage is normalized. No type
// needs its own marshalling code.
//
// Wire envelope:
//
//	{
//	  "links": {"self": "http://host/api/rest/organization/5f0c..."},
//	  "data": {
//	    "type": "organization",
//	    "id": "5f0c...",
//	    "attributes": {"name": "Acme"},
//	    "relationships": {
//	      "tags": {
//	        "data": [{"type": "tags", "id": "5f0d..."}],
//	        "links": {
//	          "self": "http://host/api/rest/organization/5f0c.../relationships/tags",
//	          "related": "http://host/api/rest/organization/5f0c.../tags"
//	        }
//	      }
//	    },
//	    "links": {"self": "http://host/api/rest/organization/5f0c..."}
//	  }
//	}
package jsonapi

import (
	jsoniter "github.com/json-iterator/go"
)

// MediaType is the JSON:API media type. Plain application/json is accepted too.
const MediaType = "application/vnd.api+json"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Document is a top-level envelope. Data holds a *Resource, a []*Resource or nil.
type Document struct {
	Links *Links      `json:"links,omitempty"`
	Data  interface{} `json:"data"`
}

// Resource is a single resource object.
type Resource struct {
	Type          string                   `json:"type"`
	ID            string                   `json:"id,omitempty"`
	Attributes    map[string]interface{}   `json:"attributes,omitempty"`
	Relationships map[string]*Relationship `json:"relationships,omitempty"`
	Links         *Links                   `json:"links,omitempty"`
}

// Relationship is reference-only linkage. Data holds an *Identifier, an
// []*Identifier or nil.
type Relationship struct {
	Data  interface{} `json:"data"`
	Links *Links      `json:"links,omitempty"`
}

// Identifier is a resource identifier object.
type Identifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Links holds hypermedia links.
type Links struct {
	Self    string `json:"self,omitempty"`
	Related string `json:"related,omitempty"`
}

// ErrorObject is one entry of an error document.
type ErrorObject struct {
	Status string                 `json:"status"`
	Title  string                 `json:"title"`
	Detail string                 `json:"detail"`
	Meta   map[string]interface{} `json:"meta,omitempty"`
}

// ErrorDocument is the error envelope.
type ErrorDocument struct {
	Errors []ErrorObject `json:"errors"`
}

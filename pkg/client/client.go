// Package client is a Go client for the modelapi resource API.
//
// Usage:
//
//	c, err := client.New("http://localhost:8100/api/rest")
//	if err != nil {
//	    return err
//	}
//	org, err := c.Create(ctx, "organization", client.Attributes{"name": "Acme"}, nil)
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
)

// MediaType is the JSON:API media type.
const MediaType = "application/vnd.api+json"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Attributes are resource attributes in wire casing.
type Attributes map[string]interface{}

// Identifier references another resource.
type Identifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Links holds hypermedia links.
type Links struct {
	Self    string `json:"self,omitempty"`
	Related string `json:"related,omitempty"`
}

// Relationship is relationship linkage. Data is null, one object or a list.
type Relationship struct {
	Data  jsoniter.RawMessage `json:"data"`
	Links *Links              `json:"links,omitempty"`
}

// Identifiers decodes the linkage. A null one-relationship yields nil.
func (r Relationship) Identifiers() ([]Identifier, error) {
	raw := strings.TrimSpace(string(r.Data))
	switch {
	case raw == "" || raw == "null":
		return nil, nil
	case strings.HasPrefix(raw, "["):
		var ids []Identifier
		err := json.Unmarshal(r.Data, &ids)
		return ids, err
	default:
		var id Identifier
		if err := json.Unmarshal(r.Data, &id); err != nil {
			return nil, err
		}
		return []Identifier{id}, nil
	}
}

// Resource is a resource object.
type Resource struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id,omitempty"`
	Attributes    Attributes              `json:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
	Links         *Links                  `json:"links,omitempty"`
}

type singleDocument struct {
	Links *Links    `json:"links,omitempty"`
	Data  *Resource `json:"data"`
}

type collectionDocument struct {
	Links *Links     `json:"links,omitempty"`
	Data  []Resource `json:"data"`
}

// ErrorObject is one error returned by the server.
type ErrorObject struct {
	Status string `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Error is returned for every non-2xx response.
type Error struct {
	StatusCode int           `json:"-"`
	Errors     []ErrorObject `json:"errors"`
}

func (e *Error) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("modelapi: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("modelapi: HTTP %d: %s", e.StatusCode, e.Errors[0].Detail)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Page selects a slice of a collection. Zero values are omitted.
type Page struct {
	Limit  int
	Offset int
}

// Client talks to one modelapi base path.
type Client struct {
	http *resty.Client
}

// New creates a client for baseURL, e.g. http://localhost:8100/api/rest.
func New(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is required")
	}

	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(30*time.Second).
		SetHeader("Accept", MediaType).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	return &Client{http: rc}, nil
}

// Types returns the registered types and their collection links.
func (c *Client) Types(ctx context.Context) (map[string]string, error) {
	var out map[string]string
	if err := c.do(ctx, http.MethodGet, "/types", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns a collection. page may be nil.
func (c *Client) List(ctx context.Context, typ string, page *Page) ([]Resource, error) {
	query := map[string]string{}
	if page != nil {
		if page.Limit > 0 {
			query["page[limit]"] = strconv.Itoa(page.Limit)
		}
		if page.Offset > 0 {
			query["page[offset]"] = strconv.Itoa(page.Offset)
		}
	}

	var doc collectionDocument
	if err := c.do(ctx, http.MethodGet, "/"+typ, query, nil, &doc); err != nil {
		return nil, err
	}
	return doc.Data, nil
}

// Get returns one resource.
func (c *Client) Get(ctx context.Context, typ, id string) (*Resource, error) {
	var doc singleDocument
	if err := c.do(ctx, http.MethodGet, "/"+typ+"/"+id, nil, nil, &doc); err != nil {
		return nil, err
	}
	return doc.Data, nil
}

// Create stores a new resource. relationships maps keys to an Identifier,
// a []Identifier or nil.
func (c *Client) Create(ctx context.Context, typ string, attrs Attributes, relationships map[string]interface{}) (*Resource, error) {
	body := map[string]interface{}{"data": payload(typ, "", attrs, relationships)}

	var doc singleDocument
	if err := c.do(ctx, http.MethodPost, "/"+typ, nil, body, &doc); err != nil {
		return nil, err
	}
	return doc.Data, nil
}

// Update merges attrs and relationships into an existing resource.
func (c *Client) Update(ctx context.Context, typ, id string, attrs Attributes, relationships map[string]interface{}) (*Resource, error) {
	body := map[string]interface{}{"data": payload(typ, id, attrs, relationships)}

	var doc singleDocument
	if err := c.do(ctx, http.MethodPatch, "/"+typ+"/"+id, nil, body, &doc); err != nil {
		return nil, err
	}
	return doc.Data, nil
}

// Delete removes a resource.
func (c *Client) Delete(ctx context.Context, typ, id string) error {
	return c.do(ctx, http.MethodDelete, "/"+typ+"/"+id, nil, nil, nil)
}

// Related returns the resources referenced by a relationship. A null
// one-relationship yields an empty slice.
func (c *Client) Related(ctx context.Context, typ, id, key string) ([]Resource, error) {
	var doc struct {
		Data jsoniter.RawMessage `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/"+typ+"/"+id+"/relationships/"+key, nil, nil, &doc); err != nil {
		return nil, err
	}

	raw := strings.TrimSpace(string(doc.Data))
	switch {
	case raw == "" || raw == "null":
		return []Resource{}, nil
	case strings.HasPrefix(raw, "["):
		var list []Resource
		if err := json.Unmarshal(doc.Data, &list); err != nil {
			return nil, err
		}
		return list, nil
	default:
		var one Resource
		if err := json.Unmarshal(doc.Data, &one); err != nil {
			return nil, err
		}
		return []Resource{one}, nil
	}
}

func payload(typ, id string, attrs Attributes, relationships map[string]interface{}) map[string]interface{} {
	data := map[string]interface{}{"type": typ}
	if id != "" {
		data["id"] = id
	}
	if len(attrs) > 0 {
		data["attributes"] = attrs
	}
	if len(relationships) > 0 {
		rels := make(map[string]interface{}, len(relationships))
		for key, linkage := range relationships {
			rels[key] = map[string]interface{}{"data": linkage}
		}
		data["relationships"] = rels
	}
	return data
}

func (c *Client) do(ctx context.Context, method, path string, query map[string]string, body, result interface{}) error {
	req := c.http.R().
		SetContext(ctx).
		SetError(&Error{})

	if query != nil {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", MediaType).SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if resp.IsError() {
		apiErr, ok := resp.Error().(*Error)
		if !ok || apiErr == nil {
			apiErr = &Error{}
		}
		apiErr.StatusCode = resp.StatusCode()
		return apiErr
	}
	return nil
}

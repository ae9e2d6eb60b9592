package jsonapi

import (
	"path"
	"strings"
)

// LinkBuilder renders absolute links for one request.
type LinkBuilder struct {
	// Origin is scheme://host of the request.
	Origin string

	// BasePath is the mount point of the resource routes, e.g. /api/rest.
	BasePath string

	// RequestPath is the request path relative to BasePath.
	RequestPath string
}

// Link returns the absolute URL of p below the base path.
func (b LinkBuilder) Link(p string) string {
	return strings.TrimRight(b.Origin, "/") + path.Join("/", b.BasePath, p)
}

// Self returns the link of the current request.
func (b LinkBuilder) Self() string {
	return b.Link(b.RequestPath)
}

// Resource returns the canonical link of a resource.
func (b LinkBuilder) Resource(typ, id string) string {
	return b.Link(path.Join(typ, id))
}

// RelationshipSelf returns the relationship link of key on a resource.
func (b LinkBuilder) RelationshipSelf(typ, id, key string) string {
	return b.Link(path.Join(typ, id, "relationships", key))
}

// Related returns the related-resource link of key on a resource.
func (b LinkBuilder) Related(typ, id, key string) string {
	return b.Link(path.Join(typ, id, key))
}

// Package modelapi is a metadata-driven JSON:API resource server.
//
// # Overview
//
// Every model type is declared once as a list of attribute names plus a
// map of relationships. From that declaration modelapi serves the full set
// of JSON:API resource routes over a document store, with no type-specific
// handlers.
//
// # Architecture
//
//	┌─────────────────┐
//	│  HTTP (Echo)    │  request gate, JSON:API errors, metrics
//	└────────┬────────┘
//	         │
//	┌────────▼────────┐       ┌─────────────────┐
//	│  Resource       │──────►│  Event hub      │
//	│  service        │       │  (WebSocket)    │
//	└────────┬────────┘       └─────────────────┘
//	         │
//	┌────────▼────────┐
//	│  Storage        │
//	│  (MongoDB)      │
//	└─────────────────┘
//
// # Routes
//
// Under the configured base path (default /api/rest):
//
//	GET    /types
//	GET    /:type
//	POST   /:type
//	GET    /:type/:id
//	PATCH  /:type/:id
//	DELETE /:type/:id
//	GET    /:type/:id/relationships/:key
//	POST   /:type/:id/:relField   (501)
//	PATCH  /:type/:id/:relField   (501)
//
// # Models
//
// The organization and tags models are built in. More models are loaded from
// the YAML file named by models.file:
//
//	models:
//	  - type: article
//	    attributes: [title, body]
//	    relationships:
//	      author: {type: one, entity: people}
//	      tags: {type: many, entity: tags}
//
// # Usage
//
//	modelapi server --config config.yaml
//	modelapi query list organization
//	modelapi validate organization new-org.json
package modelapi

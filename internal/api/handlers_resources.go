package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"evalgo.org/modelapi/internal/jsonapi"
)

// links builds the link context of the current request.
func (s *Server) links(c echo.Context) jsonapi.LinkBuilder {
	return jsonapi.LinkBuilder{
		Origin:      c.Scheme() + "://" + c.Request().Host,
		BasePath:    s.basePath,
		RequestPath: strings.TrimPrefix(c.Request().URL.Path, s.basePath),
	}
}

// listTypes handles GET /types
// @Summary List resource types
// @Description Returns every registered type with the link to its collection
// @Tags resources
// @Produce json
// @Success 200 {object} map[string]string
// @Router /types [get]
func (s *Server) listTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, s.service.Types(s.links(c)))
}

// listResources handles GET /:type
// @Summary List resources
// @Description Returns the collection of a type. Paging is applied only when page[limit] or page[offset] is given
// @Tags resources
// @Produce application/vnd.api+json
// @Param type path string true "Resource type"
// @Param page[limit] query int false "Maximum number of resources (max 1000)"
// @Param page[offset] query int false "Number of resources to skip"
// @Success 200 {object} jsonapi.Document
// @Failure 400 {object} jsonapi.ErrorDocument
// @Failure 404 {object} jsonapi.ErrorDocument
// @Router /{type} [get]
func (s *Server) listResources(c echo.Context) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}

	doc, err := s.service.List(c.Request().Context(), c.Param("type"), page, s.links(c))
	if err != nil {
		return err
	}
	return writeDocument(c, http.StatusOK, doc)
}

// createResource handles POST /:type
// @Summary Create a resource
// @Description Stores a new resource. The identifier is generated by the server
// @Tags resources
// @Accept application/vnd.api+json
// @Produce application/vnd.api+json
// @Param type path string true "Resource type"
// @Param document body jsonapi.Document true "Resource document without id"
// @Success 200 {object} jsonapi.Document
// @Failure 400 {object} jsonapi.ErrorDocument
// @Failure 404 {object} jsonapi.ErrorDocument
// @Router /{type} [post]
func (s *Server) createResource(c echo.Context) error {
	doc, err := s.service.Create(c.Request().Context(), c.Param("type"), requestBody(c), s.links(c))
	if err != nil {
		return err
	}
	return writeDocument(c, http.StatusOK, doc)
}

// getResource handles GET /:type/:id
// @Summary Retrieve a resource
// @Tags resources
// @Produce application/vnd.api+json
// @Param type path string true "Resource type"
// @Param id path string true "Resource ID"
// @Success 200 {object} jsonapi.Document
// @Failure 404 {object} jsonapi.ErrorDocument
// @Router /{type}/{id} [get]
func (s *Server) getResource(c echo.Context) error {
	doc, err := s.service.Retrieve(c.Request().Context(), c.Param("type"), c.Param("id"), s.links(c))
	if err != nil {
		return err
	}
	return writeDocument(c, http.StatusOK, doc)
}

// updateResource handles PATCH /:type/:id
// @Summary Update a resource
// @Description Merges the attributes and relationships present in the document. Omitted members are left untouched and null clears a value
// @Tags resources
// @Accept application/vnd.api+json
// @Produce application/vnd.api+json
// @Param type path string true "Resource type"
// @Param id path string true "Resource ID"
// @Param document body jsonapi.Document true "Resource document with matching id"
// @Success 200 {object} jsonapi.Document
// @Failure 400 {object} jsonapi.ErrorDocument
// @Failure 404 {object} jsonapi.ErrorDocument
// @Router /{type}/{id} [patch]
func (s *Server) updateResource(c echo.Context) error {
	doc, err := s.service.Update(c.Request().Context(), c.Param("type"), c.Param("id"), requestBody(c), s.links(c))
	if err != nil {
		return err
	}
	return writeDocument(c, http.StatusOK, doc)
}

// deleteResource handles DELETE /:type/:id
// @Summary Delete a resource
// @Tags resources
// @Param type path string true "Resource type"
// @Param id path string true "Resource ID"
// @Success 204
// @Failure 404 {object} jsonapi.ErrorDocument
// @Router /{type}/{id} [delete]
func (s *Server) deleteResource(c echo.Context) error {
	if err := s.service.Delete(c.Request().Context(), c.Param("type"), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// getRelationship handles GET /:type/:id/relationships/:key
// @Summary Retrieve related resources
// @Description Returns the resources referenced by a relationship. Empty relationships and dangling references yield null or an empty list
// @Tags relationships
// @Produce application/vnd.api+json
// @Param type path string true "Resource type"
// @Param id path string true "Resource ID"
// @Param key path string true "Relationship key"
// @Success 200 {object} jsonapi.Document
// @Failure 400 {object} jsonapi.ErrorDocument
// @Failure 404 {object} jsonapi.ErrorDocument
// @Router /{type}/{id}/relationships/{key} [get]
func (s *Server) getRelationship(c echo.Context) error {
	doc, err := s.service.Related(c.Request().Context(), c.Param("type"), c.Param("id"), c.Param("key"), s.links(c))
	if err != nil {
		return err
	}
	return writeDocument(c, http.StatusOK, doc)
}

// mutateRelationship handles POST|PATCH /:type/:id/:relField
// @Summary Modify a relationship (reserved)
// @Tags relationships
// @Param type path string true "Resource type"
// @Param id path string true "Resource ID"
// @Param relField path string true "Relationship key"
// @Failure 501 {object} jsonapi.ErrorDocument
// @Router /{type}/{id}/{relField} [post]
// @Router /{type}/{id}/{relField} [patch]
func (s *Server) mutateRelationship(c echo.Context) error {
	return s.service.MutateRelationship(c.Request().Context(), c.Param("type"), c.Param("id"), c.Param("relField"))
}

package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"evalgo.org/modelapi/internal/apierr"
	"evalgo.org/modelapi/internal/storage"
)

// maxPageLimit caps page[limit] to prevent excessive memory usage.
const maxPageLimit = 1000

// parsePage parses page[limit] and page[offset] from the query string.
// Paging is opt-in: without either parameter every record is listed.
func parsePage(c echo.Context) (*storage.Page, error) {
	limitParam := c.QueryParam("page[limit]")
	offsetParam := c.QueryParam("page[offset]")
	if limitParam == "" && offsetParam == "" {
		return nil, nil
	}

	page := &storage.Page{}

	if limitParam != "" {
		limit, err := strconv.ParseInt(limitParam, 10, 64)
		if err != nil || limit <= 0 {
			return nil, apierr.BadRequest("page[limit] must be a positive integer. Got: %s", limitParam)
		}
		if limit > maxPageLimit {
			limit = maxPageLimit
		}
		page.Limit = limit
	}

	if offsetParam != "" {
		offset, err := strconv.ParseInt(offsetParam, 10, 64)
		if err != nil || offset < 0 {
			return nil, apierr.BadRequest("page[offset] must be a non-negative integer. Got: %s", offsetParam)
		}
		page.Offset = offset
	}

	return page, nil
}

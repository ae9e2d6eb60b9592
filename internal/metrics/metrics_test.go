package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/modelapi/internal/apierr"
)

func TestMiddleware_RecordsRouteAndStatus(t *testing.T) {
	e := echo.New()
	e.Use(Middleware("/metrics"))
	e.GET("/api/rest/:type", func(c echo.Context) error {
		if c.Param("type") == "missing" {
			return apierr.NotFound("No API resource exists for type: missing")
		}
		return c.NoContent(http.StatusOK)
	})

	okBefore := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/rest/:type", "200"))
	notFoundBefore := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/rest/:type", "404"))

	for _, path := range []string{"/api/rest/organization", "/api/rest/missing"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, okBefore+1, testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/rest/:type", "200")))
	assert.Equal(t, notFoundBefore+1, testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/api/rest/:type", "404")))
}

func TestObserveStoreOperation(t *testing.T) {
	before := testutil.ToFloat64(storeOperations.WithLabelValues("organization", "find_by_id", ResultNotFound))

	ObserveStoreOperation("organization", "find_by_id", ResultNotFound, 2*time.Millisecond)

	after := testutil.ToFloat64(storeOperations.WithLabelValues("organization", "find_by_id", ResultNotFound))
	assert.Equal(t, before+1, after)
}

func TestHandler(t *testing.T) {
	ObserveStoreOperation("tags", "find", ResultOK, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "modelapi_store_operations_total"))
}

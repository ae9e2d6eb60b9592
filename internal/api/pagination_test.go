package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/modelapi/internal/apierr"
	"evalgo.org/modelapi/internal/storage"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    *storage.Page
		wantErr bool
	}{
		{name: "no paging", query: "", want: nil},
		{name: "unrelated params", query: "?limit=5", want: nil},
		{name: "limit only", query: "?page[limit]=10", want: &storage.Page{Limit: 10}},
		{name: "offset only", query: "?page[offset]=20", want: &storage.Page{Offset: 20}},
		{name: "both", query: "?page[limit]=5&page[offset]=15", want: &storage.Page{Limit: 5, Offset: 15}},
		{name: "limit capped", query: "?page[limit]=5000", want: &storage.Page{Limit: maxPageLimit}},
		{name: "zero limit", query: "?page[limit]=0", wantErr: true},
		{name: "negative offset", query: "?page[offset]=-1", wantErr: true},
		{name: "non numeric", query: "?page[limit]=ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/rest/tags"+tt.query, nil)
			c := e.NewContext(req, httptest.NewRecorder())

			page, err := parsePage(c)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apierr.Is(err, apierr.KindBadRequest))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, page)
		})
	}
}

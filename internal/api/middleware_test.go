package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/modelapi/internal/apierr"
	"evalgo.org/modelapi/internal/validation"
	"evalgo.org/modelapi/models"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func TestValidateContentType(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		wantErr     bool
	}{
		{
			name:        "POST with application/json - valid",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `{"data":{}}`,
		},
		{
			name:        "POST with application/vnd.api+json - valid",
			method:      http.MethodPost,
			contentType: "application/vnd.api+json",
			body:        `{"data":{}}`,
		},
		{
			name:        "PATCH with charset - valid",
			method:      http.MethodPatch,
			contentType: "application/json; charset=utf-8",
			body:        `{"data":{}}`,
		},
		{
			name:        "POST with text/plain - invalid",
			method:      http.MethodPost,
			contentType: "text/plain",
			body:        "test data",
			wantErr:     true,
		},
		{
			name:        "GET request - skip validation",
			method:      http.MethodGet,
			contentType: "text/html",
		},
		{
			name:   "POST with empty body - valid",
			method: http.MethodPost,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(tt.method, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set(echo.HeaderContentType, tt.contentType)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			err := ValidateContentType(okHandler)(c)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apierr.Is(err, apierr.KindBadRequest))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateAcceptHeader(t *testing.T) {
	tests := []struct {
		accept  string
		wantErr bool
	}{
		{accept: ""},
		{accept: "application/json"},
		{accept: "application/vnd.api+json"},
		{accept: "*/*"},
		{accept: "application/*"},
		{accept: "text/html,application/xhtml+xml,*/*;q=0.8"},
		{accept: "text/html", wantErr: true},
		{accept: "application/xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.accept != "" {
				req.Header.Set(echo.HeaderAccept, tt.accept)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			err := ValidateAcceptHeader(okHandler)(c)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, SecurityHeaders(okHandler)(c))

	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"X-XSS-Protection":       "1; mode=block",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
		"Pragma":                 "no-cache",
		"Expires":                "0",
	}
	for header, value := range want {
		assert.Equal(t, value, rec.Header().Get(header), header)
	}
	assert.Contains(t, rec.Header().Get(echo.HeaderCacheControl), "no-store")
}

func TestValidateResource(t *testing.T) {
	reg, err := models.NewRegistry(models.Builtin()...)
	require.NoError(t, err)
	v := validation.New(reg)

	tests := []struct {
		name     string
		typ      string
		mode     validation.Mode
		body     string
		wantKind apierr.Kind
		wantErr  bool
	}{
		{name: "read known type", typ: "tags", mode: validation.Read},
		{name: "read unknown type", typ: "widgets", mode: validation.Read, wantErr: true, wantKind: apierr.KindNotFound},
		{name: "create ok", typ: "tags", mode: validation.Create, body: `{"data":{"type":"tags"}}`},
		{name: "create with id", typ: "tags", mode: validation.Create, body: `{"data":{"type":"tags","id":"x"}}`, wantErr: true, wantKind: apierr.KindBadRequest},
		{name: "update without id", typ: "tags", mode: validation.Update, body: `{"data":{"type":"tags"}}`, wantErr: true, wantKind: apierr.KindBadRequest},
		{name: "unknown type before body", typ: "widgets", mode: validation.Create, body: `{`, wantErr: true, wantKind: apierr.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c := e.NewContext(req, httptest.NewRecorder())
			c.SetParamNames("type")
			c.SetParamValues(tt.typ)

			var seen []byte
			handler := ValidateResource(v, tt.mode)(func(c echo.Context) error {
				seen = requestBody(c)
				return c.NoContent(http.StatusOK)
			})

			err := handler(c)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apierr.KindOf(err))
				assert.Nil(t, seen, "handler must not run")
				return
			}
			require.NoError(t, err)
			if tt.mode != validation.Read {
				assert.Equal(t, tt.body, string(seen))
			}
		})
	}
}

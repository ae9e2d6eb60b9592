package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"evalgo.org/modelapi/internal/apierr"
	"evalgo.org/modelapi/internal/jsonapi"
	"evalgo.org/modelapi/internal/validation"
)

// bodyKey holds the raw request body read by the validation gate.
const bodyKey = "modelapi.body"

// ValidateContentType middleware ensures that requests with a body are JSON
func ValidateContentType(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		method := c.Request().Method

		// Only check POST, PUT, PATCH requests
		if method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch {
			// Allow empty body for some requests
			if c.Request().ContentLength == 0 {
				return next(c)
			}

			contentType := c.Request().Header.Get(echo.HeaderContentType)
			if !strings.HasPrefix(contentType, echo.MIMEApplicationJSON) &&
				!strings.HasPrefix(contentType, jsonapi.MediaType) {
				return apierr.BadRequest("Content-Type must be '%s' or '%s'. Got: %s",
					echo.MIMEApplicationJSON, jsonapi.MediaType, contentType)
			}
		}

		return next(c)
	}
}

// ValidateAcceptHeader middleware ensures that clients can accept JSON responses
func ValidateAcceptHeader(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		accept := c.Request().Header.Get(echo.HeaderAccept)

		// If no Accept header, assume */*
		if accept == "" {
			return next(c)
		}

		if !strings.Contains(accept, echo.MIMEApplicationJSON) &&
			!strings.Contains(accept, jsonapi.MediaType) &&
			!strings.Contains(accept, "*/*") &&
			!strings.Contains(accept, "application/*") {
			return apierr.BadRequest("API only returns JSON. Accept header must include '%s', '%s' or '*/*'. Got: %s",
				echo.MIMEApplicationJSON, jsonapi.MediaType, accept)
		}

		return next(c)
	}
}

// SecurityHeaders middleware adds security and no-cache headers to responses
func SecurityHeaders(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// Resource state changes on every write.
		h.Set(echo.HeaderCacheControl, "no-store, no-cache, must-revalidate, proxy-revalidate")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "0")
		h.Set("Surrogate-Control", "no-store")

		return next(c)
	}
}

// ValidateResource returns the per-route request gate. It reads the body
// once, runs the validator for mode and keeps the body for the handler.
func ValidateResource(v *validation.Validator, mode validation.Mode) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var body []byte
			if mode != validation.Read {
				var err error
				body, err = io.ReadAll(c.Request().Body)
				if err != nil {
					return err
				}
				c.Set(bodyKey, body)
			}

			if err := v.Validate(c.Param("type"), body, mode); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// requestBody returns the body read by ValidateResource.
func requestBody(c echo.Context) []byte {
	body, _ := c.Get(bodyKey).([]byte)
	return body
}

// RequestLogger logs every request through logrus.
func RequestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"remote_ip":  v.RemoteIP,
				"request_id": v.RequestID,
			})
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("Request handled")
			return nil
		},
	})
}
